package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/services"
)

type contextKey string

const (
	customerContextKey contextKey = "customer"
	adminContextKey    contextKey = "admin"
)

// AdminClaims is the JWT payload for admin bearer tokens.
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// CustomerAuth validates the customer bearer token and puts the account
// on the request context. Requests without a valid token are rejected.
func CustomerAuth(customers *services.CustomerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			customer, err := customers.Authenticate(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), customerContextKey, customer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCustomerAuth attaches the customer when a valid token is
// present but lets anonymous requests through. Checkout uses this so
// guests and account holders share one endpoint.
func OptionalCustomerAuth(customers *services.CustomerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if customer, err := customers.Authenticate(token); err == nil {
					ctx := context.WithValue(r.Context(), customerContextKey, customer)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuth validates the admin bearer token.
func AdminAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				unauthorized(w)
				return
			}

			claims := &AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, models.ErrUnauthorized
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid || claims.Role != "admin" {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), adminContextKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerFromContext returns the authenticated customer, if any.
func CustomerFromContext(ctx context.Context) (*models.Customer, bool) {
	customer, ok := ctx.Value(customerContextKey).(*models.Customer)
	return customer, ok
}

// AdminFromContext returns the authenticated admin email, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminContextKey).(string)
	return email, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
