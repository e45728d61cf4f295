package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/middleware"
	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/services"
)

// CustomerHandler exposes account registration, login and profile.
type CustomerHandler struct {
	customers *services.CustomerService
	logger    *zap.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *services.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, logger: logger}
}

// PublicRoutes mounts the endpoints that need no token.
func (h *CustomerHandler) PublicRoutes(r chi.Router) {
	r.Post("/customers/register", h.Register)
	r.Post("/customers/login", h.Login)
}

// AuthedRoutes mounts the endpoints behind customer auth.
func (h *CustomerHandler) AuthedRoutes(r chi.Router) {
	r.Post("/customers/logout", h.Logout)
	r.Get("/customers/me", h.Me)
	r.Put("/customers/me", h.UpdateProfile)
	r.Get("/customers/me/orders", h.Orders)
}

// Register creates an account and returns a bearer token.
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRegistration
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.customers.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEntry):
			respondError(w, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, models.ErrInvalidInput):
			respondFieldErrors(w, map[string]string{"password": err.Error()})
		default:
			h.logger.Error("registration failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Login verifies credentials and returns a bearer token.
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerLogin
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.customers.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Logout revokes the current session.
func (h *CustomerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.customers.LogoutByJWT(token); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated customer's profile.
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// UpdateProfile updates the authenticated customer's profile fields.
func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CustomerProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.customers.UpdateProfile(customer.ID, &req)
	if err != nil {
		h.logger.Error("profile update failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Orders returns the authenticated customer's order history.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.customers.Orders(customer.ID)
	if err != nil {
		h.logger.Error("order history load failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}
