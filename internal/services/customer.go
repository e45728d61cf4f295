package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/utils"
)

const sessionDuration = 30 * 24 * time.Hour

// CustomerService handles registration, login and profile management.
type CustomerService struct {
	customers *repositories.CustomerRepository
	orders    *repositories.OrderRepository
	email     EmailService
	jwtSecret []byte
	logger    *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customers *repositories.CustomerRepository,
	orders *repositories.OrderRepository,
	email EmailService,
	jwtSecret string,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		orders:    orders,
		email:     email,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	Customer *models.Customer `json:"customer"`
	Token    string           `json:"token"`
}

// CustomerClaims is the JWT payload for customer bearer tokens.
type CustomerClaims struct {
	CustomerID   string `json:"customerId"`
	Email        string `json:"email"`
	SessionToken string `json:"sessionToken"`
	jwt.RegisteredClaims
}

var ErrInvalidCredentials = errors.New("invalid email or password")

// Register creates an account, links any guest orders placed with the
// same email, and sends a welcome email.
func (s *CustomerService) Register(req *models.CustomerRegistration) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer, err := s.customers.Create(req.Email, hash, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return nil, err
	}

	if linked, err := s.orders.LinkCustomer(customer.ID, customer.Email); err != nil {
		s.logger.Warn("failed to link guest orders", zap.Error(err))
	} else if linked > 0 {
		s.logger.Info("linked guest orders to new account",
			zap.String("customerId", customer.ID), zap.Int64("orders", linked))
	}

	if err := s.email.SendWelcomeEmail(customer); err != nil {
		s.logger.Warn("failed to send welcome email", zap.Error(err))
	}

	return s.issueToken(customer)
}

// Login verifies credentials and issues a bearer token.
func (s *CustomerService) Login(req *models.CustomerLogin) (*AuthResult, error) {
	customer, err := s.customers.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrCustomerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !customer.IsActive {
		return nil, ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(req.Password, customer.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(customer)
}

// Logout invalidates the server-side session behind a token.
func (s *CustomerService) Logout(sessionToken string) error {
	return s.customers.DeleteSession(sessionToken)
}

// LogoutByJWT extracts the session token from a bearer JWT and revokes
// it. Expired or malformed tokens are treated as already logged out.
func (s *CustomerService) LogoutByJWT(tokenString string) error {
	claims := &CustomerClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || claims.SessionToken == "" {
		return nil
	}
	return s.customers.DeleteSession(claims.SessionToken)
}

// Authenticate validates a bearer token and returns the customer.
func (s *CustomerService) Authenticate(tokenString string) (*models.Customer, error) {
	claims := &CustomerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}

	// The JWT is only half the story: the session row must still exist,
	// so logout and server-side revocation take effect immediately.
	session, err := s.customers.GetSessionByToken(claims.SessionToken)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	customer, err := s.customers.GetByID(session.CustomerID)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	if !customer.IsActive {
		return nil, models.ErrUnauthorized
	}
	return customer, nil
}

// UpdateProfile updates profile fields on the account.
func (s *CustomerService) UpdateProfile(customerID string, update *models.CustomerProfileUpdate) (*models.Customer, error) {
	return s.customers.UpdateProfile(customerID, update)
}

// Orders returns the customer's order history.
func (s *CustomerService) Orders(customerID string) ([]*models.Order, error) {
	return s.orders.ListByCustomer(customerID)
}

func (s *CustomerService) issueToken(customer *models.Customer) (*AuthResult, error) {
	sessionToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(sessionDuration)
	if _, err := s.customers.CreateSession(customer.ID, sessionToken, expiresAt); err != nil {
		return nil, err
	}

	claims := CustomerClaims{
		CustomerID:   customer.ID,
		Email:        customer.Email,
		SessionToken: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "laynie-fae",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{Customer: customer, Token: signed}, nil
}
