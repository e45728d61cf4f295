package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Customer represents a registered storefront account.
type Customer struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	FirstName     string    `json:"firstName,omitempty" db:"first_name"`
	LastName      string    `json:"lastName,omitempty" db:"last_name"`
	Phone         string    `json:"phone,omitempty" db:"phone"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	EmailVerified bool      `json:"emailVerified" db:"email_verified"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// CustomerSession is a server-side login session backing a bearer token.
type CustomerSession struct {
	ID           string    `json:"id" db:"id"`
	CustomerID   string    `json:"customerId" db:"customer_id"`
	SessionToken string    `json:"sessionToken" db:"session_token"`
	ExpiresAt    time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired returns true once the session has passed its expiry.
func (s *CustomerSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// CustomerRegistration is the payload accepted by the register endpoint.
type CustomerRegistration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CustomerLogin is the payload accepted by the login endpoint.
type CustomerLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerProfileUpdate is the payload accepted by the profile endpoint.
type CustomerProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

var customerEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FullName returns the customer's display name, falling back to the email.
func (c *Customer) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// Validate validates a registration request.
func (r *CustomerRegistration) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if !customerEmailRegex.MatchString(r.Email) {
		return errors.New("email format is invalid")
	}
	return ValidatePasswordStrength(r.Password)
}

// ValidatePasswordStrength enforces the account password rules.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one number")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}
	return nil
}

// SanitizeEmail normalizes an email address for storage and lookup.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
