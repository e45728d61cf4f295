package models

import "errors"

// Common errors used throughout the application
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrGiftCardNotFound     = errors.New("gift card not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateEntry       = errors.New("duplicate entry")
	ErrSessionExpired       = errors.New("session expired")
)
