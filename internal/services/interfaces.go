package services

import (
	"context"

	"laynie-fae-storefront/internal/models"
)

// PaymentService charges cards for checkout and gift card purchases.
type PaymentService interface {
	CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error)
}

// EmailService sends transactional email.
type EmailService interface {
	SendOrderConfirmation(order *models.Order) error
	SendWelcomeEmail(customer *models.Customer) error
	SendGiftCardEmail(card *models.GiftCard) error
	SendConsultationNotification(form *models.ConsultationForm) error
}

// StorageService stores uploaded images and returns their public URLs.
type StorageService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
