package services

import (
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
)

// MockEmailService logs instead of sending. Used in development when no
// Resend API key is configured.
type MockEmailService struct {
	logger *zap.Logger
}

// NewMockEmailService creates a mock email service
func NewMockEmailService(logger *zap.Logger) *MockEmailService {
	return &MockEmailService{logger: logger}
}

func (s *MockEmailService) SendOrderConfirmation(order *models.Order) error {
	s.logger.Info("mock email: order confirmation",
		zap.String("to", order.CustomerEmail),
		zap.String("orderNumber", order.OrderNumber))
	return nil
}

func (s *MockEmailService) SendWelcomeEmail(customer *models.Customer) error {
	s.logger.Info("mock email: welcome", zap.String("to", customer.Email))
	return nil
}

func (s *MockEmailService) SendGiftCardEmail(card *models.GiftCard) error {
	s.logger.Info("mock email: gift card",
		zap.String("to", card.RecipientEmail),
		zap.String("code", card.Code))
	return nil
}

func (s *MockEmailService) SendConsultationNotification(form *models.ConsultationForm) error {
	s.logger.Info("mock email: consultation notification",
		zap.String("from", form.Email),
		zap.String("serviceType", string(form.ServiceType)))
	return nil
}
