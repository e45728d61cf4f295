package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/utils"
)

// GiftCardService sells and redeems gift cards.
type GiftCardService struct {
	giftCards *repositories.GiftCardRepository
	payments  PaymentService
	email     EmailService
	logger    *zap.Logger
}

// NewGiftCardService creates a new gift card service
func NewGiftCardService(
	giftCards *repositories.GiftCardRepository,
	payments PaymentService,
	email EmailService,
	logger *zap.Logger,
) *GiftCardService {
	return &GiftCardService{
		giftCards: giftCards,
		payments:  payments,
		email:     email,
		logger:    logger,
	}
}

// Purchase charges the purchaser and issues a card with a fresh code.
func (s *GiftCardService) Purchase(ctx context.Context, req *models.GiftCardPurchase, sourceID, idempotencyKey string) (*models.GiftCard, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	payment, err := s.payments.CreatePayment(ctx, &PaymentRequest{
		SourceID:       sourceID,
		Amount:         req.Amount,
		Currency:       "USD",
		IdempotencyKey: idempotencyKey,
		BuyerEmail:     req.PurchaserEmail,
		Note:           "Laynie Fae gift card",
	})
	if err != nil {
		return nil, err
	}

	code, err := generateUniqueCode(s.giftCards)
	if err != nil {
		s.logger.Error("gift card code generation failed after payment",
			zap.String("paymentId", payment.PaymentID), zap.Error(err))
		return nil, err
	}

	design := req.Design
	if design == "" {
		design = models.DesignMysticalMoon
	}

	card, err := s.giftCards.Create(&models.GiftCard{
		Code:           code,
		Amount:         req.Amount,
		Balance:        req.Amount,
		PurchaserName:  req.PurchaserName,
		PurchaserEmail: req.PurchaserEmail,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
		Design:         design,
		Status:         models.GiftCardActive,
	})
	if err != nil {
		s.logger.Error("gift card creation failed after payment",
			zap.String("paymentId", payment.PaymentID), zap.Error(err))
		return nil, err
	}

	if err := s.email.SendGiftCardEmail(card); err != nil {
		s.logger.Warn("failed to send gift card email",
			zap.String("code", card.Code), zap.Error(err))
	}

	return card, nil
}

// CheckBalance looks up a card's remaining balance by code.
func (s *GiftCardService) CheckBalance(code string) (*models.GiftCard, error) {
	return s.giftCards.GetByCode(code)
}

// Redeem deducts an amount from a card, e.g. at checkout.
func (s *GiftCardService) Redeem(code string, amount int) (*models.GiftCard, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: redemption amount must be positive", models.ErrInvalidInput)
	}
	return s.giftCards.Redeem(code, amount)
}

// List returns gift cards for the admin view.
func (s *GiftCardService) List(limit, offset int) ([]*models.GiftCard, error) {
	return s.giftCards.List(limit, offset)
}

func generateUniqueCode(repo *repositories.GiftCardRepository) (string, error) {
	for i := 0; i < 5; i++ {
		code, err := utils.GenerateGiftCardCode()
		if err != nil {
			return "", err
		}
		if _, err := repo.GetByCode(code); err == models.ErrGiftCardNotFound {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique gift card code")
}
