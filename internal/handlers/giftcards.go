package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/services"
)

// GiftCardHandler sells gift cards and checks balances.
type GiftCardHandler struct {
	giftCards *services.GiftCardService
	logger    *zap.Logger
}

// NewGiftCardHandler creates a new gift card handler
func NewGiftCardHandler(giftCards *services.GiftCardService, logger *zap.Logger) *GiftCardHandler {
	return &GiftCardHandler{giftCards: giftCards, logger: logger}
}

// Routes mounts the public gift card endpoints.
func (h *GiftCardHandler) Routes(r chi.Router) {
	r.Post("/gift-cards", h.Purchase)
	r.Get("/gift-cards/{code}/balance", h.Balance)
}

type giftCardPurchaseRequest struct {
	models.GiftCardPurchase
	SourceID       string `json:"sourceId"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// Purchase charges the buyer and issues a gift card.
func (h *GiftCardHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req giftCardPurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SourceID == "" {
		respondFieldErrors(w, map[string]string{"sourceId": "payment source is required"})
		return
	}

	card, err := h.giftCards.Purchase(r.Context(), &req.GiftCardPurchase, req.SourceID, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrPaymentDeclined):
			respondError(w, http.StatusPaymentRequired, "payment was declined")
		default:
			h.logger.Error("gift card purchase failed", zap.Error(err))
			respondError(w, http.StatusBadGateway, "payment could not be processed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

// Balance returns the remaining balance on a card.
func (h *GiftCardHandler) Balance(w http.ResponseWriter, r *http.Request) {
	card, err := h.giftCards.CheckBalance(chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, models.ErrGiftCardNotFound) {
			respondError(w, http.StatusNotFound, "gift card not found")
			return
		}
		h.logger.Error("gift card lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to look up gift card")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":    card.Code,
		"balance": card.Balance,
		"status":  card.Status,
	})
}
