package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/cart"
	"laynie-fae-storefront/internal/middleware"
	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/services"
)

// CheckoutHandler turns the session cart into a paid order.
type CheckoutHandler struct {
	sessions *cart.SessionStore
	orders   *services.OrderService
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions *cart.SessionStore, orders *services.OrderService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, orders: orders, logger: logger}
}

// Routes mounts the checkout endpoints.
func (h *CheckoutHandler) Routes(r chi.Router) {
	r.Post("/checkout", h.Checkout)
	r.Get("/orders/lookup", h.Lookup)
}

type checkoutRequest struct {
	SourceID        string                  `json:"sourceId"`
	IdempotencyKey  string                  `json:"idempotencyKey,omitempty"`
	Email           string                  `json:"email"`
	Name            string                  `json:"name"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
}

var checkoutEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (req *checkoutRequest) fieldErrors() map[string]string {
	fields := map[string]string{}
	if req.SourceID == "" {
		fields["sourceId"] = "payment source is required"
	}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	} else if !checkoutEmailRegex.MatchString(req.Email) {
		fields["email"] = "email format is invalid"
	}
	if addr := req.ShippingAddress; addr != nil {
		if strings.TrimSpace(addr.AddressLine1) == "" {
			fields["shippingAddress.addressLine1"] = "street address is required"
		}
		if strings.TrimSpace(addr.City) == "" {
			fields["shippingAddress.city"] = "city is required"
		}
		if strings.TrimSpace(addr.State) == "" {
			fields["shippingAddress.state"] = "state is required"
		}
		if strings.TrimSpace(addr.PostalCode) == "" {
			fields["shippingAddress.postalCode"] = "postal code is required"
		}
	}
	return fields
}

// Checkout charges the session cart and records the order. Guests may
// check out; authenticated customers get the order on their account.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.fieldErrors(); len(fields) > 0 {
		respondFieldErrors(w, fields)
		return
	}

	// The amount charged comes from the server-side cart. The client
	// never sends a total.
	currentCart := h.sessions.Load(r)
	if currentCart.IsEmpty() {
		respondError(w, http.StatusConflict, "cart is empty")
		return
	}

	checkout := &services.CheckoutRequest{
		Cart:            currentCart,
		SourceID:        req.SourceID,
		IdempotencyKey:  req.IdempotencyKey,
		CustomerEmail:   models.SanitizeEmail(req.Email),
		CustomerName:    strings.TrimSpace(req.Name),
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
	if customer, ok := middleware.CustomerFromContext(r.Context()); ok {
		checkout.CustomerID = customer.ID
	}

	order, err := h.orders.Checkout(r.Context(), checkout)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			respondError(w, http.StatusConflict, "cart is empty")
		case errors.Is(err, services.ErrPaymentDeclined):
			respondError(w, http.StatusPaymentRequired, "payment was declined")
		default:
			h.logger.Error("checkout failed", zap.Error(err))
			respondError(w, http.StatusBadGateway, "payment could not be processed")
		}
		return
	}

	// The cart is cleared only after the order exists.
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Warn("failed to clear cart after checkout",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
	}

	respondJSON(w, http.StatusCreated, order)
}

// Lookup lets a guest retrieve their order by number and email.
func (h *CheckoutHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.URL.Query().Get("orderNumber")
	email := r.URL.Query().Get("email")
	if orderNumber == "" || email == "" {
		respondError(w, http.StatusBadRequest, "orderNumber and email are required")
		return
	}

	order, err := h.orders.LookupOrder(orderNumber, email)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("order lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to look up order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}
