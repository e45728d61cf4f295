package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
)

// OrderService bridges the cart to the payment processor: it charges the
// card for the cart's total and records the order from a snapshot of the
// cart lines.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	payments PaymentService
	email    EmailService
	logger   *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
	payments PaymentService,
	email EmailService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		payments: payments,
		email:    email,
		logger:   logger,
	}
}

// CheckoutRequest carries everything needed to place an order. The cart
// comes from the server-side session, never from the client, so the
// charged amount always equals the cart total the server computed.
type CheckoutRequest struct {
	Cart            models.Cart
	SourceID        string
	IdempotencyKey  string
	CustomerID      string
	CustomerEmail   string
	CustomerName    string
	ShippingAddress *models.ShippingAddress
	Notes           string
}

var ErrEmptyCart = errors.New("cart is empty")

// Checkout charges the cart total and records the order. The payment
// happens first; an order row exists only for captured charges.
func (s *OrderService) Checkout(ctx context.Context, req *CheckoutRequest) (*models.Order, error) {
	if req.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	payment, err := s.payments.CreatePayment(ctx, &PaymentRequest{
		SourceID:       req.SourceID,
		Amount:         req.Cart.Total,
		Currency:       "USD",
		IdempotencyKey: req.IdempotencyKey,
		BuyerEmail:     req.CustomerEmail,
		Note:           fmt.Sprintf("Laynie Fae order for %s", req.CustomerName),
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Cart.Items))
	for _, line := range req.Cart.Items {
		items = append(items, models.OrderItem{
			ProductID:      line.ProductID,
			ProductName:    line.Name,
			ProductImage:   line.Image,
			VariationName:  line.VariationName,
			Quantity:       line.Quantity,
			UnitPrice:      line.EffectiveUnitPrice(),
			TotalPrice:     line.LineTotal(),
			Customizations: line.Customizations,
		})
	}

	order, err := s.orders.Create(&models.OrderCreateRequest{
		CustomerID:      req.CustomerID,
		PaymentID:       payment.PaymentID,
		ReceiptURL:      payment.ReceiptURL,
		TotalAmount:     req.Cart.Total,
		Currency:        "USD",
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		Notes:           req.Notes,
	})
	if err != nil {
		// The charge went through but the order write failed. Surface
		// the payment id so the charge can be reconciled or refunded.
		s.logger.Error("order creation failed after successful payment",
			zap.String("paymentId", payment.PaymentID), zap.Error(err))
		return nil, fmt.Errorf("payment %s captured but order could not be recorded: %w", payment.PaymentID, err)
	}

	for _, line := range req.Cart.Items {
		if err := s.products.DecrementStock(line.ProductID, line.Quantity); err != nil {
			s.logger.Warn("failed to decrement stock",
				zap.String("productId", line.ProductID), zap.Error(err))
		}
	}

	if err := s.email.SendOrderConfirmation(order); err != nil {
		s.logger.Warn("failed to send order confirmation",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
	}

	return order, nil
}

// GetOrder returns an order by id.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orders.GetByID(id)
}

// LookupOrder finds an order by its public number, verifying the email
// so guests can only see their own orders.
func (s *OrderService) LookupOrder(orderNumber, email string) (*models.Order, error) {
	order, err := s.orders.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order.CustomerEmail != models.SanitizeEmail(email) {
		return nil, models.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns orders for the admin view.
func (s *OrderService) ListOrders(filters repositories.OrderSearchFilters) ([]*models.Order, error) {
	return s.orders.List(filters)
}

// UpdateOrderStatus changes order status from the admin view.
func (s *OrderService) UpdateOrderStatus(id string, req *models.OrderUpdateRequest) (*models.Order, error) {
	return s.orders.UpdateStatus(id, req)
}
