package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// OrderStatus represents the payment status of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// FulfillmentStatus represents how far along preparation/shipping is
type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "pending"
	FulfillmentPreparing FulfillmentStatus = "preparing"
	FulfillmentReady     FulfillmentStatus = "ready"
	FulfillmentShipped   FulfillmentStatus = "shipped"
	FulfillmentDelivered FulfillmentStatus = "delivered"
	FulfillmentCancelled FulfillmentStatus = "cancelled"
)

// ShippingAddress is the delivery address captured at checkout.
type ShippingAddress struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// Order represents a placed order.
type Order struct {
	ID                string            `json:"id" db:"id"`
	OrderNumber       string            `json:"orderNumber" db:"order_number"`
	CustomerID        string            `json:"customerId,omitempty" db:"customer_id"` // empty for guest checkout
	PaymentID         string            `json:"paymentId" db:"payment_id"`
	ReceiptURL        string            `json:"receiptUrl,omitempty" db:"receipt_url"`
	Status            OrderStatus       `json:"status" db:"status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus" db:"fulfillment_status"`
	TotalAmount       int               `json:"totalAmount" db:"total_amount"` // in cents
	Currency          string            `json:"currency" db:"currency"`
	CustomerEmail     string            `json:"customerEmail" db:"customer_email"`
	CustomerName      string            `json:"customerName" db:"customer_name"`
	ShippingAddress   *ShippingAddress  `json:"shippingAddress,omitempty"`
	Items             []OrderItem       `json:"items"`
	Notes             string            `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time         `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a snapshot of a cart line at the moment of purchase.
type OrderItem struct {
	ID             string              `json:"id" db:"id"`
	OrderID        string              `json:"orderId" db:"order_id"`
	ProductID      string              `json:"productId" db:"product_id"`
	ProductName    string              `json:"productName" db:"product_name"`
	ProductImage   string              `json:"productImage,omitempty" db:"product_image"`
	VariationName  string              `json:"variationName,omitempty" db:"variation_name"`
	Quantity       int                 `json:"quantity" db:"quantity"`
	UnitPrice      int                 `json:"unitPrice" db:"unit_price"`   // in cents
	TotalPrice     int                 `json:"totalPrice" db:"total_price"` // in cents
	Customizations []CartCustomization `json:"customizations,omitempty"`
}

// OrderCreateRequest is the data needed to record a new order after a
// successful charge.
type OrderCreateRequest struct {
	CustomerID      string
	PaymentID       string
	ReceiptURL      string
	TotalAmount     int
	Currency        string
	CustomerEmail   string
	CustomerName    string
	ShippingAddress *ShippingAddress
	Items           []OrderItem
	Notes           string
}

// OrderUpdateRequest is the data an admin can change on an order.
type OrderUpdateRequest struct {
	Status            OrderStatus       `json:"status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus"`
}

var (
	// Order number format: ORD-YYYYMMDD-XXXXXX (e.g. ORD-20240101-123456)
	orderNumberRegex = regexp.MustCompile(`^ORD-\d{8}-\d{6}$`)
	orderEmailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Validate validates order creation data.
func (req *OrderCreateRequest) Validate() error {
	if err := validateOrderTotalAmount(req.TotalAmount); err != nil {
		return err
	}
	if req.PaymentID == "" {
		return errors.New("payment id is required")
	}
	if len(req.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	return validateOrderContact(req.CustomerEmail, req.CustomerName)
}

// Validate validates order update data.
func (req *OrderUpdateRequest) Validate() error {
	if err := validateOrderStatus(req.Status); err != nil {
		return err
	}
	return validateFulfillmentStatus(req.FulfillmentStatus)
}

// Validate validates a stored order.
func (o *Order) Validate() error {
	if o.OrderNumber == "" {
		return errors.New("order number is required")
	}
	if !orderNumberRegex.MatchString(o.OrderNumber) {
		return errors.New("order number format is invalid")
	}
	if err := validateOrderTotalAmount(o.TotalAmount); err != nil {
		return err
	}
	if err := validateOrderStatus(o.Status); err != nil {
		return err
	}
	return validateOrderContact(o.CustomerEmail, o.CustomerName)
}

func validateOrderTotalAmount(totalAmount int) error {
	if totalAmount < 0 {
		return errors.New("total amount cannot be negative")
	}
	// Maximum order amount of $100,000 (10,000,000 cents)
	if totalAmount > 10000000 {
		return errors.New("total amount cannot exceed $100,000")
	}
	return nil
}

func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

func validateFulfillmentStatus(status FulfillmentStatus) error {
	switch status {
	case FulfillmentPending, FulfillmentPreparing, FulfillmentReady,
		FulfillmentShipped, FulfillmentDelivered, FulfillmentCancelled:
		return nil
	default:
		return errors.New("invalid fulfillment status")
	}
}

func validateOrderContact(email, name string) error {
	if email == "" {
		return errors.New("customer email is required")
	}
	if len(email) > 255 {
		return errors.New("customer email must be less than 255 characters")
	}
	if !orderEmailRegex.MatchString(email) {
		return errors.New("customer email format is invalid")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("customer name is required")
	}
	if len(name) > 255 {
		return errors.New("customer name must be less than 255 characters")
	}
	return nil
}

// GenerateOrderNumber generates a unique order number.
func GenerateOrderNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// 6-digit random suffix from crypto/rand for better uniqueness
	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		randomPart := now.UnixNano() % 1000000
		return fmt.Sprintf("ORD-%s-%06d", dateStr, randomPart)
	}
	return fmt.Sprintf("ORD-%s-%06d", dateStr, randomNum.Int64())
}

// CanBeCancelled returns true if the order can still be cancelled.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

// CanBeRefunded returns true if the order can be refunded.
func (o *Order) CanBeRefunded() bool {
	switch o.Status {
	case OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// TotalAmountInCurrency returns the total in whole currency units.
func (o *Order) TotalAmountInCurrency() float64 {
	return float64(o.TotalAmount) / 100.0
}
