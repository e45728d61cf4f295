package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SquareConfig represents Square payment service configuration
type SquareConfig struct {
	AccessToken string
	LocationID  string
	Environment string // "sandbox" or "production"
}

// SquareService handles card payments via the Square Payments API
type SquareService struct {
	config  SquareConfig
	client  *http.Client
	baseURL string
}

const squareAPIVersion = "2024-01-18"

// NewSquareService creates a new Square payment service
func NewSquareService(config SquareConfig) *SquareService {
	baseURL := "https://connect.squareup.com"
	if config.Environment != "production" {
		baseURL = "https://connect.squareupsandbox.com"
	}

	return &SquareService{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// PaymentRequest describes a charge to attempt. SourceID is the one-time
// card token produced by Square's web payments SDK. IdempotencyKey may be
// supplied by the caller to make retries safe; when empty a fresh key is
// generated.
type PaymentRequest struct {
	SourceID       string
	Amount         int // in cents
	Currency       string
	IdempotencyKey string
	BuyerEmail     string
	Note           string
}

// PaymentResult is the outcome of a successful charge.
type PaymentResult struct {
	PaymentID  string
	Status     string
	ReceiptURL string
}

// PaymentError is a failure reported by the payment processor, carrying
// the processor's error code so handlers can distinguish card declines
// from configuration problems.
type PaymentError struct {
	Code   string
	Detail string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Detail)
}

// ErrPaymentDeclined wraps card-level declines.
var ErrPaymentDeclined = errors.New("payment declined")

type squarePaymentRequest struct {
	SourceID       string      `json:"source_id"`
	IdempotencyKey string      `json:"idempotency_key"`
	AmountMoney    squareMoney `json:"amount_money"`
	LocationID     string      `json:"location_id,omitempty"`
	BuyerEmail     string      `json:"buyer_email_address,omitempty"`
	Note           string      `json:"note,omitempty"`
}

type squareMoney struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

type squarePaymentResponse struct {
	Payment struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		ReceiptURL string `json:"receipt_url"`
	} `json:"payment"`
	Errors []squareError `json:"errors"`
}

type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// CreatePayment charges a card token. The amount is in cents.
func (s *SquareService) CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error) {
	if req.SourceID == "" {
		return nil, errors.New("payment source is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	body, err := json.Marshal(squarePaymentRequest{
		SourceID:       req.SourceID,
		IdempotencyKey: idempotencyKey,
		AmountMoney:    squareMoney{Amount: req.Amount, Currency: currency},
		LocationID:     s.config.LocationID,
		BuyerEmail:     req.BuyerEmail,
		Note:           req.Note,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v2/payments", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Square-Version", squareAPIVersion)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment processor: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	var payment squarePaymentResponse
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(payment.Errors) > 0 {
			sqErr := payment.Errors[0]
			perr := &PaymentError{Code: sqErr.Code, Detail: sqErr.Detail}
			if sqErr.Category == "PAYMENT_METHOD_ERROR" {
				return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, perr.Error())
			}
			return nil, perr
		}
		return nil, fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	return &PaymentResult{
		PaymentID:  payment.Payment.ID,
		Status:     payment.Payment.Status,
		ReceiptURL: payment.Payment.ReceiptURL,
	}, nil
}
