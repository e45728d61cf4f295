package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MockPaymentService approves every charge without talking to a
// processor. Used in development when no Square credentials are set.
// A source id containing "decline" simulates a card decline.
type MockPaymentService struct{}

// NewMockPaymentService creates a mock payment service
func NewMockPaymentService() *MockPaymentService {
	return &MockPaymentService{}
}

func (s *MockPaymentService) CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error) {
	if strings.Contains(req.SourceID, "decline") {
		return nil, fmt.Errorf("%w: simulated decline", ErrPaymentDeclined)
	}
	id := "mock_" + uuid.New().String()
	return &PaymentResult{
		PaymentID:  id,
		Status:     "COMPLETED",
		ReceiptURL: "https://example.com/receipts/" + id,
	}, nil
}
