package models

import (
	"strings"
	"testing"
)

func TestOrderCreateRequestValidate(t *testing.T) {
	valid := func() OrderCreateRequest {
		return OrderCreateRequest{
			PaymentID:     "pay_123",
			TotalAmount:   4500,
			Currency:      "USD",
			CustomerEmail: "willow@example.com",
			CustomerName:  "Willow Hart",
			Items: []OrderItem{
				{ProductID: "prod-1", ProductName: "Sacred Rose Bouquet", Quantity: 1, UnitPrice: 4500, TotalPrice: 4500},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*OrderCreateRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(r *OrderCreateRequest) {},
		},
		{
			name:    "missing payment id",
			mutate:  func(r *OrderCreateRequest) { r.PaymentID = "" },
			wantErr: "payment id is required",
		},
		{
			name:    "no items",
			mutate:  func(r *OrderCreateRequest) { r.Items = nil },
			wantErr: "at least one item",
		},
		{
			name:    "negative total",
			mutate:  func(r *OrderCreateRequest) { r.TotalAmount = -1 },
			wantErr: "cannot be negative",
		},
		{
			name:    "total over limit",
			mutate:  func(r *OrderCreateRequest) { r.TotalAmount = 10000001 },
			wantErr: "cannot exceed",
		},
		{
			name:    "missing email",
			mutate:  func(r *OrderCreateRequest) { r.CustomerEmail = "" },
			wantErr: "email is required",
		},
		{
			name:    "bad email",
			mutate:  func(r *OrderCreateRequest) { r.CustomerEmail = "not-an-email" },
			wantErr: "email format is invalid",
		},
		{
			name:    "missing name",
			mutate:  func(r *OrderCreateRequest) { r.CustomerName = "   " },
			wantErr: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestOrderValidateOrderNumberFormat(t *testing.T) {
	order := Order{
		OrderNumber:   "ORD-20240101-123456",
		TotalAmount:   1000,
		Status:        OrderPending,
		CustomerEmail: "fern@example.com",
		CustomerName:  "Fern",
	}
	if err := order.Validate(); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}

	order.OrderNumber = "ORDER-123"
	if err := order.Validate(); err == nil {
		t.Fatal("expected invalid order number to fail validation")
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		num := GenerateOrderNumber()
		if !orderNumberRegex.MatchString(num) {
			t.Fatalf("generated order number %q does not match expected format", num)
		}
		seen[num] = true
	}
	if len(seen) < 45 {
		t.Fatalf("expected order numbers to be mostly unique, got %d distinct out of 50", len(seen))
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		status        OrderStatus
		canCancel     bool
		canRefund     bool
	}{
		{OrderPending, true, false},
		{OrderConfirmed, true, true},
		{OrderProcessing, false, true},
		{OrderShipped, false, true},
		{OrderDelivered, false, true},
		{OrderCancelled, false, false},
		{OrderRefunded, false, false},
	}
	for _, tt := range tests {
		o := Order{Status: tt.status}
		if got := o.CanBeCancelled(); got != tt.canCancel {
			t.Errorf("status %s: CanBeCancelled() = %v, want %v", tt.status, got, tt.canCancel)
		}
		if got := o.CanBeRefunded(); got != tt.canRefund {
			t.Errorf("status %s: CanBeRefunded() = %v, want %v", tt.status, got, tt.canRefund)
		}
	}
}

func TestCartItemLineTotal(t *testing.T) {
	item := CartItem{
		UnitPrice: 2500,
		Quantity:  3,
		Customizations: []CartCustomization{
			{OptionID: "ribbon", Value: "gold", AdditionalPrice: 300},
			{OptionID: "card", Value: "blessing", AdditionalPrice: 0},
		},
	}
	if got := item.EffectiveUnitPrice(); got != 2800 {
		t.Fatalf("EffectiveUnitPrice() = %d, want 2800", got)
	}
	if got := item.LineTotal(); got != 8400 {
		t.Fatalf("LineTotal() = %d, want 8400", got)
	}
}
