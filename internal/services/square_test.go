package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSquareService(t *testing.T, handler http.HandlerFunc) (*SquareService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewSquareService(SquareConfig{
		AccessToken: "test-token",
		LocationID:  "loc-1",
		Environment: "sandbox",
	})
	svc.baseURL = server.URL
	return svc, server
}

func TestCreatePaymentSuccess(t *testing.T) {
	var got squarePaymentRequest
	svc, _ := newTestSquareService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Square-Version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment": map[string]interface{}{
				"id":          "sq_pay_123",
				"status":      "COMPLETED",
				"receipt_url": "https://squareup.com/receipt/sq_pay_123",
			},
		})
	})

	result, err := svc.CreatePayment(context.Background(), &PaymentRequest{
		SourceID:   "cnon:card-nonce",
		Amount:     7300,
		BuyerEmail: "fern@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "sq_pay_123", result.PaymentID)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, "https://squareup.com/receipt/sq_pay_123", result.ReceiptURL)

	assert.Equal(t, "cnon:card-nonce", got.SourceID)
	assert.Equal(t, 7300, got.AmountMoney.Amount)
	assert.Equal(t, "USD", got.AmountMoney.Currency)
	assert.Equal(t, "loc-1", got.LocationID)
	assert.NotEmpty(t, got.IdempotencyKey, "an idempotency key must be generated when none is supplied")
}

func TestCreatePaymentUsesSuppliedIdempotencyKey(t *testing.T) {
	var got squarePaymentRequest
	svc, _ := newTestSquareService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment": map[string]interface{}{"id": "sq_pay_1", "status": "COMPLETED"},
		})
	})

	_, err := svc.CreatePayment(context.Background(), &PaymentRequest{
		SourceID:       "cnon:card-nonce",
		Amount:         100,
		IdempotencyKey: "retry-key-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "retry-key-42", got.IdempotencyKey)
}

func TestCreatePaymentCardDeclined(t *testing.T) {
	svc, _ := newTestSquareService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{{
				"category": "PAYMENT_METHOD_ERROR",
				"code":     "CARD_DECLINED",
				"detail":   "Card declined.",
			}},
		})
	})

	_, err := svc.CreatePayment(context.Background(), &PaymentRequest{
		SourceID: "cnon:bad-card",
		Amount:   7300,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestCreatePaymentServerError(t *testing.T) {
	svc, _ := newTestSquareService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("{}"))
	})

	_, err := svc.CreatePayment(context.Background(), &PaymentRequest{
		SourceID: "cnon:card-nonce",
		Amount:   100,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentDeclined)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc := NewSquareService(SquareConfig{AccessToken: "t"})

	_, err := svc.CreatePayment(context.Background(), &PaymentRequest{Amount: 100})
	assert.Error(t, err, "missing source must fail before any network call")

	_, err = svc.CreatePayment(context.Background(), &PaymentRequest{SourceID: "cnon:x", Amount: 0})
	assert.Error(t, err, "non-positive amount must fail before any network call")
}
