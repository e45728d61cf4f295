package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laynie-fae-storefront/internal/models"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_number", "customer_id", "payment_id", "receipt_url", "status",
		"fulfillment_status", "total_amount", "currency", "customer_email", "customer_name",
		"shipping_address", "notes", "created_at", "updated_at",
	})
}

func orderItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "product_name", "product_image", "variation_name",
		"quantity", "unit_price", "total_price", "customizations",
	})
}

func TestOrderRepositoryGetByOrderNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE order_number").
		WithArgs("ORD-20240601-123456").
		WillReturnRows(orderRows().AddRow(
			"order-1", "ORD-20240601-123456", nil, "sq_pay_1", "https://squareup.com/receipt/1",
			"confirmed", "pending", 7300, "USD", "fern@example.com", "Fern Moss",
			nil, "", now, now,
		))
	mock.ExpectQuery("SELECT (.+) FROM order_items WHERE order_id").
		WithArgs("order-1").
		WillReturnRows(orderItemRows().AddRow(
			"item-1", "order-1", "prod-1", "Sacred Rose Bouquet", "", "",
			1, 7300, 7300, `[{"optionId":"ribbon","optionName":"Ribbon","value":"gold","additionalPrice":300}]`,
		))

	repo := NewOrderRepository(db)
	order, err := repo.GetByOrderNumber("ORD-20240601-123456")
	require.NoError(t, err)

	assert.Equal(t, "ORD-20240601-123456", order.OrderNumber)
	assert.Empty(t, order.CustomerID)
	assert.Equal(t, models.OrderConfirmed, order.Status)
	require.Len(t, order.Items, 1)
	require.Len(t, order.Items[0].Customizations, 1)
	assert.Equal(t, "ribbon", order.Items[0].Customizations[0].OptionID)
	assert.Equal(t, 300, order.Items[0].Customizations[0].AdditionalPrice)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs("missing").
		WillReturnRows(orderRows())

	repo := NewOrderRepository(db)
	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestOrderRepositoryLinkCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE orders SET customer_id").
		WithArgs("cust-1", "fern@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewOrderRepository(db)
	linked, err := repo.LinkCustomer("cust-1", "  Fern@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), linked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryUpdateStatusRejectsInvalid(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)
	_, err = repo.UpdateStatus("order-1", &models.OrderUpdateRequest{
		Status:            "not-a-status",
		FulfillmentStatus: models.FulfillmentPending,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}
