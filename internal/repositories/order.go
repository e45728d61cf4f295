package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"laynie-fae-storefront/internal/models"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderSearchFilters represents filters for the admin order listing
type OrderSearchFilters struct {
	CustomerID string
	Email      string
	Status     models.OrderStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

const orderColumns = `id, order_number, customer_id, payment_id, receipt_url, status,
	fulfillment_status, total_amount, currency, customer_email, customer_name,
	shipping_address, notes, created_at, updated_at`

// Create records a new order and its item snapshots in one transaction.
func (r *OrderRepository) Create(req *models.OrderCreateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Generate unique order number (retry on collision)
	orderNumber := models.GenerateOrderNumber()
	for i := 0; i < 5; i++ {
		var exists bool
		err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM orders WHERE order_number = $1)", orderNumber).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check order number uniqueness: %w", err)
		}
		if !exists {
			break
		}
		orderNumber = models.GenerateOrderNumber()
	}

	var shippingJSON interface{}
	if req.ShippingAddress != nil {
		data, err := json.Marshal(req.ShippingAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to encode shipping address: %w", err)
		}
		shippingJSON = string(data)
	}

	var customerID interface{}
	if req.CustomerID != "" {
		customerID = req.CustomerID
	}

	query := `
		INSERT INTO orders (order_number, customer_id, payment_id, receipt_url, status,
			fulfillment_status, total_amount, currency, customer_email, customer_name,
			shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + orderColumns

	order := &models.Order{}
	err = scanOrder(tx.QueryRow(
		query,
		orderNumber,
		customerID,
		req.PaymentID,
		req.ReceiptURL,
		models.OrderConfirmed,
		models.FulfillmentPending,
		req.TotalAmount,
		req.Currency,
		models.SanitizeEmail(req.CustomerEmail),
		req.CustomerName,
		shippingJSON,
		req.Notes,
	), order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, product_image,
			variation_name, quantity, unit_price, total_price, customizations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	for _, item := range req.Items {
		customizations, err := json.Marshal(orEmptySlice(item.Customizations))
		if err != nil {
			return nil, fmt.Errorf("failed to encode customizations: %w", err)
		}
		stored := item
		stored.OrderID = order.ID
		err = tx.QueryRow(
			itemQuery,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.ProductImage,
			item.VariationName,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			customizations,
		).Scan(&stored.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, stored)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return order, nil
}

// GetByID retrieves an order with its items.
func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order := &models.Order{}
	err := scanOrder(r.db.QueryRow(query, id), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByOrderNumber retrieves an order by its public number.
func (r *OrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order := &models.Order{}
	err := scanOrder(r.db.QueryRow(query, orderNumber), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByCustomer returns a customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(customerID string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.list(query, customerID)
}

// List returns orders matching admin filters, newest first.
func (r *OrderRepository) List(filters OrderSearchFilters) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.CustomerID != "" {
		query += " AND customer_id = " + arg(filters.CustomerID)
	}
	if filters.Email != "" {
		query += " AND customer_email = " + arg(models.SanitizeEmail(filters.Email))
	}
	if filters.Status != "" {
		query += " AND status = " + arg(filters.Status)
	}
	if filters.DateFrom != nil {
		query += " AND created_at >= " + arg(*filters.DateFrom)
	}
	if filters.DateTo != nil {
		query += " AND created_at < " + arg(*filters.DateTo)
	}

	query += " ORDER BY created_at DESC"
	limit := filters.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}
	query += " LIMIT " + arg(limit)
	if filters.Offset > 0 {
		query += " OFFSET " + arg(filters.Offset)
	}

	return r.list(query, args...)
}

// UpdateStatus changes an order's payment and fulfillment status.
func (r *OrderRepository) UpdateStatus(id string, req *models.OrderUpdateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE orders
		SET status = $2, fulfillment_status = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + orderColumns

	order := &models.Order{}
	err := scanOrder(r.db.QueryRow(query, id, req.Status, req.FulfillmentStatus, time.Now()), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

// LinkCustomer attaches guest orders placed with the given email to the
// customer account that registered with it.
func (r *OrderRepository) LinkCustomer(customerID, email string) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE orders SET customer_id = $1, updated_at = NOW()
		WHERE customer_id IS NULL AND customer_email = $2`,
		customerID, models.SanitizeEmail(email))
	if err != nil {
		return 0, fmt.Errorf("failed to link orders: %w", err)
	}
	return result.RowsAffected()
}

func (r *OrderRepository) list(query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(order *models.Order) error {
	rows, err := r.db.Query(`
		SELECT id, order_id, product_id, product_name, product_image, variation_name,
			quantity, unit_price, total_price, customizations
		FROM order_items WHERE order_id = $1`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var customizations []byte
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductImage,
			&item.VariationName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&customizations,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
			return fmt.Errorf("failed to decode customizations: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func scanOrder(row rowScanner, order *models.Order) error {
	var customerID, shipping sql.NullString
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&customerID,
		&order.PaymentID,
		&order.ReceiptURL,
		&order.Status,
		&order.FulfillmentStatus,
		&order.TotalAmount,
		&order.Currency,
		&order.CustomerEmail,
		&order.CustomerName,
		&shipping,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return err
	}
	order.CustomerID = customerID.String
	if shipping.Valid && shipping.String != "" {
		order.ShippingAddress = &models.ShippingAddress{}
		if err := json.Unmarshal([]byte(shipping.String), order.ShippingAddress); err != nil {
			return fmt.Errorf("failed to decode shipping address: %w", err)
		}
	}
	return nil
}
