package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"laynie-fae-storefront/internal/models"
)

// CustomerRepository handles customer account data operations
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, email, password_hash, first_name, last_name, phone,
	is_active, email_verified, created_at, updated_at`

// Create inserts a new customer account.
func (r *CustomerRepository) Create(email, passwordHash, firstName, lastName, phone string) (*models.Customer, error) {
	query := `
		INSERT INTO customers (email, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + customerColumns

	customer := &models.Customer{}
	err := scanCustomer(r.db.QueryRow(query, models.SanitizeEmail(email), passwordHash, firstName, lastName, phone), customer)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer := &models.Customer{}
	err := scanCustomer(r.db.QueryRow(query, id), customer)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// GetByEmail retrieves a customer by email.
func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	customer := &models.Customer{}
	err := scanCustomer(r.db.QueryRow(query, models.SanitizeEmail(email)), customer)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return customer, nil
}

// UpdateProfile updates the customer's editable profile fields.
func (r *CustomerRepository) UpdateProfile(id string, update *models.CustomerProfileUpdate) (*models.Customer, error) {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, phone = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + customerColumns

	customer := &models.Customer{}
	err := scanCustomer(r.db.QueryRow(query, id, update.FirstName, update.LastName, update.Phone, time.Now()), customer)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// CreateSession stores a login session row.
func (r *CustomerRepository) CreateSession(customerID, token string, expiresAt time.Time) (*models.CustomerSession, error) {
	query := `
		INSERT INTO customer_sessions (customer_id, session_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, customer_id, session_token, expires_at, created_at`

	session := &models.CustomerSession{}
	err := r.db.QueryRow(query, customerID, token, expiresAt).Scan(
		&session.ID,
		&session.CustomerID,
		&session.SessionToken,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSessionByToken looks up a live session by its token.
func (r *CustomerRepository) GetSessionByToken(token string) (*models.CustomerSession, error) {
	query := `
		SELECT id, customer_id, session_token, expires_at, created_at
		FROM customer_sessions
		WHERE session_token = $1`

	session := &models.CustomerSession{}
	err := r.db.QueryRow(query, token).Scan(
		&session.ID,
		&session.CustomerID,
		&session.SessionToken,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.IsExpired() {
		return nil, models.ErrSessionExpired
	}
	return session, nil
}

// DeleteSession removes a session on logout.
func (r *CustomerRepository) DeleteSession(token string) error {
	_, err := r.db.Exec("DELETE FROM customer_sessions WHERE session_token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions clears out sessions past their expiry.
func (r *CustomerRepository) DeleteExpiredSessions() (int64, error) {
	result, err := r.db.Exec("DELETE FROM customer_sessions WHERE expires_at < NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func scanCustomer(row rowScanner, customer *models.Customer) error {
	return row.Scan(
		&customer.ID,
		&customer.Email,
		&customer.PasswordHash,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&customer.IsActive,
		&customer.EmailVerified,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
}
