package repositories

import (
	"database/sql"
	"fmt"

	"laynie-fae-storefront/internal/models"
)

// GiftCardRepository handles gift card data operations
type GiftCardRepository struct {
	db *sql.DB
}

// NewGiftCardRepository creates a new gift card repository
func NewGiftCardRepository(db *sql.DB) *GiftCardRepository {
	return &GiftCardRepository{db: db}
}

const giftCardColumns = `id, code, amount, balance, purchaser_name, purchaser_email,
	recipient_name, recipient_email, message, design, status, created_at`

// Create stores a newly purchased gift card.
func (r *GiftCardRepository) Create(card *models.GiftCard) (*models.GiftCard, error) {
	query := `
		INSERT INTO gift_cards (code, amount, balance, purchaser_name, purchaser_email,
			recipient_name, recipient_email, message, design, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + giftCardColumns

	created := &models.GiftCard{}
	err := scanGiftCard(r.db.QueryRow(
		query,
		card.Code,
		card.Amount,
		card.Balance,
		card.PurchaserName,
		models.SanitizeEmail(card.PurchaserEmail),
		card.RecipientName,
		models.SanitizeEmail(card.RecipientEmail),
		card.Message,
		card.Design,
		card.Status,
	), created)
	if err != nil {
		return nil, fmt.Errorf("failed to create gift card: %w", err)
	}
	return created, nil
}

// GetByCode looks up a gift card by its redemption code.
func (r *GiftCardRepository) GetByCode(code string) (*models.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE code = $1`

	card := &models.GiftCard{}
	err := scanGiftCard(r.db.QueryRow(query, code), card)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrGiftCardNotFound
		}
		return nil, fmt.Errorf("failed to get gift card: %w", err)
	}
	return card, nil
}

// Redeem atomically deducts from a card's balance. It fails if the card
// is not active or carries insufficient balance.
func (r *GiftCardRepository) Redeem(code string, amount int) (*models.GiftCard, error) {
	query := `
		UPDATE gift_cards
		SET balance = balance - $2,
			status = CASE WHEN balance - $2 = 0 THEN 'used' ELSE status END
		WHERE code = $1 AND status = 'active' AND balance >= $2
		RETURNING ` + giftCardColumns

	card := &models.GiftCard{}
	err := scanGiftCard(r.db.QueryRow(query, code, amount), card)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrGiftCardNotFound
		}
		return nil, fmt.Errorf("failed to redeem gift card: %w", err)
	}
	return card, nil
}

// List returns all gift cards for the admin view, newest first.
func (r *GiftCardRepository) List(limit, offset int) ([]*models.GiftCard, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT `+giftCardColumns+` FROM gift_cards ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list gift cards: %w", err)
	}
	defer rows.Close()

	cards := []*models.GiftCard{}
	for rows.Next() {
		card := &models.GiftCard{}
		if err := scanGiftCard(rows, card); err != nil {
			return nil, fmt.Errorf("failed to scan gift card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateStatus sets a card's status, e.g. cancelling a card.
func (r *GiftCardRepository) UpdateStatus(id string, status models.GiftCardStatus) error {
	result, err := r.db.Exec("UPDATE gift_cards SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to update gift card: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrGiftCardNotFound
	}
	return nil
}

func scanGiftCard(row rowScanner, card *models.GiftCard) error {
	return row.Scan(
		&card.ID,
		&card.Code,
		&card.Amount,
		&card.Balance,
		&card.PurchaserName,
		&card.PurchaserEmail,
		&card.RecipientName,
		&card.RecipientEmail,
		&card.Message,
		&card.Design,
		&card.Status,
		&card.CreatedAt,
	)
}
