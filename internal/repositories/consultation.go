package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"laynie-fae-storefront/internal/models"
)

// ConsultationRepository handles consultation inquiry storage
type ConsultationRepository struct {
	db *sql.DB
}

// NewConsultationRepository creates a new consultation repository
func NewConsultationRepository(db *sql.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// Create stores a submitted consultation form.
func (r *ConsultationRepository) Create(form *models.ConsultationForm) (*models.Consultation, error) {
	data, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode consultation form: %w", err)
	}

	query := `
		INSERT INTO consultations (form, status)
		VALUES ($1, $2)
		RETURNING id, form, status, admin_note, created_at, updated_at`

	return scanConsultation(r.db.QueryRow(query, string(data), models.ConsultationNew))
}

// GetByID retrieves one consultation.
func (r *ConsultationRepository) GetByID(id string) (*models.Consultation, error) {
	query := `SELECT id, form, status, admin_note, created_at, updated_at FROM consultations WHERE id = $1`

	consultation, err := scanConsultation(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrConsultationNotFound
		}
		return nil, err
	}
	return consultation, nil
}

// List returns consultations for the admin inbox, newest first, with an
// optional status filter.
func (r *ConsultationRepository) List(status models.ConsultationStatus, limit, offset int) ([]*models.Consultation, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := `SELECT id, form, status, admin_note, created_at, updated_at FROM consultations`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	defer rows.Close()

	consultations := []*models.Consultation{}
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, consultation)
	}
	return consultations, rows.Err()
}

// UpdateStatus moves a consultation through the back-office workflow.
func (r *ConsultationRepository) UpdateStatus(id string, status models.ConsultationStatus, adminNote string) (*models.Consultation, error) {
	query := `
		UPDATE consultations
		SET status = $2, admin_note = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, form, status, admin_note, created_at, updated_at`

	consultation, err := scanConsultation(r.db.QueryRow(query, id, status, adminNote, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrConsultationNotFound
		}
		return nil, err
	}
	return consultation, nil
}

func scanConsultation(row rowScanner) (*models.Consultation, error) {
	consultation := &models.Consultation{}
	var form []byte
	err := row.Scan(
		&consultation.ID,
		&form,
		&consultation.Status,
		&consultation.AdminNote,
		&consultation.CreatedAt,
		&consultation.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan consultation: %w", err)
	}
	if err := json.Unmarshal(form, &consultation.Form); err != nil {
		return nil, fmt.Errorf("failed to decode consultation form: %w", err)
	}
	return consultation, nil
}
