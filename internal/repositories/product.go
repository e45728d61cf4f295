package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"laynie-fae-storefront/internal/models"
)

// ProductRepository handles product data operations
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, long_description, price, category, subcategory,
	images, variations, tags, is_active, is_customizable, customization_options,
	stock_quantity, ritual_properties, created_at, updated_at`

// Create inserts a new product.
func (r *ProductRepository) Create(product *models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	images, variations, options, ritual, err := marshalProductJSON(product)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (name, description, long_description, price, category, subcategory,
			images, variations, tags, is_active, is_customizable, customization_options,
			stock_quantity, ritual_properties, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + productColumns

	now := time.Now()
	row := r.db.QueryRow(
		query,
		product.Name,
		product.Description,
		product.LongDescription,
		product.Price,
		product.Category,
		product.Subcategory,
		images,
		variations,
		pq.Array(product.Tags),
		product.IsActive,
		product.IsCustomizable,
		options,
		product.StockQuantity,
		ritual,
		now,
		now,
	)

	return scanProduct(row)
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	return product, err
}

// Search returns a page of active products matching the filter.
func (r *ProductRepository) Search(filter models.ProductFilter) (*models.ProductSearchResult, error) {
	where := []string{"is_active = TRUE"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.PriceMin != nil {
		where = append(where, "price >= "+arg(*filter.PriceMin))
	}
	if filter.PriceMax != nil {
		where = append(where, "price <= "+arg(*filter.PriceMax))
	}
	if len(filter.Tags) > 0 {
		where = append(where, "tags && "+arg(pq.Array(filter.Tags)))
	}
	if len(filter.Elements) > 0 {
		elements := make([]string, len(filter.Elements))
		for i, e := range filter.Elements {
			elements[i] = string(e)
		}
		where = append(where, "ritual_properties->'elements' ?| "+arg(pq.Array(elements))+"::text[]")
	}
	if len(filter.Intentions) > 0 {
		where = append(where, "ritual_properties->'intentions' ?| "+arg(pq.Array(filter.Intentions))+"::text[]")
	}
	if filter.IsCustomizable != nil {
		where = append(where, "is_customizable = "+arg(*filter.IsCustomizable))
	}
	if filter.InStock {
		where = append(where, "(stock_quantity IS NULL OR stock_quantity > 0)")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + whereClause
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 24
	}

	query := "SELECT " + productColumns + " FROM products WHERE " + whereClause +
		" ORDER BY created_at DESC LIMIT " + arg(limit) + " OFFSET " + arg((page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.ProductSearchResult{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Update replaces a product's editable fields.
func (r *ProductRepository) Update(product *models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	images, variations, options, ritual, err := marshalProductJSON(product)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, long_description = $4, price = $5, category = $6,
			subcategory = $7, images = $8, variations = $9, tags = $10, is_active = $11,
			is_customizable = $12, customization_options = $13, stock_quantity = $14,
			ritual_properties = $15, updated_at = $16
		WHERE id = $1
		RETURNING ` + productColumns

	row := r.db.QueryRow(
		query,
		product.ID,
		product.Name,
		product.Description,
		product.LongDescription,
		product.Price,
		product.Category,
		product.Subcategory,
		images,
		variations,
		pq.Array(product.Tags),
		product.IsActive,
		product.IsCustomizable,
		options,
		product.StockQuantity,
		ritual,
		time.Now(),
	)

	updated, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	return updated, err
}

// Delete deactivates a product rather than removing the row, so order
// history keeps resolving.
func (r *ProductRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1", id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// DecrementStock reduces tracked stock after a sale. Untracked products
// (NULL stock) are left alone.
func (r *ProductRepository) DecrementStock(id string, quantity int) error {
	_, err := r.db.Exec(`
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity - $2, 0), updated_at = NOW()
		WHERE id = $1 AND stock_quantity IS NOT NULL`, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	return nil
}

// FilterOptions returns the distinct elements, intentions and tags used
// by active products, for building the catalog filter sidebar.
func (r *ProductRepository) FilterOptions() (*models.ProductFilterOptions, error) {
	options := &models.ProductFilterOptions{
		Elements:   []string{},
		Intentions: []string{},
		Tags:       []string{},
	}
	queries := []struct {
		query string
		dest  *[]string
	}{
		{`SELECT DISTINCT jsonb_array_elements_text(ritual_properties->'elements') AS v
			FROM products WHERE is_active = TRUE AND ritual_properties ? 'elements' ORDER BY v`, &options.Elements},
		{`SELECT DISTINCT jsonb_array_elements_text(ritual_properties->'intentions') AS v
			FROM products WHERE is_active = TRUE AND ritual_properties ? 'intentions' ORDER BY v`, &options.Intentions},
		{`SELECT DISTINCT unnest(tags) AS v FROM products WHERE is_active = TRUE ORDER BY v`, &options.Tags},
	}

	for _, q := range queries {
		rows, err := r.db.Query(q.query)
		if err != nil {
			return nil, fmt.Errorf("failed to load filter options: %w", err)
		}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan filter option: %w", err)
			}
			*q.dest = append(*q.dest, v)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return options, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	var images, variations, options []byte
	var ritual sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.LongDescription,
		&product.Price,
		&product.Category,
		&product.Subcategory,
		&images,
		&variations,
		pq.Array(&product.Tags),
		&product.IsActive,
		&product.IsCustomizable,
		&options,
		&product.StockQuantity,
		&ritual,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode product images: %w", err)
	}
	if err := json.Unmarshal(variations, &product.Variations); err != nil {
		return nil, fmt.Errorf("failed to decode product variations: %w", err)
	}
	if err := json.Unmarshal(options, &product.CustomizationOptions); err != nil {
		return nil, fmt.Errorf("failed to decode customization options: %w", err)
	}
	if ritual.Valid && ritual.String != "" {
		product.RitualProperties = &models.RitualProperties{}
		if err := json.Unmarshal([]byte(ritual.String), product.RitualProperties); err != nil {
			return nil, fmt.Errorf("failed to decode ritual properties: %w", err)
		}
	}

	return product, nil
}

func marshalProductJSON(p *models.Product) (images, variations, options []byte, ritual interface{}, err error) {
	if images, err = json.Marshal(orEmptySlice(p.Images)); err != nil {
		return
	}
	if variations, err = json.Marshal(orEmptySlice(p.Variations)); err != nil {
		return
	}
	if options, err = json.Marshal(orEmptySlice(p.CustomizationOptions)); err != nil {
		return
	}
	if p.RitualProperties != nil {
		var data []byte
		if data, err = json.Marshal(p.RitualProperties); err != nil {
			return
		}
		ritual = string(data)
	}
	return
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
