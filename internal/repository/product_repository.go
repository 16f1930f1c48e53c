package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shos/internal/domain"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrSettingsNotFound = fmt.Errorf("settings %w", domain.ErrNotFound)
)

// ProductRepository defines the interface for product and settings data access
type ProductRepository interface {
	FindActive(ctx context.Context) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	GetSettings(ctx context.Context) (*domain.Settings, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// FindActive returns the first active product ordered by id
func (r *productRepository) FindActive(ctx context.Context) (*domain.Product, error) {
	query := `
		SELECT id, title, description, base_price, active
		FROM products
		WHERE active = TRUE
		ORDER BY id
		LIMIT 1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.BasePrice,
		&product.Active,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find active product: %w", err)
	}

	return product, nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, title, description, base_price, active
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.BasePrice,
		&product.Active,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Update writes title, description and base price and refreshes the product from the row
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, base_price = $4
		WHERE id = $1
		RETURNING active
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.BasePrice,
	).Scan(&product.Active)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// GetSettings returns the singleton settings row
func (r *productRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	query := `
		SELECT shipping_flat_fee, currency, support_email
		FROM settings
		ORDER BY id
		LIMIT 1
	`

	settings := &domain.Settings{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.ShippingFlatFee,
		&settings.Currency,
		&settings.SupportEmail,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return settings, nil
}
