package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shos/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var (
	ErrVariantNotFound  = fmt.Errorf("variant %w", domain.ErrNotFound)
	ErrSKUAlreadyExists = fmt.Errorf("sku already exists: %w", domain.ErrConflict)
)

// VariantRepository defines the interface for variant data access
type VariantRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.Variant, error)
	ListSummaries(ctx context.Context) ([]domain.VariantSummary, error)
	Create(ctx context.Context, variant *domain.Variant) error
	ReplaceImages(ctx context.Context, variantID int64, images []string) (*domain.VariantImages, error)
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type variantRepository struct {
	db *sql.DB
}

// NewVariantRepository creates a new instance of VariantRepository
func NewVariantRepository(db *sql.DB) VariantRepository {
	return &variantRepository{db: db}
}

// ListByProduct returns the variants of a product ordered by id, images included
func (r *variantRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Variant, error) {
	query := `
		SELECT id, product_id, color_name, color_hex, sku, price_override, stock_qty, images
		FROM variants
		WHERE product_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	variants := []domain.Variant{}
	legacy := []sql.NullString{}
	for rows.Next() {
		var (
			v             domain.Variant
			colorHex      sql.NullString
			priceOverride sql.NullInt64
			legacyImages  sql.NullString
		)
		err := rows.Scan(
			&v.ID,
			&v.ProductID,
			&v.ColorName,
			&colorHex,
			&v.SKU,
			&priceOverride,
			&v.StockQty,
			&legacyImages,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		v.ColorHex = nullableString(colorHex)
		v.PriceOverride = nullableInt64(priceOverride)
		variants = append(variants, v)
		legacy = append(legacy, legacyImages)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	images, err := loadImages(ctx, r.db, `
		SELECT vi.variant_id, vi.url
		FROM variant_images vi
		JOIN variants v ON v.id = vi.variant_id
		WHERE v.product_id = $1
		ORDER BY vi.variant_id, vi.position
	`, productID)
	if err != nil {
		return nil, err
	}

	for i := range variants {
		variants[i].Images = resolveImages(images[variants[i].ID], legacy[i])
	}

	return variants, nil
}

// ListSummaries returns every variant ordered by id without stock or pricing
func (r *variantRepository) ListSummaries(ctx context.Context) ([]domain.VariantSummary, error) {
	query := `
		SELECT id, color_name, color_hex, sku, images
		FROM variants
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list variant summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.VariantSummary{}
	legacy := []sql.NullString{}
	for rows.Next() {
		var (
			s            domain.VariantSummary
			colorHex     sql.NullString
			legacyImages sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.ColorName, &colorHex, &s.SKU, &legacyImages); err != nil {
			return nil, fmt.Errorf("failed to scan variant summary: %w", err)
		}
		s.ColorHex = nullableString(colorHex)
		summaries = append(summaries, s)
		legacy = append(legacy, legacyImages)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variant summaries: %w", err)
	}

	images, err := loadImages(ctx, r.db, `
		SELECT variant_id, url
		FROM variant_images
		ORDER BY variant_id, position
	`)
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		summaries[i].Images = resolveImages(images[summaries[i].ID], legacy[i])
	}

	return summaries, nil
}

// Create inserts the variant and its images in one transaction.
// A duplicate sku yields ErrSKUAlreadyExists whether it is caught by the
// lookup or by the unique constraint of a concurrent insert.
func (r *variantRepository) Create(ctx context.Context, variant *domain.Variant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM variants WHERE sku = $1)`, variant.SKU).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check sku: %w", err)
	}
	if exists {
		return ErrSKUAlreadyExists
	}

	query := `
		INSERT INTO variants (product_id, color_name, color_hex, sku, price_override, stock_qty, images)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
		RETURNING id
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		variant.ProductID,
		variant.ColorName,
		variant.ColorHex,
		variant.SKU,
		variant.PriceOverride,
		variant.StockQty,
	).Scan(&variant.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSKUAlreadyExists
		}
		return fmt.Errorf("failed to create variant: %w", err)
	}

	if err := insertImages(ctx, tx, variant.ID, variant.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return ErrSKUAlreadyExists
		}
		return fmt.Errorf("failed to commit variant: %w", err)
	}

	if variant.Images == nil {
		variant.Images = []string{}
	}

	return nil
}

// ReplaceImages overwrites the full image list of a variant
func (r *variantRepository) ReplaceImages(ctx context.Context, variantID int64, images []string) (*domain.VariantImages, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := &domain.VariantImages{ID: variantID}

	// Clearing the legacy column moves the variant onto variant_images for good
	err = tx.QueryRowContext(
		ctx,
		`UPDATE variants SET images = NULL WHERE id = $1 RETURNING color_name`,
		variantID,
	).Scan(&result.ColorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to lock variant: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM variant_images WHERE variant_id = $1`, variantID); err != nil {
		return nil, fmt.Errorf("failed to clear variant images: %w", err)
	}

	if err := insertImages(ctx, tx, variantID, images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit variant images: %w", err)
	}

	result.Images = append([]string{}, images...)
	return result, nil
}

func insertImages(ctx context.Context, q queryer, variantID int64, images []string) error {
	if len(images) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(images))
	args := make([]interface{}, 0, len(images)*3)
	for i, url := range images {
		n := len(args)
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", n+1, n+2, n+3))
		args = append(args, variantID, i, url)
	}

	query := "INSERT INTO variant_images (variant_id, position, url) VALUES " + strings.Join(placeholders, ", ")
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert variant images: %w", err)
	}

	return nil
}

func loadImages(ctx context.Context, q queryer, query string, args ...interface{}) (map[int64][]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load variant images: %w", err)
	}
	defer rows.Close()

	images := make(map[int64][]string)
	for rows.Next() {
		var (
			variantID int64
			url       string
		)
		if err := rows.Scan(&variantID, &url); err != nil {
			return nil, fmt.Errorf("failed to scan variant image: %w", err)
		}
		images[variantID] = append(images[variantID], url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variant images: %w", err)
	}

	return images, nil
}

// resolveImages prefers the ordered child rows and falls back to the legacy column
func resolveImages(rows []string, legacy sql.NullString) []string {
	if len(rows) > 0 {
		return rows
	}
	if !legacy.Valid {
		return []string{}
	}
	return domain.DecodeLegacyImages(&legacy.String)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullableInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
