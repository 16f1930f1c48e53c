package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shos/internal/assets"
	"shos/internal/cache"
	"shos/internal/domain"
	"shos/internal/repository"
)

// NewVariantInput carries the fields of a variant creation request.
// Bounds follow the column types of the variants table.
type NewVariantInput struct {
	ColorName     string   `json:"color_name" validate:"required,max=100"`
	ColorHex      *string  `json:"color_hex" validate:"omitempty,max=20"`
	SKU           string   `json:"sku" validate:"required,max=100"`
	PriceOverride *int64   `json:"price_override" validate:"omitempty,gte=0"`
	StockQty      int64    `json:"stock_qty" validate:"gte=0,lte=2147483647"`
	Images        []string `json:"images"`
}

// ProductUpdateInput carries the editable product fields
type ProductUpdateInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	BasePrice   int64  `json:"base_price" validate:"gte=0"`
}

type variantIDInput struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// CatalogService defines the catalog read and write operations
type CatalogService interface {
	GetActiveProductBundle(ctx context.Context) (*domain.ProductBundle, error)
	ListVariantsSummary(ctx context.Context) ([]domain.VariantSummary, error)
	ListAvailableImageAssets(ctx context.Context) ([]domain.ImageAsset, error)
	CreateVariant(ctx context.Context, input NewVariantInput) (*domain.Variant, error)
	ReplaceVariantImages(ctx context.Context, variantID int64, images []string) (*domain.VariantImages, error)
	UpdateProduct(ctx context.Context, productID int64, input ProductUpdateInput) (*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	assets      assets.Library
	cache       cache.BundleCache
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	library assets.Library,
	bundleCache cache.BundleCache,
) CatalogService {
	if bundleCache == nil {
		bundleCache = cache.NewNoopBundleCache()
	}
	return &catalogService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		assets:      library,
		cache:       bundleCache,
	}
}

// GetActiveProductBundle returns the active product with its variants and settings
func (s *catalogService) GetActiveProductBundle(ctx context.Context) (*domain.ProductBundle, error) {
	if bundle, ok := s.cache.Get(ctx); ok {
		return bundle, nil
	}

	// Taken before the load so a write landing mid-read keeps this bundle out of the cache
	generation, cacheable := s.cache.Generation(ctx)

	product, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, storeFailure("failed to find active product", err)
	}

	variants, err := s.variantRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, storeFailure("failed to list variants", err)
	}

	// A missing settings row is reported as null, not as an error
	settings, err := s.productRepo.GetSettings(ctx)
	if err != nil && !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, storeFailure("failed to load settings", err)
	}

	bundle := &domain.ProductBundle{
		Product:  product,
		Variants: variants,
		Settings: settings,
	}
	if cacheable {
		s.cache.Set(ctx, bundle, generation)
	}

	return bundle, nil
}

// ListVariantsSummary returns the admin view of every variant
func (s *catalogService) ListVariantsSummary(ctx context.Context) ([]domain.VariantSummary, error) {
	summaries, err := s.variantRepo.ListSummaries(ctx)
	if err != nil {
		return nil, storeFailure("failed to list variants", err)
	}
	return summaries, nil
}

// ListAvailableImageAssets lists the pickable image files
func (s *catalogService) ListAvailableImageAssets(ctx context.Context) ([]domain.ImageAsset, error) {
	images, err := s.assets.List(ctx)
	if err != nil {
		return nil, storeFailure("failed to list product images", err)
	}
	return images, nil
}

// CreateVariant validates the input and adds a variant to the active product
func (s *catalogService) CreateVariant(ctx context.Context, input NewVariantInput) (*domain.Variant, error) {
	input.ColorName = strings.TrimSpace(input.ColorName)
	input.SKU = strings.TrimSpace(input.SKU)
	if input.ColorHex != nil {
		hex := strings.TrimSpace(*input.ColorHex)
		if hex == "" {
			input.ColorHex = nil
		} else {
			input.ColorHex = &hex
		}
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, storeFailure("failed to resolve active product", err)
	}

	variant := &domain.Variant{
		ProductID:     product.ID,
		ColorName:     input.ColorName,
		ColorHex:      input.ColorHex,
		SKU:           input.SKU,
		PriceOverride: input.PriceOverride,
		StockQty:      int(input.StockQty),
		Images:        domain.CleanImages(input.Images),
	}

	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return nil, storeFailure("failed to create variant", err)
	}

	s.cache.Invalidate(ctx)
	return variant, nil
}

// ReplaceVariantImages overwrites the image list of a variant
func (s *catalogService) ReplaceVariantImages(ctx context.Context, variantID int64, images []string) (*domain.VariantImages, error) {
	if err := validateInput(variantIDInput{ID: variantID}); err != nil {
		return nil, err
	}
	if images == nil {
		return nil, domain.NewInputError("images", "must be an array")
	}

	updated, err := s.variantRepo.ReplaceImages(ctx, variantID, domain.CleanImages(images))
	if err != nil {
		return nil, storeFailure("failed to save variant images", err)
	}

	s.cache.Invalidate(ctx)
	return updated, nil
}

// UpdateProduct changes title, description and base price of a product
func (s *catalogService) UpdateProduct(ctx context.Context, productID int64, input ProductUpdateInput) (*domain.Product, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          productID,
		Title:       input.Title,
		Description: input.Description,
		BasePrice:   input.BasePrice,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storeFailure("failed to update product", err)
	}

	s.cache.Invalidate(ctx)
	return product, nil
}

// storeFailure keeps taxonomy errors intact and classifies everything else as ErrStoreFailure
func storeFailure(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
}
