package transport

import (
	"net/http"

	"shos/internal/domain"
	"shos/internal/middleware"
	"shos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductBundleResponse is the storefront read payload
type ProductBundleResponse struct {
	Product  *domain.Product  `json:"product"`
	Variants []domain.Variant `json:"variants"`
	Settings *domain.Settings `json:"settings"`
}

// VariantsResponse lists variant summaries
type VariantsResponse struct {
	Variants []domain.VariantSummary `json:"variants"`
}

// ImagesResponse lists available image assets
type ImagesResponse struct {
	Images []domain.ImageAsset `json:"images"`
}

// VariantResponse wraps a single variant
type VariantResponse struct {
	Variant interface{} `json:"variant"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Product *domain.Product `json:"product"`
}

// CatalogHandler handles HTTP requests for catalog operations
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Writes go through writeMiddleware.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, writeMiddleware ...func(http.Handler) http.Handler) {
	r.Get("/api/product", h.GetProduct)
	r.Get("/api/variants", h.ListVariants)
	r.Get("/api/product-images", h.ListProductImages)

	r.Group(func(r chi.Router) {
		r.Use(writeMiddleware...)
		r.Use(middleware.ValidationMiddleware)
		r.Post("/api/variants", h.CreateVariant)
		r.Put("/api/variants/{id}/images", h.ReplaceVariantImages)
		r.Put("/api/product/{id}", h.UpdateProduct)
	})
}

// GetProduct returns the active product with its variants and settings
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.catalogService.GetActiveProductBundle(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductBundleResponse{
		Product:  bundle.Product,
		Variants: bundle.Variants,
		Settings: bundle.Settings,
	})
}

// ListVariants returns the admin summaries of all variants
func (h *CatalogHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.catalogService.ListVariantsSummary(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, VariantsResponse{Variants: variants})
}

// ListProductImages returns the image files that can be attached to variants
func (h *CatalogHandler) ListProductImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.catalogService.ListAvailableImageAssets(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ImagesResponse{Images: images})
}

// CreateVariant handles variant creation
func (h *CatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req CreateVariantRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.logger.Debug("Variant creation rejected", zap.Error(err))
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	variant, err := h.catalogService.CreateVariant(r.Context(), input)
	if err != nil {
		h.logger.Debug("Variant creation failed", zap.Error(err), zap.String("sku", input.SKU))
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Variant created", zap.Int64("variant_id", variant.ID), zap.String("sku", variant.SKU))
	middleware.RespondWithJSON(w, http.StatusCreated, VariantResponse{Variant: variant})
}

// ReplaceVariantImages overwrites the image list of a variant
func (h *CatalogHandler) ReplaceVariantImages(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req ReplaceImagesRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	images, err := parseImageList("images", req.Images)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	updated, err := h.catalogService.ReplaceVariantImages(r.Context(), id, images)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Variant images replaced", zap.Int64("variant_id", id), zap.Int("count", len(updated.Images)))
	middleware.RespondWithJSON(w, http.StatusOK, VariantResponse{Variant: updated})
}

// UpdateProduct changes the editable product fields
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, input)
	if err != nil {
		middleware.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{Product: product})
}

func (req CreateVariantRequest) toInput() (service.NewVariantInput, error) {
	var input service.NewVariantInput
	var err error

	if input.ColorName, err = parseString("color_name", req.ColorName); err != nil {
		return input, err
	}
	if input.SKU, err = parseString("sku", req.SKU); err != nil {
		return input, err
	}

	hex, err := parseString("color_hex", req.ColorHex)
	if err != nil {
		return input, err
	}
	if hex != "" {
		input.ColorHex = &hex
	}

	override, present, err := parseInteger("price_override", req.PriceOverride)
	if err != nil {
		return input, err
	}
	if present {
		input.PriceOverride = &override
	}

	stock, present, err := parseInteger("stock_qty", req.StockQty)
	if err != nil {
		return input, err
	}
	if !present {
		return input, domain.NewInputError("stock_qty", "is required")
	}
	input.StockQty = stock

	input.Images = looseImageList(req.Images)

	return input, nil
}

func (req UpdateProductRequest) toInput() (service.ProductUpdateInput, error) {
	var input service.ProductUpdateInput
	var err error

	if input.Title, err = parseString("title", req.Title); err != nil {
		return input, err
	}
	if input.Description, err = parseString("description", req.Description); err != nil {
		return input, err
	}

	price, present, err := parseInteger("base_price", req.BasePrice)
	if err != nil {
		return input, err
	}
	if !present {
		return input, domain.NewInputError("base_price", "is required")
	}
	input.BasePrice = price

	return input, nil
}
