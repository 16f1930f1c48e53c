package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shos/internal/domain"
)

// CatalogClient is the storefront's view of the catalog API
type CatalogClient interface {
	GetProduct(ctx context.Context) (*domain.ProductBundle, error)
	ListVariants(ctx context.Context) ([]domain.VariantSummary, error)
	ListImages(ctx context.Context) ([]domain.ImageAsset, error)
	CreateVariant(ctx context.Context, form VariantForm) (*domain.Variant, error)
	ReplaceImages(ctx context.Context, variantID int64, images []string) (*domain.VariantImages, error)
	UpdateProduct(ctx context.Context, productID int64, form ProductForm) (*domain.Product, error)
}

// VariantForm is the admin variant creation form
type VariantForm struct {
	ColorName     string   `json:"color_name"`
	ColorHex      *string  `json:"color_hex,omitempty"`
	SKU           string   `json:"sku"`
	PriceOverride *int64   `json:"price_override"`
	StockQty      int64    `json:"stock_qty"`
	Images        []string `json:"images"`
}

// ProductForm is the admin product details form
type ProductForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BasePrice   int64  `json:"base_price"`
}

// APIError is a non-2xx answer from the catalog API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []domain.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code back onto the domain error taxonomy
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrStoreFailure
	}
}

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			ValidationErrors []domain.FieldError `json:"validation_errors"`
		} `json:"details"`
	} `json:"error"`
}

// APIClient talks JSON to the catalog API
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the API rooted at baseURL. A nil httpClient gets a 10s timeout client.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *APIClient) GetProduct(ctx context.Context) (*domain.ProductBundle, error) {
	var bundle domain.ProductBundle
	if err := c.do(ctx, http.MethodGet, "/api/product", nil, &bundle); err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &bundle, nil
}

func (c *APIClient) ListVariants(ctx context.Context) ([]domain.VariantSummary, error) {
	var resp struct {
		Variants []domain.VariantSummary `json:"variants"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/variants", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	return resp.Variants, nil
}

func (c *APIClient) ListImages(ctx context.Context) ([]domain.ImageAsset, error) {
	var resp struct {
		Images []domain.ImageAsset `json:"images"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/product-images", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to load product images: %w", err)
	}
	return resp.Images, nil
}

func (c *APIClient) CreateVariant(ctx context.Context, form VariantForm) (*domain.Variant, error) {
	if form.Images == nil {
		form.Images = []string{}
	}
	var resp struct {
		Variant domain.Variant `json:"variant"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/variants", form, &resp); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}
	return &resp.Variant, nil
}

func (c *APIClient) ReplaceImages(ctx context.Context, variantID int64, images []string) (*domain.VariantImages, error) {
	if images == nil {
		images = []string{}
	}
	var resp struct {
		Variant domain.VariantImages `json:"variant"`
	}
	path := fmt.Sprintf("/api/variants/%d/images", variantID)
	if err := c.do(ctx, http.MethodPut, path, map[string][]string{"images": images}, &resp); err != nil {
		return nil, fmt.Errorf("failed to save variant images: %w", err)
	}
	return &resp.Variant, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, productID int64, form ProductForm) (*domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	path := fmt.Sprintf("/api/product/%d", productID)
	if err := c.do(ctx, http.MethodPut, path, form, &resp); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &resp.Product, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("invalid endpoint %s: %w", path, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody apiErrorBody
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errBody); err == nil {
			apiErr.Code = errBody.Error.Code
			apiErr.Message = errBody.Error.Message
			apiErr.Fields = errBody.Error.Details.ValidationErrors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrStoreFailure, err)
	}
	return nil
}
