package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

// ProductService defines the interface for main store product operations
type ProductService interface {
	// Method Search matches "query" against product titles and variant SKUs.
	//
	// Returns at most 50 products, title matches first.
	Search(ctx context.Context, query string) ([]models.Product, error)
	// Method GetDetails retrieve a product with its metafields and the metafields of every variant.
	GetDetails(ctx context.Context, productID string) (*models.ProductDetails, error)
	// Method SetThumbnails replaces the thumbnail_images list of a product.
	SetThumbnails(ctx context.Context, productID string, urls []string) (*models.Metafield, error)
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	BaseHandler
	service ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all product handler routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/{productId}", h.GetDetails)
		r.Put("/{productId}/thumbnails", h.SetThumbnails)
	})
}

// Search handles GET /api/products/search
// @Summary Search products
// @Description Search main store products by title or variant SKU
// @Tags products
// @Produce json
// @Param query query string true "Title or SKU fragment"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.ProductSearchResponse
// @Failure 400 {object} models.ErrorResponse "Search query is required"
// @Failure 502 {object} models.ErrorResponse "Main store error"
// @Router /products/search [get]
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	products, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.RespondServiceError(w, err, "failed to search products", zap.String("query", query))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.ProductSearchResponse{Success: true, Products: products})
}

// GetDetails handles GET /api/products/{productId}
// @Summary Get product details
// @Description Get a main store product with its metafields. media_url and thumbnail_images values are decoded from JSON.
// @Tags products
// @Produce json
// @Param productId path string true "Product ID"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.ProductDetailsResponse
// @Failure 400 {object} models.ErrorResponse "productId must be a numeric id"
// @Failure 502 {object} models.ErrorResponse "Main store error"
// @Router /products/{productId} [get]
func (h *ProductHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if !models.IsNumericID(productID) {
		h.RespondError(w, http.StatusBadRequest, "productId must be a numeric id")
		return
	}

	product, err := h.service.GetDetails(r.Context(), productID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get product", zap.String("product_id", productID))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.ProductDetailsResponse{Success: true, Product: product})
}

// SetThumbnails handles PUT /api/products/{productId}/thumbnails
// @Summary Save product thumbnails
// @Description Replace the thumbnail_images metafield of a product. Blank URLs are dropped.
// @Tags products
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param request body models.ThumbnailsRequest true "Thumbnail URLs"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.MetafieldResponse
// @Failure 400 {object} models.ErrorResponse "thumbnailUrls must be an array"
// @Failure 502 {object} models.ErrorResponse "Main store error"
// @Router /products/{productId}/thumbnails [put]
func (h *ProductHandler) SetThumbnails(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if !models.IsNumericID(productID) {
		h.RespondError(w, http.StatusBadRequest, "productId must be a numeric id")
		return
	}

	var req models.ThumbnailsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "thumbnailUrls must be an array")
		return
	}

	mf, err := h.service.SetThumbnails(r.Context(), productID, req.ThumbnailURLs)
	if err != nil {
		h.RespondServiceError(w, err, "failed to save thumbnails", zap.String("product_id", productID))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.MetafieldResponse{
		Success:   true,
		Metafield: mf,
		Message:   "Thumbnail images saved successfully",
	})
}
