package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

// VariantService defines the interface for main store variant operations
type VariantService interface {
	// Method GetDetails retrieve a variant with its metafields.
	GetDetails(ctx context.Context, variantID string) (*models.VariantDetails, error)
	// Method SetImage stores "imageURL" in the variant_image metafield.
	//
	// A blank "imageURL" deletes the metafield, the result action tells what happened.
	SetImage(ctx context.Context, variantID, imageURL string) (*models.VariantImageResult, error)
	// Method BulkSetImages applies every update in order and never fails as a whole.
	BulkSetImages(ctx context.Context, updates []models.VariantImageUpdate) ([]models.VariantImageResult, models.BulkSummary)
}

// VariantHandler handles variant-related HTTP requests
type VariantHandler struct {
	BaseHandler
	service VariantService
}

// NewVariantHandler creates a new variant handler
func NewVariantHandler(svc VariantService, logger *zap.Logger) *VariantHandler {
	return &VariantHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all variant handler routes
func (h *VariantHandler) RegisterRoutes(r chi.Router) {
	r.Route("/variants", func(r chi.Router) {
		r.Put("/bulk/images", h.BulkSetImages)
		r.Get("/{variantId}", h.GetDetails)
		r.Put("/{variantId}/image", h.SetImage)
	})
}

// GetDetails handles GET /api/variants/{variantId}
// @Summary Get variant details
// @Description Get a main store variant with its metafields
// @Tags variants
// @Produce json
// @Param variantId path string true "Variant ID"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.VariantDetailsResponse
// @Failure 400 {object} models.ErrorResponse "variantId must be a numeric id"
// @Failure 502 {object} models.ErrorResponse "Main store error"
// @Router /variants/{variantId} [get]
func (h *VariantHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")
	if !models.IsNumericID(variantID) {
		h.RespondError(w, http.StatusBadRequest, "variantId must be a numeric id")
		return
	}

	variant, err := h.service.GetDetails(r.Context(), variantID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get variant", zap.String("variant_id", variantID))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.VariantDetailsResponse{Success: true, Variant: variant})
}

// SetImage handles PUT /api/variants/{variantId}/image
// @Summary Set variant image
// @Description Set the variant_image metafield. An empty imageUrl removes it.
// @Tags variants
// @Accept json
// @Produce json
// @Param variantId path string true "Variant ID"
// @Param request body models.VariantImageRequest true "Image URL"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.MetafieldResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 502 {object} models.ErrorResponse "Main store error"
// @Router /variants/{variantId}/image [put]
func (h *VariantHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")
	if !models.IsNumericID(variantID) {
		h.RespondError(w, http.StatusBadRequest, "variantId must be a numeric id")
		return
	}

	var req models.VariantImageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.SetImage(r.Context(), variantID, req.ImageURL)
	if err != nil {
		h.RespondServiceError(w, err, "failed to set variant image", zap.String("variant_id", variantID))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.MetafieldResponse{
		Success:   true,
		Action:    result.Action,
		Metafield: result.Metafield,
		Message:   fmt.Sprintf("Variant image %s successfully", result.Action),
	})
}

// BulkSetImages handles PUT /api/variants/bulk/images
// @Summary Set variant images in bulk
// @Description Apply several variant image updates. Each update succeeds or fails on its own.
// @Tags variants
// @Accept json
// @Produce json
// @Param request body models.BulkVariantImagesRequest true "Variant updates"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.BulkVariantImagesResponse
// @Failure 400 {object} models.ErrorResponse "variantUpdates must be an array"
// @Router /variants/bulk/images [put]
func (h *VariantHandler) BulkSetImages(w http.ResponseWriter, r *http.Request) {
	var req models.BulkVariantImagesRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			h.RespondError(w, http.StatusBadRequest, "variantId must be a numeric id")
			return
		}
		h.RespondError(w, http.StatusBadRequest, "variantUpdates must be an array")
		return
	}

	results, summary := h.service.BulkSetImages(r.Context(), req.VariantUpdates)
	h.Logger.Info("bulk variant image update completed",
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)

	h.RespondJSON(w, http.StatusOK, models.BulkVariantImagesResponse{
		Success: summary.Failed == 0,
		Results: results,
		Summary: summary,
		Message: fmt.Sprintf("Bulk update completed: %d successful, %d failed", summary.Successful, summary.Failed),
	})
}
