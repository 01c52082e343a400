package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

// multipartMemory is how much of an upload is buffered in memory, the rest spills to disk
const multipartMemory = 32 << 20

// MediaService defines the interface for media service operations
type MediaService interface {
	// Method Upload stores "asset" on the external store and records its URL on product "productID".
	//
	// The reference list is only written after the upload fully succeeded.
	// Validation failures are returned before any remote call as *apierr.ValidationError.
	Upload(ctx context.Context, asset models.Asset, productID string) (*models.MediaResult, error)
	// Method Delete removes "mediaURL" from the external store and from the references of "productID".
	//
	// A remote failure is reported in the result, only a reference update failure returns an error.
	Delete(ctx context.Context, productID, mediaURL string) (*models.DeleteResult, error)
	// Method DeleteAll deletes every URL of "mediaURLs" and clears the references of "productID".
	DeleteAll(ctx context.Context, productID string, mediaURLs []string) (*models.BulkDeleteResult, error)
}

// MediaHandler handles media-related HTTP requests
type MediaHandler struct {
	BaseHandler
	mediaService MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		mediaService: mediaService,
	}
}

// RegisterRoutes registers all media handler routes.
// uploadLimit wraps the upload route, which takes far larger bodies than the rest.
func (h *MediaHandler) RegisterRoutes(r chi.Router, uploadLimit, jsonLimit func(http.Handler) http.Handler) {
	r.Route("/media", func(r chi.Router) {
		r.With(uploadLimit).Post("/upload-to-shopify", h.Upload)
		r.With(jsonLimit).Delete("/delete-from-shopify", h.Delete)
		r.With(jsonLimit).Delete("/delete-all-from-shopify", h.DeleteAll)
	})
}

// Upload handles POST /api/media/upload-to-shopify
// @Summary Upload media to the external store
// @Description Upload an image (up to 20MB) or a video (up to 1GB) to the external store and append its URL to the media_url metafield of the main store product
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or video file"
// @Param sku formData string true "Product SKU"
// @Param productId formData string true "Main store product ID"
// @Param title formData string false "Alt text, defaults to the product title"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Authentication required"
// @Failure 422 {object} models.ErrorResponse "Video processing failed"
// @Failure 502 {object} models.ErrorResponse "External store error"
// @Failure 504 {object} models.ErrorResponse "Video processing timed out"
// @Router /media/upload-to-shopify [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.Logger.Info("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	asset := models.Asset{
		Reader:      file,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		SKU:         strings.TrimSpace(r.FormValue("sku")),
		Title:       strings.TrimSpace(r.FormValue("title")),
	}
	productID := strings.TrimSpace(r.FormValue("productId"))
	if productID != "" && !models.IsNumericID(productID) {
		h.RespondError(w, http.StatusBadRequest, "productId must be a numeric id")
		return
	}

	result, err := h.mediaService.Upload(r.Context(), asset, productID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to upload media",
			zap.String("sku", asset.SKU),
			zap.String("product_id", productID),
		)
		return
	}

	label := "Image"
	if result.Kind == models.MediaKindVideo {
		label = "Video"
	}
	h.RespondJSON(w, http.StatusOK, models.UploadResponse{
		Success: true,
		Media: models.UploadedMedia{
			URL:          result.URL,
			SecureURL:    result.URL,
			PublicID:     result.ID,
			ResourceType: string(result.Kind),
			Filename:     result.Filename,
			Alt:          result.Alt,
		},
		Message: fmt.Sprintf("%s uploaded successfully. URL: %q", label, result.URL),
	})
}

// Delete handles DELETE /api/media/delete-from-shopify
// @Summary Delete media
// @Description Delete a media file from the external store and remove its URL from the product media_url metafield. The metafield is cleaned even when the file is not found.
// @Tags media
// @Accept json
// @Produce json
// @Param request body models.DeleteMediaRequest true "Media to delete"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.DeleteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 502 {object} models.ErrorResponse "External store error"
// @Router /media/delete-from-shopify [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, models.ErrInvalidID) {
			h.RespondError(w, http.StatusBadRequest, "productId must be a numeric id")
			return
		}
		h.RespondError(w, http.StatusBadRequest, "mediaUrl and productId are required")
		return
	}

	result, err := h.mediaService.Delete(r.Context(), req.ProductID.String(), req.MediaURL)
	if err != nil {
		h.RespondServiceError(w, err, "failed to delete media",
			zap.String("product_id", req.ProductID.String()),
			zap.String("url", req.MediaURL),
		)
		return
	}

	message := "Media deleted successfully from external store and metafields"
	if !result.RemoteDeleted {
		message = "Media removed from metafields (external store deletion failed)"
		if result.RemoteNotFound {
			message = "Media removed from metafields (not found in external store)"
		}
	}
	h.RespondJSON(w, http.StatusOK, models.DeleteResponse{
		Success:      true,
		Message:      message,
		DeleteResult: *result,
	})
}

// DeleteAll handles DELETE /api/media/delete-all-from-shopify
// @Summary Delete all media of a product
// @Description Delete every listed media file from the external store and clear the product media_url metafield. Per-item failures are reported in the results.
// @Tags media
// @Accept json
// @Produce json
// @Param request body models.DeleteAllMediaRequest true "Media to delete"
// @Param X-API-Key header string false "API Key"
// @Success 200 {object} models.BulkDeleteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Router /media/delete-all-from-shopify [delete]
func (h *MediaHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAllMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, deleteAllValidationMessage(err))
		return
	}

	result, err := h.mediaService.DeleteAll(r.Context(), req.ProductID.String(), req.MediaURLs)
	if err != nil {
		h.RespondServiceError(w, err, "failed to delete media in bulk", zap.String("product_id", req.ProductID.String()))
		return
	}

	h.RespondJSON(w, http.StatusOK, models.BulkDeleteResponse{
		Success:          true,
		Message:          fmt.Sprintf("Bulk deletion completed: %d deleted, %d failed", result.DeletedCount, result.FailedCount),
		Partial:          result.PartialFailure() != nil,
		BulkDeleteResult: *result,
	})
}

func deleteAllValidationMessage(err error) string {
	const required = "productId and mediaUrls array are required"
	if errors.Is(err, models.ErrInvalidID) {
		return "productId must be a numeric id"
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return required
	}
	for _, fe := range fieldErrs {
		if fe.Field() != "MediaURLs" || fe.Tag() != "min" {
			return required
		}
	}
	return "No media URLs provided"
}
