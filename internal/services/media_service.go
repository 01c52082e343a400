package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/metrics"
	"github.com/storemedia/backend/internal/models"
	"github.com/storemedia/backend/internal/shopify"
	"go.uber.org/zap"
)

// Holding product markers
const (
	holdingVendor      = "Media Manager"
	holdingProductType = "Media Host"
	holdingSKUPrefix   = "IMAGE_"
)

// ReferenceStore defines the metadata operations the media service needs
type ReferenceStore interface {
	// Method AppendReference adds "url" to the reference list of "ownerID".
	//
	// An absent field is created, a legacy scalar value is coerced to a list first.
	AppendReference(ctx context.Context, ownerID, url string) ([]string, error)
	// Method RemoveReference drops "url" from the reference list of "ownerID".
	//
	// An absent field is left absent.
	RemoveReference(ctx context.Context, ownerID, url string) ([]string, error)
	// Method ClearAllReferences empties the reference list of "ownerID" if it exists.
	ClearAllReferences(ctx context.Context, ownerID string) error
}

// MediaLocator defines the reverse lookup the media service needs
type MediaLocator interface {
	// Method LocateByURL returns the remote record serving "mediaURL".
	//
	// If nothing matches, *apierr.NotFoundError is returned.
	LocateByURL(ctx context.Context, mediaURL string) (*models.MediaLocation, error)
}

// VideoPoller defines the processing wait the media service needs
type VideoPoller interface {
	// Method PollUntilReady waits for "mediaID" to finish processing and returns its URL.
	PollUntilReady(ctx context.Context, mediaID string, maxAttempts int) (string, error)
}

// MediaService orchestrates uploads to the external store and the
// references kept on main store products
type MediaService struct {
	main            StoreClient
	external        ExternalStore
	refs            ReferenceStore
	locator         MediaLocator
	poller          VideoPoller
	pollMaxAttempts int
	now             func() time.Time
	logger          *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(main StoreClient, external ExternalStore, refs ReferenceStore, locator MediaLocator, poller VideoPoller, pollMaxAttempts int, logger *zap.Logger) *MediaService {
	return &MediaService{
		main:            main,
		external:        external,
		refs:            refs,
		locator:         locator,
		poller:          poller,
		pollMaxAttempts: pollMaxAttempts,
		now:             time.Now,
		logger:          logger,
	}
}

type productResponse struct {
	Product models.Product `json:"product"`
}

type imageResponse struct {
	Image *models.Image `json:"image"`
}

// Upload pushes asset to the external store and appends the resulting URL
// to the media references of the main store product productID.
// The references are written only after the whole upload chain succeeded.
func (s *MediaService) Upload(ctx context.Context, asset models.Asset, productID string) (*models.MediaResult, error) {
	kind, err := validateAsset(asset, productID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(asset.Title)
	if title == "" {
		title, err = s.productTitle(ctx, productID)
		if err != nil {
			return nil, err
		}
	}

	filename := GenerateFileName(asset.SKU, extensionFor(asset.Extension(), asset.ContentType), s.now())

	logger := s.logger.With(
		zap.String("sku", asset.SKU),
		zap.String("product_id", productID),
		zap.String("kind", string(kind)),
		zap.String("filename", filename),
		zap.Int64("size", asset.Size),
	)
	logger.Info("uploading media to external store")

	var result *models.MediaResult
	if kind == models.MediaKindVideo {
		result, err = s.uploadVideo(ctx, asset, title, filename)
	} else {
		result, err = s.uploadImage(ctx, asset, title, filename)
	}
	if err != nil {
		metrics.Uploads.WithLabelValues(string(kind), "error").Inc()
		logger.Error("media upload failed", zap.Error(err))
		return nil, err
	}

	if _, err := s.refs.AppendReference(ctx, productID, result.URL); err != nil {
		metrics.Uploads.WithLabelValues(string(kind), "error").Inc()
		logger.Error("failed to record media reference", zap.String("url", result.URL), zap.Error(err))
		return nil, fmt.Errorf("failed to update media references of product %s: %w", productID, err)
	}

	metrics.Uploads.WithLabelValues(string(kind), "success").Inc()
	logger.Info("media uploaded", zap.String("url", result.URL), zap.String("media_id", result.ID))
	return result, nil
}

// validateAsset checks everything that can be checked before a remote call
func validateAsset(asset models.Asset, productID string) (models.MediaKind, error) {
	if asset.Reader == nil {
		return "", apierr.NewValidationError("file", "no file provided")
	}
	if strings.TrimSpace(asset.SKU) == "" || strings.TrimSpace(productID) == "" {
		return "", apierr.NewValidationError("", "SKU and productId are required")
	}
	if err := models.ValidateID("productId", productID); err != nil {
		return "", err
	}
	kind, ok := models.KindFromContentType(asset.ContentType)
	if !ok {
		return "", apierr.NewValidationError("file", "unsupported file type %q, only image and video files are supported", asset.ContentType)
	}
	if asset.Size <= 0 {
		return "", apierr.NewValidationError("file", "file is empty")
	}
	if asset.Size > kind.MaxSize() {
		return "", apierr.NewValidationError("file", "%s file size too large, maximum size is %s", kind, models.HumanSize(kind.MaxSize()))
	}
	return kind, nil
}

func (s *MediaService) productTitle(ctx context.Context, productID string) (string, error) {
	var resp productResponse
	if err := s.main.Execute(ctx, http.MethodGet, fmt.Sprintf("products/%s.json", productID), nil, &resp); err != nil {
		return "", fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return resp.Product.Title, nil
}

func (s *MediaService) uploadImage(ctx context.Context, asset models.Asset, title, filename string) (*models.MediaResult, error) {
	data, err := io.ReadAll(io.LimitReader(asset.Reader, models.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > models.MaxImageSize {
		return nil, apierr.NewValidationError("file", "image file size too large, maximum size is %s", models.HumanSize(models.MaxImageSize))
	}

	holding, err := s.getOrCreateHoldingProduct(ctx, asset.SKU, title)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"image": map[string]any{
			"attachment": base64.StdEncoding.EncodeToString(data),
			"filename":   filename,
			"alt":        fmt.Sprintf("%s - %s", title, asset.Filename),
		},
	}
	var resp imageResponse
	if err := s.external.Execute(ctx, http.MethodPost, fmt.Sprintf("products/%d/images.json", holding.ID), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to upload image to product %d: %w", holding.ID, err)
	}
	if resp.Image == nil || resp.Image.Src == "" {
		return nil, &apierr.RemoteAPIError{Message: "image upload failed, no URL returned"}
	}

	return &models.MediaResult{
		ID:            strconv.FormatInt(resp.Image.ID, 10),
		URL:           resp.Image.Src,
		Kind:          models.MediaKindImage,
		Status:        models.MediaStatusReady,
		Filename:      filename,
		Alt:           title,
		HostProductID: holding.ID,
	}, nil
}

// holdingTitle is the title a holding product is created with
func holdingTitle(sku, title string) string {
	return fmt.Sprintf("%s-%s%s", title, holdingSKUPrefix, sku)
}

// isHoldingProduct matches by the derived title or by the legacy
// "Media Host <key>" marker. This is a substring match on titles, not a
// stable key: a product whose title happens to contain the marker is
// taken as the holding product.
func isHoldingProduct(productTitle, sku, title string) bool {
	return productTitle == holdingTitle(sku, title) ||
		strings.Contains(productTitle, holdingProductType+" "+holdingSKUPrefix+sku)
}

// getOrCreateHoldingProduct returns the draft product that hosts the images
// of sku on the external store, creating it when no product matches
func (s *MediaService) getOrCreateHoldingProduct(ctx context.Context, sku, title string) (*models.Product, error) {
	path := "products.json?limit=250&fields=id,title"
	for path != "" {
		var page productsResponse
		next, err := s.external.ExecutePage(ctx, path, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to search holding product: %w", err)
		}
		for i := range page.Products {
			if isHoldingProduct(page.Products[i].Title, sku, title) {
				s.logger.Debug("using existing holding product", zap.Int64("product_id", page.Products[i].ID))
				return &page.Products[i], nil
			}
		}
		path = next
	}

	key := holdingSKUPrefix + sku
	body := map[string]any{
		"product": map[string]any{
			"title":        holdingTitle(sku, title),
			"body_html":    fmt.Sprintf("<p>Media hosting product for SKU: %s</p>", key),
			"vendor":       holdingVendor,
			"product_type": holdingProductType,
			"status":       "draft",
			"published":    false,
			"variants": []map[string]any{{
				"title":                "Default",
				"price":                "0.00",
				"sku":                  fmt.Sprintf("MEDIA_HOST_%s_%d", key, s.now().UnixMilli()),
				"inventory_management": nil,
				"inventory_policy":     "continue",
				"requires_shipping":    false,
				"taxable":              false,
			}},
		},
	}
	var resp productResponse
	if err := s.external.Execute(ctx, http.MethodPost, "products.json", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create holding product: %w", err)
	}
	s.logger.Info("created holding product", zap.Int64("product_id", resp.Product.ID), zap.String("sku", sku))
	return &resp.Product, nil
}

// uploadVideo runs the staged upload protocol and waits for processing
func (s *MediaService) uploadVideo(ctx context.Context, asset models.Asset, title, filename string) (*models.MediaResult, error) {
	var staged shopify.StagedUploadsCreateData
	err := s.external.Query(ctx, shopify.StagedUploadsCreateMutation, map[string]any{
		"input": []map[string]any{{
			"filename":   filename,
			"mimeType":   asset.ContentType,
			"resource":   "VIDEO",
			"fileSize":   strconv.FormatInt(asset.Size, 10),
			"httpMethod": "POST",
		}},
	}, &staged)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged upload: %w", err)
	}
	if errs := staged.StagedUploadsCreate.UserErrors; len(errs) > 0 {
		return nil, &apierr.RemoteAPIError{Message: "Staged upload error: " + joinUserErrors(errs)}
	}
	if len(staged.StagedUploadsCreate.StagedTargets) == 0 {
		return nil, &apierr.RemoteAPIError{Message: "staged upload returned no target"}
	}
	target := staged.StagedUploadsCreate.StagedTargets[0]

	if err := s.external.UploadStaged(ctx, target, shopify.StagedFile{
		Filename:    filename,
		ContentType: asset.ContentType,
		Size:        asset.Size,
		Reader:      asset.Reader,
	}); err != nil {
		return nil, fmt.Errorf("failed to upload video to staged target: %w", err)
	}

	var created shopify.FileCreateData
	err = s.external.Query(ctx, shopify.FileCreateMutation, map[string]any{
		"files": []map[string]any{{
			"originalSource": target.ResourceURL,
			"contentType":    "VIDEO",
			"alt":            title,
		}},
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to create video file: %w", err)
	}
	if errs := created.FileCreate.UserErrors; len(errs) > 0 {
		return nil, &apierr.RemoteAPIError{Message: "File creation error: " + joinUserErrors(errs)}
	}
	if len(created.FileCreate.Files) == 0 {
		return nil, &apierr.RemoteAPIError{Message: "file creation returned no file"}
	}
	file := created.FileCreate.Files[0]

	url, err := s.poller.PollUntilReady(ctx, file.ID, s.pollMaxAttempts)
	if err != nil {
		return nil, err
	}

	alt := file.Alt
	if alt == "" {
		alt = title
	}
	return &models.MediaResult{
		ID:       file.ID,
		URL:      url,
		Kind:     models.MediaKindVideo,
		Status:   models.MediaStatusReady,
		Filename: filename,
		Alt:      alt,
	}, nil
}

func joinUserErrors(errs []shopify.UserError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, ", ")
}

// Delete removes mediaURL from the external store and from the references
// of productID. The two steps fail independently: a remote failure is
// reported in the result, only a reference update failure fails the call.
func (s *MediaService) Delete(ctx context.Context, productID, mediaURL string) (*models.DeleteResult, error) {
	if strings.TrimSpace(mediaURL) == "" || strings.TrimSpace(productID) == "" {
		return nil, apierr.NewValidationError("", "mediaUrl and productId are required")
	}
	if err := models.ValidateID("productId", productID); err != nil {
		return nil, err
	}

	result := &models.DeleteResult{MediaURL: mediaURL}
	location, err := s.deleteRemote(ctx, mediaURL)
	if err != nil {
		s.logger.Warn("remote media deletion failed, continuing with reference cleanup",
			zap.String("url", mediaURL),
			zap.Error(err),
		)
		result.RemoteError = apierr.Message(err)
		result.RemoteNotFound = isNotFound(err)
	} else {
		result.RemoteDeleted = true
	}
	if location != nil {
		result.Kind = location.Kind
		result.RemoteID = location.RemoteID
	}

	if _, err := s.refs.RemoveReference(ctx, productID, mediaURL); err != nil {
		return nil, fmt.Errorf("failed to update media references of product %s: %w", productID, err)
	}
	return result, nil
}

// DeleteAll deletes every URL in turn, then clears the references of productID.
// Individual failures are accumulated, never fatal. A failure to clear the
// references is logged and reported through MetadataCleared.
func (s *MediaService) DeleteAll(ctx context.Context, productID string, mediaURLs []string) (*models.BulkDeleteResult, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apierr.NewValidationError("productId", "productId and mediaUrls array are required")
	}
	if len(mediaURLs) == 0 {
		return nil, apierr.NewValidationError("mediaUrls", "no media URLs provided")
	}
	if err := models.ValidateID("productId", productID); err != nil {
		return nil, err
	}

	result := &models.BulkDeleteResult{
		TotalProcessed: len(mediaURLs),
		Results:        make([]models.DeleteOutcome, 0, len(mediaURLs)),
	}
	for _, mediaURL := range mediaURLs {
		_, err := s.deleteRemote(ctx, mediaURL)
		outcome := models.DeleteOutcome{URL: mediaURL, Success: err == nil}
		switch {
		case err == nil:
			outcome.Message = "Deleted from external store"
			result.DeletedCount++
		case isNotFound(err):
			outcome.Message = "Not found in external store"
			result.FailedCount++
		default:
			outcome.Error = apierr.Message(err)
			result.FailedCount++
			s.logger.Warn("bulk media deletion item failed", zap.String("url", mediaURL), zap.Error(err))
		}
		result.Results = append(result.Results, outcome)
	}

	if err := s.refs.ClearAllReferences(ctx, productID); err != nil {
		s.logger.Error("failed to clear media references",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	} else {
		result.MetadataCleared = true
	}

	s.logger.Info("bulk media deletion completed",
		zap.String("product_id", productID),
		zap.Int("deleted", result.DeletedCount),
		zap.Int("failed", result.FailedCount),
	)
	return result, nil
}

// deleteRemote locates mediaURL and deletes the record serving it
func (s *MediaService) deleteRemote(ctx context.Context, mediaURL string) (*models.MediaLocation, error) {
	location, err := s.locator.LocateByURL(ctx, mediaURL)
	if err != nil {
		metrics.Deletions.WithLabelValues("not_located").Inc()
		return nil, err
	}

	switch location.Kind {
	case models.LocationKindFile:
		var data shopify.FileDeleteData
		err = s.external.Query(ctx, shopify.FileDeleteMutation, map[string]any{"fileIds": []string{location.RemoteID}}, &data)
		if err == nil && len(data.FileDelete.UserErrors) > 0 {
			err = &apierr.RemoteAPIError{Message: "Delete error: " + data.FileDelete.UserErrors[0].Message}
		}
	default:
		err = s.external.Execute(ctx, http.MethodDelete,
			fmt.Sprintf("products/%s/images/%s.json", location.ParentID, location.RemoteID), nil, nil)
	}
	metrics.Deletions.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return location, fmt.Errorf("failed to delete %s %s: %w", location.Kind, location.RemoteID, err)
	}

	s.logger.Info("media deleted from external store",
		zap.String("url", mediaURL),
		zap.String("kind", string(location.Kind)),
		zap.String("remote_id", location.RemoteID),
	)
	return location, nil
}

func isNotFound(err error) bool {
	var notFound *apierr.NotFoundError
	return errors.As(err, &notFound)
}
