package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/models"
	"github.com/storemedia/backend/internal/shopify"
	"go.uber.org/zap"
)

const (
	filesPageSize    = 250
	productsPageSize = 250
)

type productsResponse struct {
	Products []models.Product `json:"products"`
}

type imagesResponse struct {
	Images []models.Image `json:"images"`
}

// Locator maps a media URL back to the remote record that serves it.
// No stable id is stored next to the URL, so this is a linear scan:
// the file registry first, then every product's image collection.
type Locator struct {
	store        StoreClient
	maxFilePages int
	logger       *zap.Logger
}

// NewLocator creates a new locator. maxFilePages bounds the file registry scan.
func NewLocator(store StoreClient, maxFilePages int, logger *zap.Logger) *Locator {
	if maxFilePages < 1 {
		maxFilePages = 1
	}
	return &Locator{store: store, maxFilePages: maxFilePages, logger: logger}
}

// LocateByURL returns the location of mediaURL or *apierr.NotFoundError
func (l *Locator) LocateByURL(ctx context.Context, mediaURL string) (*models.MediaLocation, error) {
	location, err := l.findFile(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	if location != nil {
		return location, nil
	}

	location, err = l.findProductImage(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	if location != nil {
		return location, nil
	}

	l.logger.Info("media not found in external store", zap.String("url", mediaURL))
	return nil, &apierr.NotFoundError{Resource: "media", Key: mediaURL}
}

func (l *Locator) findFile(ctx context.Context, mediaURL string) (*models.MediaLocation, error) {
	var cursor *string
	for page := 0; page < l.maxFilePages; page++ {
		variables := map[string]any{"first": filesPageSize}
		if cursor != nil {
			variables["after"] = *cursor
		}

		var data shopify.FilesData
		if err := l.store.Query(ctx, shopify.FilesQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("failed to search files: %w", err)
		}

		for _, edge := range data.Files.Edges {
			for _, candidate := range edge.Node.URLs() {
				if candidate == mediaURL {
					l.logger.Debug("media found in file registry", zap.String("file_id", edge.Node.ID))
					return &models.MediaLocation{Kind: models.LocationKindFile, RemoteID: edge.Node.ID}, nil
				}
			}
		}

		if !data.Files.PageInfo.HasNextPage || data.Files.PageInfo.EndCursor == "" {
			break
		}
		next := data.Files.PageInfo.EndCursor
		cursor = &next
	}
	return nil, nil
}

func (l *Locator) findProductImage(ctx context.Context, mediaURL string) (*models.MediaLocation, error) {
	timestamp := versionParam(mediaURL)

	path := fmt.Sprintf("products.json?limit=%d&fields=id,title", productsPageSize)
	for path != "" {
		var page productsResponse
		next, err := l.store.ExecutePage(ctx, path, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		for _, product := range page.Products {
			productID := strconv.FormatInt(product.ID, 10)

			var images imagesResponse
			if err := l.store.Execute(ctx, http.MethodGet, fmt.Sprintf("products/%s/images.json", productID), nil, &images); err != nil {
				l.logger.Warn("failed to list product images, skipping product",
					zap.String("product_id", productID),
					zap.Error(err),
				)
				continue
			}

			for _, image := range images.Images {
				if matchesImage(image.Src, mediaURL, timestamp) {
					l.logger.Debug("media found in product images",
						zap.String("product_id", productID),
						zap.Int64("image_id", image.ID),
					)
					return &models.MediaLocation{
						Kind:     models.LocationKindImage,
						RemoteID: strconv.FormatInt(image.ID, 10),
						ParentID: productID,
					}, nil
				}
			}
		}
		path = next
	}
	return nil, nil
}

// matchesImage compares exactly, then falls back to the "v" cache-busting
// timestamp the CDN appends, which survives host and size rewrites.
func matchesImage(src, mediaURL, timestamp string) bool {
	if src == "" {
		return false
	}
	if src == mediaURL {
		return true
	}
	return timestamp != "" && strings.Contains(src, timestamp)
}

// versionParam returns the "v" query parameter of rawURL, "" when absent
func versionParam(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}
