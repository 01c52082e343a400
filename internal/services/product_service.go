package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	searchResultLimit = 50
	skuScanLimit      = 250
	variantFetchLimit = 8
)

// ProductService reads main store products and maintains their thumbnail list
type ProductService struct {
	store      StoreClient
	thumbnails *ReferenceSync
	logger     *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(store StoreClient, logger *zap.Logger) *ProductService {
	return &ProductService{
		store:      store,
		thumbnails: NewReferenceSync(store, OwnerProducts, MetafieldNamespace, ThumbnailImagesKey, logger),
		logger:     logger,
	}
}

type variantResponse struct {
	Variant models.Variant `json:"variant"`
}

// Search matches query against product titles and variant SKUs.
// Title matches come first, results are unique by id and capped at 50.
func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.NewValidationError("", "Search query is required")
	}

	var byTitle productsResponse
	titlePath := fmt.Sprintf("products.json?title=%s&limit=%d", url.QueryEscape(query), searchResultLimit)
	if err := s.store.Execute(ctx, http.MethodGet, titlePath, nil, &byTitle); err != nil {
		return nil, fmt.Errorf("failed to search products by title: %w", err)
	}

	var all productsResponse
	if err := s.store.Execute(ctx, http.MethodGet, fmt.Sprintf("products.json?limit=%d", skuScanLimit), nil, &all); err != nil {
		return nil, fmt.Errorf("failed to search products by sku: %w", err)
	}

	needle := strings.ToLower(query)
	seen := make(map[int64]struct{})
	products := make([]models.Product, 0, len(byTitle.Products))
	add := func(p models.Product) {
		if _, ok := seen[p.ID]; ok || len(products) >= searchResultLimit {
			return
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	for _, p := range byTitle.Products {
		add(p)
	}
	for _, p := range all.Products {
		if hasSKUMatch(p, needle) {
			add(p)
		}
	}

	s.logger.Debug("product search completed", zap.String("query", query), zap.Int("found", len(products)))
	return products, nil
}

func hasSKUMatch(p models.Product, needle string) bool {
	for _, v := range p.Variants {
		if v.SKU != "" && strings.Contains(strings.ToLower(v.SKU), needle) {
			return true
		}
	}
	return false
}

// GetDetails returns the product with its metafields and the metafields of
// every variant. A variant whose metafields cannot be loaded gets an empty list.
func (s *ProductService) GetDetails(ctx context.Context, productID string) (*models.ProductDetails, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apierr.NewValidationError("productId", "productId is required")
	}
	if err := models.ValidateID("productId", productID); err != nil {
		return nil, err
	}

	var resp productResponse
	if err := s.store.Execute(ctx, http.MethodGet, fmt.Sprintf("products/%s.json", productID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	metafields, err := ListMetafields(ctx, s.store, OwnerProducts, productID)
	if err != nil {
		return nil, err
	}

	details := &models.ProductDetails{
		Product:    resp.Product,
		Metafields: decodeMetafields(metafields, MediaURLKey, ThumbnailImagesKey),
		Variants:   make([]models.VariantDetails, len(resp.Product.Variants)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(variantFetchLimit)
	for i, variant := range resp.Product.Variants {
		g.Go(func() error {
			variantID := strconv.FormatInt(variant.ID, 10)
			fields, err := ListMetafields(gctx, s.store, OwnerVariants, variantID)
			if err != nil {
				s.logger.Warn("failed to load variant metafields",
					zap.String("product_id", productID),
					zap.String("variant_id", variantID),
					zap.Error(err),
				)
				fields = nil
			}
			details.Variants[i] = models.VariantDetails{
				Variant:    variant,
				Metafields: decodeMetafields(fields, VariantImageKey),
			}
			return nil
		})
	}
	g.Wait()

	return details, nil
}

// SetThumbnails replaces the thumbnail list of a product. Blank URLs are dropped.
func (s *ProductService) SetThumbnails(ctx context.Context, productID string, urls []string) (*models.Metafield, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apierr.NewValidationError("productId", "productId is required")
	}
	if err := models.ValidateID("productId", productID); err != nil {
		return nil, err
	}
	if urls == nil {
		return nil, apierr.NewValidationError("", "thumbnailUrls must be an array")
	}

	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			valid = append(valid, u)
		}
	}

	mf, err := s.thumbnails.ReplaceReferences(ctx, productID, valid)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product thumbnails saved", zap.String("product_id", productID), zap.Int("count", len(valid)))
	return mf, nil
}

// decodeMetafields exposes metafields for display. Values of the custom
// fields named by jsonKeys are parsed as JSON when they hold valid JSON.
func decodeMetafields(metafields []models.Metafield, jsonKeys ...string) []models.MetafieldView {
	views := make([]models.MetafieldView, 0, len(metafields))
	for _, mf := range metafields {
		view := models.MetafieldView{Metafield: mf, Value: mf.Value}
		if mf.Namespace == MetafieldNamespace && slices.Contains(jsonKeys, mf.Key) {
			var parsed any
			if err := json.Unmarshal([]byte(mf.Value), &parsed); err == nil {
				view.Value = parsed
			}
		}
		views = append(views, view)
	}
	return views
}
