package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

// VariantService reads main store variants and maintains their image field
type VariantService struct {
	store  StoreClient
	image  *ScalarField
	logger *zap.Logger
}

// NewVariantService creates a new variant service
func NewVariantService(store StoreClient, logger *zap.Logger) *VariantService {
	return &VariantService{
		store:  store,
		image:  NewScalarField(store, OwnerVariants, MetafieldNamespace, VariantImageKey),
		logger: logger,
	}
}

// GetDetails returns the variant with its raw metafields
func (s *VariantService) GetDetails(ctx context.Context, variantID string) (*models.VariantDetails, error) {
	if strings.TrimSpace(variantID) == "" {
		return nil, apierr.NewValidationError("variantId", "variantId is required")
	}
	if err := models.ValidateID("variantId", variantID); err != nil {
		return nil, err
	}

	var resp variantResponse
	if err := s.store.Execute(ctx, http.MethodGet, fmt.Sprintf("variants/%s.json", variantID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get variant %s: %w", variantID, err)
	}
	metafields, err := ListMetafields(ctx, s.store, OwnerVariants, variantID)
	if err != nil {
		return nil, err
	}

	return &models.VariantDetails{
		Variant:    resp.Variant,
		Metafields: decodeMetafields(metafields),
	}, nil
}

// SetImage stores imageURL as the variant image. A blank URL removes it.
func (s *VariantService) SetImage(ctx context.Context, variantID, imageURL string) (*models.VariantImageResult, error) {
	if strings.TrimSpace(variantID) == "" {
		return nil, apierr.NewValidationError("variantId", "variantId is required")
	}
	if err := models.ValidateID("variantId", variantID); err != nil {
		return nil, err
	}

	action, mf, err := s.image.Set(ctx, variantID, imageURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info("variant image saved", zap.String("variant_id", variantID), zap.String("action", string(action)))
	return &models.VariantImageResult{
		VariantID: variantID,
		Success:   true,
		Action:    action,
		Metafield: mf,
	}, nil
}

// BulkSetImages applies every update in order. Failures are recorded per item.
func (s *VariantService) BulkSetImages(ctx context.Context, updates []models.VariantImageUpdate) ([]models.VariantImageResult, models.BulkSummary) {
	results := make([]models.VariantImageResult, 0, len(updates))
	summary := models.BulkSummary{Total: len(updates)}

	for _, update := range updates {
		variantID := update.VariantID.String()
		result, err := s.SetImage(ctx, variantID, update.ImageURL)
		if err != nil {
			s.logger.Warn("variant image update failed", zap.String("variant_id", variantID), zap.Error(err))
			results = append(results, models.VariantImageResult{
				VariantID: variantID,
				Error:     apierr.Message(err),
			})
			summary.Failed++
			continue
		}
		results = append(results, *result)
		summary.Successful++
	}

	return results, summary
}
