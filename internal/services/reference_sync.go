package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

// Metafield identities used by the media manager
const (
	MetafieldNamespace = "custom"
	MediaURLKey        = "media_url"
	ThumbnailImagesKey = "thumbnail_images"
	VariantImageKey    = "variant_image"
	OwnerProducts      = "products"
	OwnerVariants      = "variants"
)

type metafieldsResponse struct {
	Metafields []models.Metafield `json:"metafields"`
}

type metafieldEnvelope struct {
	Metafield *models.Metafield `json:"metafield"`
}

// ListMetafields returns every metafield attached to a resource
func ListMetafields(ctx context.Context, store StoreClient, ownerResource, ownerID string) ([]models.Metafield, error) {
	if err := models.ValidateID("id", ownerID); err != nil {
		return nil, err
	}
	var resp metafieldsResponse
	if err := store.Execute(ctx, http.MethodGet, fmt.Sprintf("%s/%s/metafields.json", ownerResource, ownerID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list metafields of %s %s: %w", ownerResource, ownerID, err)
	}
	return resp.Metafields, nil
}

func findMetafield(ctx context.Context, store StoreClient, ownerResource, ownerID, namespace, key string) (*models.Metafield, error) {
	metafields, err := ListMetafields(ctx, store, ownerResource, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range metafields {
		if metafields[i].Namespace == namespace && metafields[i].Key == key {
			return &metafields[i], nil
		}
	}
	return nil, nil
}

// writeMetafield updates the field when it exists and creates it otherwise
func writeMetafield(ctx context.Context, store StoreClient, ownerResource, ownerID string, existing *models.Metafield, field models.Metafield) (*models.Metafield, error) {
	body := map[string]any{
		"metafield": map[string]any{
			"namespace": field.Namespace,
			"key":       field.Key,
			"value":     field.Value,
			"type":      field.Type,
		},
	}

	method := http.MethodPost
	path := fmt.Sprintf("%s/%s/metafields.json", ownerResource, ownerID)
	if existing != nil {
		method = http.MethodPut
		path = fmt.Sprintf("%s/%s/metafields/%d.json", ownerResource, ownerID, existing.ID)
	}

	var resp metafieldEnvelope
	if err := store.Execute(ctx, method, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to write metafield %s.%s of %s %s: %w", field.Namespace, field.Key, ownerResource, ownerID, err)
	}
	return resp.Metafield, nil
}

// decodeReferenceItems returns the items of a stored field value verbatim.
// An empty value or JSON null is an empty list. A JSON string, any other JSON
// scalar or object, and legacy plain text become a single string item.
// Items of a stored array are kept as they are, whatever their type.
func decodeReferenceItems(value string) []json.RawMessage {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []json.RawMessage{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
		if items == nil {
			return []json.RawMessage{}
		}
		return items
	}

	var text string
	if err := json.Unmarshal([]byte(trimmed), &text); err == nil {
		if text == "" {
			return []json.RawMessage{}
		}
		return []json.RawMessage{rawString(text)}
	}
	return []json.RawMessage{rawString(trimmed)}
}

// itemText returns the text of one stored item. A JSON string yields its
// value and other scalars their literal; null yields false.
func itemText(item json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", false
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, true
	}
	return string(trimmed), true
}

// isURLItem reports whether item is the JSON string url
func isURLItem(item json.RawMessage, url string) bool {
	var text string
	return json.Unmarshal(item, &text) == nil && text == url
}

func rawString(s string) json.RawMessage {
	encoded, _ := json.Marshal(s)
	return encoded
}

// referencesOf lists the non-empty texts of items. Null and empty string items
// are skipped here but stay in the stored array.
func referencesOf(items []json.RawMessage) []string {
	refs := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := itemText(item); ok && text != "" {
			refs = append(refs, text)
		}
	}
	return refs
}

// DecodeReferences turns a stored field value into a list of URLs.
// It reads the value the same way the mutations do and then skips null and
// empty string items, which the mutations leave untouched in storage.
func DecodeReferences(value string) []string {
	return referencesOf(decodeReferenceItems(value))
}

// ReferenceSync maintains a JSON array of URLs stored in a text metafield.
//
// Every mutation reads the whole array, transforms it and writes it back.
// The platform offers no compare-and-swap for metafields, so two concurrent
// writers on the same resource can lose one of the updates.
type ReferenceSync struct {
	store         StoreClient
	ownerResource string
	namespace     string
	key           string
	logger        *zap.Logger
}

// NewReferenceSync creates a synchronizer for one (namespace, key) on one owner resource kind
func NewReferenceSync(store StoreClient, ownerResource, namespace, key string, logger *zap.Logger) *ReferenceSync {
	return &ReferenceSync{
		store:         store,
		ownerResource: ownerResource,
		namespace:     namespace,
		key:           key,
		logger:        logger,
	}
}

// Read returns the current references and the backing metafield, nil when absent
func (s *ReferenceSync) Read(ctx context.Context, ownerID string) ([]string, *models.Metafield, error) {
	items, existing, err := s.readItems(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return referencesOf(items), existing, nil
}

func (s *ReferenceSync) readItems(ctx context.Context, ownerID string) ([]json.RawMessage, *models.Metafield, error) {
	existing, err := findMetafield(ctx, s.store, s.ownerResource, ownerID, s.namespace, s.key)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		return []json.RawMessage{}, nil, nil
	}
	return decodeReferenceItems(existing.Value), existing, nil
}

// AppendReference adds url to the list unless it is already present.
// Other stored items are written back unchanged.
func (s *ReferenceSync) AppendReference(ctx context.Context, ownerID, url string) ([]string, error) {
	items, existing, err := s.readItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(items, func(item json.RawMessage) bool { return isURLItem(item, url) }) {
		items = append(items, rawString(url))
	}
	if _, err := s.write(ctx, ownerID, existing, items); err != nil {
		return nil, err
	}
	refs := referencesOf(items)
	s.logger.Info("reference appended",
		zap.String("owner", s.ownerResource),
		zap.String("owner_id", ownerID),
		zap.String("key", s.key),
		zap.Int("count", len(refs)),
	)
	return refs, nil
}

// RemoveReference drops every item equal to url. An absent field is left absent.
func (s *ReferenceSync) RemoveReference(ctx context.Context, ownerID, url string) ([]string, error) {
	items, existing, err := s.readItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return []string{}, nil
	}

	remaining := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		if !isURLItem(item, url) {
			remaining = append(remaining, item)
		}
	}
	if _, err := s.write(ctx, ownerID, existing, remaining); err != nil {
		return nil, err
	}
	s.logger.Info("reference removed",
		zap.String("owner", s.ownerResource),
		zap.String("owner_id", ownerID),
		zap.String("key", s.key),
		zap.Int("removed", len(items)-len(remaining)),
	)
	return referencesOf(remaining), nil
}

// ClearAllReferences writes an empty list when the field exists
func (s *ReferenceSync) ClearAllReferences(ctx context.Context, ownerID string) error {
	existing, err := findMetafield(ctx, s.store, s.ownerResource, ownerID, s.namespace, s.key)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	_, err = s.write(ctx, ownerID, existing, []json.RawMessage{})
	return err
}

// ReplaceReferences overwrites the list, creating the field if needed
func (s *ReferenceSync) ReplaceReferences(ctx context.Context, ownerID string, urls []string) (*models.Metafield, error) {
	existing, err := findMetafield(ctx, s.store, s.ownerResource, ownerID, s.namespace, s.key)
	if err != nil {
		return nil, err
	}
	items := make([]json.RawMessage, 0, len(urls))
	for _, url := range urls {
		items = append(items, rawString(url))
	}
	return s.write(ctx, ownerID, existing, items)
}

func (s *ReferenceSync) write(ctx context.Context, ownerID string, existing *models.Metafield, items []json.RawMessage) (*models.Metafield, error) {
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode references: %w", err)
	}
	return writeMetafield(ctx, s.store, s.ownerResource, ownerID, existing, models.Metafield{
		Namespace: s.namespace,
		Key:       s.key,
		Value:     string(encoded),
		Type:      models.MetafieldTypeMultiLineText,
	})
}

// ScalarField maintains a single-value text metafield
type ScalarField struct {
	store         StoreClient
	ownerResource string
	namespace     string
	key           string
}

// NewScalarField creates a single-value field accessor
func NewScalarField(store StoreClient, ownerResource, namespace, key string) *ScalarField {
	return &ScalarField{store: store, ownerResource: ownerResource, namespace: namespace, key: key}
}

// Set writes value, or deletes the field when value is blank
func (f *ScalarField) Set(ctx context.Context, ownerID, value string) (models.MetafieldAction, *models.Metafield, error) {
	existing, err := findMetafield(ctx, f.store, f.ownerResource, ownerID, f.namespace, f.key)
	if err != nil {
		return "", nil, err
	}

	if strings.TrimSpace(value) == "" {
		if existing == nil {
			return models.MetafieldNoChange, nil, nil
		}
		path := fmt.Sprintf("%s/%s/metafields/%d.json", f.ownerResource, ownerID, existing.ID)
		if err := f.store.Execute(ctx, http.MethodDelete, path, nil, nil); err != nil {
			return "", nil, fmt.Errorf("failed to delete metafield %s.%s of %s %s: %w", f.namespace, f.key, f.ownerResource, ownerID, err)
		}
		return models.MetafieldDeleted, nil, nil
	}

	written, err := writeMetafield(ctx, f.store, f.ownerResource, ownerID, existing, models.Metafield{
		Namespace: f.namespace,
		Key:       f.key,
		Value:     value,
		Type:      models.MetafieldTypeSingleLineText,
	})
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		return models.MetafieldUpdated, written, nil
	}
	return models.MetafieldCreated, written, nil
}
