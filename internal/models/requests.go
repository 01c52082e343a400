package models

// DeleteMediaRequest is the body of a single media deletion
type DeleteMediaRequest struct {
	MediaURL  string `json:"mediaUrl" validate:"required"`
	ProductID ID     `json:"productId" validate:"required"`
}

// DeleteAllMediaRequest is the body of a bulk media deletion
type DeleteAllMediaRequest struct {
	ProductID ID       `json:"productId" validate:"required"`
	MediaURLs []string `json:"mediaUrls" validate:"required,min=1"`
}

// ThumbnailsRequest replaces a product's thumbnail list
type ThumbnailsRequest struct {
	ThumbnailURLs []string `json:"thumbnailUrls" validate:"required"`
}

// VariantImageRequest sets or clears a variant image
type VariantImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// VariantImageUpdate is one item of a bulk variant image update
type VariantImageUpdate struct {
	VariantID ID     `json:"variantId"`
	ImageURL  string `json:"imageUrl"`
}

// BulkVariantImagesRequest is the body of a bulk variant image update.
// Items are validated one by one so a bad item fails alone.
type BulkVariantImagesRequest struct {
	VariantUpdates []VariantImageUpdate `json:"variantUpdates" validate:"required"`
}

// MetafieldAction describes what a scalar metafield write did
type MetafieldAction string

const (
	MetafieldCreated  MetafieldAction = "created"
	MetafieldUpdated  MetafieldAction = "updated"
	MetafieldDeleted  MetafieldAction = "deleted"
	MetafieldNoChange MetafieldAction = "no_change"
)

// VariantImageResult is the outcome of setting one variant image
type VariantImageResult struct {
	VariantID string          `json:"variantId"`
	Success   bool            `json:"success"`
	Action    MetafieldAction `json:"action,omitempty"`
	Metafield *Metafield      `json:"metafield"`
	Error     string          `json:"error,omitempty"`
}

// BulkSummary counts the outcomes of a bulk operation
type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}
