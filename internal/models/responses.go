package models

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"SKU and productId are required"`
}

// UploadedMedia describes an uploaded file in the shape the admin tool expects
type UploadedMedia struct {
	URL          string `json:"url"`
	SecureURL    string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	Filename     string `json:"filename"`
	Alt          string `json:"alt"`
}

// UploadResponse is returned by the upload endpoint
type UploadResponse struct {
	Success bool          `json:"success"`
	Media   UploadedMedia `json:"media"`
	Message string        `json:"message"`
}

// DeleteResponse is returned by the single deletion endpoint
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DeleteResult
}

// BulkDeleteResponse is returned by the bulk deletion endpoint
type BulkDeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Partial bool   `json:"partial"`
	BulkDeleteResult
}

// ProductSearchResponse is returned by the product search endpoint
type ProductSearchResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
}

// ProductDetailsResponse is returned by the product details endpoint
type ProductDetailsResponse struct {
	Success bool            `json:"success"`
	Product *ProductDetails `json:"product"`
}

// MetafieldResponse is returned after a metafield write
type MetafieldResponse struct {
	Success   bool            `json:"success"`
	Action    MetafieldAction `json:"action,omitempty"`
	Metafield *Metafield      `json:"metafield"`
	Message   string          `json:"message"`
}

// VariantDetailsResponse is returned by the variant details endpoint
type VariantDetailsResponse struct {
	Success bool            `json:"success"`
	Variant *VariantDetails `json:"variant"`
}

// BulkVariantImagesResponse is returned by the bulk variant image endpoint
type BulkVariantImagesResponse struct {
	Success bool                 `json:"success"`
	Results []VariantImageResult `json:"results"`
	Summary BulkSummary          `json:"summary"`
	Message string               `json:"message"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string `json:"status" example:"OK"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}
