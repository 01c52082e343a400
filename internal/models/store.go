package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/storemedia/backend/internal/apierr"
)

// Product is a store catalog product
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle,omitempty"`
	Status      string    `json:"status,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	BodyHTML    string    `json:"body_html,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
	Image       *Image    `json:"image,omitempty"`
}

// Variant is a purchasable variant of a product
type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id,omitempty"`
	Title             string `json:"title,omitempty"`
	SKU               string `json:"sku"`
	Price             string `json:"price,omitempty"`
	Position          int    `json:"position,omitempty"`
	Option1           string `json:"option1,omitempty"`
	Option2           string `json:"option2,omitempty"`
	Option3           string `json:"option3,omitempty"`
	ImageID           *int64 `json:"image_id,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity,omitempty"`
}

// Image is a legacy per-product image
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id,omitempty"`
	Position  int    `json:"position,omitempty"`
	Src       string `json:"src"`
	Alt       string `json:"alt,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Metafield types used by the media manager
const (
	MetafieldTypeMultiLineText  = "multi_line_text_field"
	MetafieldTypeSingleLineText = "single_line_text_field"
)

// Metafield is a namespaced custom field attached to a resource
type Metafield struct {
	ID            int64  `json:"id,omitempty"`
	Namespace     string `json:"namespace"`
	Key           string `json:"key"`
	Value         string `json:"value"`
	Type          string `json:"type"`
	OwnerID       int64  `json:"owner_id,omitempty"`
	OwnerResource string `json:"owner_resource,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// MetafieldView is a metafield whose JSON-encoded value may have been decoded
type MetafieldView struct {
	Metafield
	Value any `json:"value"`
}

// ProductDetails is a product with its metafields and per-variant metafields
type ProductDetails struct {
	Product
	Metafields []MetafieldView   `json:"metafields"`
	Variants   []VariantDetails `json:"variants"`
}

// VariantDetails is a variant with its metafields
type VariantDetails struct {
	Variant
	Metafields []MetafieldView `json:"metafields"`
}

// ErrInvalidID is returned when a resource id is not a positive decimal integer
var ErrInvalidID = errors.New("id must be a positive integer")

// ID is a resource id that decodes from either a JSON number or a JSON string.
// Only positive decimal integers are accepted since ids are placed in admin API paths.
type ID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s != "" && !IsNumericID(s) {
			return fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	if !IsNumericID(n.String()) {
		return fmt.Errorf("%w: %s", ErrInvalidID, n.String())
	}
	*id = ID(n.String())
	return nil
}

// IsNumericID reports whether raw is a positive decimal integer
func IsNumericID(raw string) bool {
	n, err := strconv.ParseUint(raw, 10, 64)
	return err == nil && n > 0
}

// ValidateID returns a *apierr.ValidationError naming field unless raw is a numeric id
func ValidateID(field, raw string) error {
	if !IsNumericID(raw) {
		return apierr.NewValidationError(field, "must be a numeric id")
	}
	return nil
}

// String returns the id as a string
func (id ID) String() string {
	return string(id)
}
