package services

import (
	"context"

	"github.com/storemedia/backend/internal/shopify"
)

// StoreClient defines the operations the services need from one store account
type StoreClient interface {
	// Method Name returns the store label used in logs.
	Name() string
	// Method Execute performs a JSON REST call against the versioned admin path.
	//
	// "resourcePath" parameter is relative to the admin path and may carry a query string.
	// "body" is JSON-encoded when non-nil, the response is decoded into "out" when non-nil.
	//
	// Every failure is returned as *apierr.RemoteAPIError.
	Execute(ctx context.Context, method, resourcePath string, body, out any) error
	// Method ExecutePage performs a GET and returns the resource path of the next page.
	//
	// An empty path means "resourcePath" was the last page.
	ExecutePage(ctx context.Context, resourcePath string, out any) (string, error)
	// Method Query posts a GraphQL document and decodes its data member into "out".
	//
	// A response carrying an "errors" array is a failure whatever the HTTP status.
	Query(ctx context.Context, query string, variables map[string]any, out any) error
}

// ExternalStore is the store that hosts uploaded media
type ExternalStore interface {
	StoreClient
	// Method UploadStaged streams a file to a staged upload target.
	//
	// The target parameters are sent as form fields before the file.
	UploadStaged(ctx context.Context, target shopify.StagedTarget, file shopify.StagedFile) error
}
