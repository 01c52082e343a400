package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	holdingScanPath = "products.json?limit=250&fields=id,title"
	cdnURL          = "https://cdn.example/abc123_171234.jpg"
)

func newTestMediaService(main, external *fakeStore) *MediaService {
	logger, _ := zap.NewDevelopment()
	refs := NewReferenceSync(main, OwnerProducts, MetafieldNamespace, MediaURLKey, logger)
	locator := NewLocator(external, 1, logger)
	poller, _ := newTestPoller(external)

	svc := NewMediaService(main, external, refs, locator, poller, 30, logger)
	svc.now = func() time.Time { return time.UnixMilli(171234) }
	return svc
}

func jpegAsset(size int) models.Asset {
	return models.Asset{
		Reader:      strings.NewReader(strings.Repeat("x", size)),
		ContentType: "image/jpeg",
		Filename:    "photo.jpg",
		Size:        int64(size),
		SKU:         "ABC123",
	}
}

func TestMediaService_Upload_ImageScenario(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	main.onREST(http.MethodGet, "products/999.json", `{"product":{"id":999,"title":"Blue Mug"}}`)
	external.onREST(http.MethodGet, holdingScanPath, `{"products":[{"id":1,"title":"Unrelated"}]}`)
	external.onREST(http.MethodPost, "products.json", `{"product":{"id":555,"title":"Blue Mug-IMAGE_ABC123"}}`)
	external.onREST(http.MethodPost, "products/555/images.json", `{"image":{"id":777,"product_id":555,"src":"`+cdnURL+`"}}`)
	svc := newTestMediaService(main, external)

	result, err := svc.Upload(context.Background(), jpegAsset(2*1024*1024), "999")

	require.NoError(t, err)
	assert.Equal(t, cdnURL, result.URL)
	assert.Equal(t, models.MediaKindImage, result.Kind)
	assert.Equal(t, models.MediaStatusReady, result.Status)
	assert.Equal(t, "777", result.ID)
	assert.Equal(t, "ABC123_171234.jpg", result.Filename)
	assert.Equal(t, "Blue Mug", result.Alt)
	assert.Equal(t, int64(555), result.HostProductID)

	product := external.lastBody(http.MethodPost, "products.json")["product"].(map[string]any)
	assert.Equal(t, "Blue Mug-IMAGE_ABC123", product["title"])
	assert.Equal(t, "draft", product["status"])
	assert.Equal(t, false, product["published"])
	assert.Equal(t, "Media Manager", product["vendor"])
	assert.Equal(t, "Media Host", product["product_type"])

	image := external.lastBody(http.MethodPost, "products/555/images.json")["image"].(map[string]any)
	assert.Equal(t, "ABC123_171234.jpg", image["filename"])
	assert.Equal(t, "Blue Mug - photo.jpg", image["alt"])
	decoded, err := base64.StdEncoding.DecodeString(image["attachment"].(string))
	require.NoError(t, err)
	assert.Len(t, decoded, 2*1024*1024)

	mf := main.metafield(OwnerProducts, "999", MediaURLKey)
	require.NotNil(t, mf)
	assert.JSONEq(t, `["`+cdnURL+`"]`, mf.Value)
	assert.Equal(t, models.MetafieldTypeMultiLineText, mf.Type)
}

func TestMediaService_Upload_ReusesHoldingProduct(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{name: "derived title", title: "Blue Mug-IMAGE_ABC123"},
		{name: "legacy marker", title: "Media Host IMAGE_ABC123 (old)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := newFakeStore("main")
			external := newFakeStore("external")
			external.onPage(holdingScanPath, `{"products":[{"id":7,"title":"Other"}]}`, "products.json?limit=250&page_info=p2")
			external.onPage("products.json?limit=250&page_info=p2", `{"products":[{"id":42,"title":"`+tt.title+`"}]}`, "")
			external.onREST(http.MethodPost, "products/42/images.json", `{"image":{"id":1,"src":"`+cdnURL+`"}}`)
			svc := newTestMediaService(main, external)

			asset := jpegAsset(10)
			asset.Title = "Blue Mug"
			result, err := svc.Upload(context.Background(), asset, "999")

			require.NoError(t, err)
			assert.Equal(t, int64(42), result.HostProductID)
			assert.Equal(t, 0, external.restCount(http.MethodPost, "products.json"))
			assert.Equal(t, 0, main.restCount(http.MethodGet, "products/999.json"))
		})
	}
}

func TestMediaService_Upload_ValidationMakesNoRemoteCalls(t *testing.T) {
	tests := []struct {
		name      string
		asset     models.Asset
		productID string
	}{
		{
			name:      "image over 20 MiB",
			asset:     models.Asset{Reader: strings.NewReader(""), ContentType: "image/png", Filename: "a.png", Size: 20<<20 + 1, SKU: "S"},
			productID: "1",
		},
		{
			name:      "video over 1 GiB",
			asset:     models.Asset{Reader: strings.NewReader(""), ContentType: "video/mp4", Filename: "a.mp4", Size: 1<<30 + 1, SKU: "S"},
			productID: "1",
		},
		{
			name:      "unsupported type",
			asset:     models.Asset{Reader: strings.NewReader("x"), ContentType: "application/pdf", Filename: "a.pdf", Size: 1, SKU: "S"},
			productID: "1",
		},
		{
			name:      "missing sku",
			asset:     models.Asset{Reader: strings.NewReader("x"), ContentType: "image/png", Filename: "a.png", Size: 1},
			productID: "1",
		},
		{
			name:      "missing product id",
			asset:     models.Asset{Reader: strings.NewReader("x"), ContentType: "image/png", Filename: "a.png", Size: 1, SKU: "S"},
			productID: "",
		},
		{
			name:      "product id escaping the products path",
			asset:     models.Asset{Reader: strings.NewReader("x"), ContentType: "image/png", Filename: "a.png", Size: 1, SKU: "S"},
			productID: "1/../../orders/5",
		},
		{
			name:      "missing file",
			asset:     models.Asset{ContentType: "image/png", Size: 1, SKU: "S"},
			productID: "1",
		},
		{
			name:      "empty file",
			asset:     models.Asset{Reader: strings.NewReader(""), ContentType: "image/png", Filename: "a.png", SKU: "S"},
			productID: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := newFakeStore("main")
			external := newFakeStore("external")
			svc := newTestMediaService(main, external)

			result, err := svc.Upload(context.Background(), tt.asset, tt.productID)

			assert.Nil(t, result)
			var validation *apierr.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, 0, main.totalCalls())
			assert.Equal(t, 0, external.totalCalls())
		})
	}
}

func TestMediaService_DeleteRejectsNonNumericProductID(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	svc := newTestMediaService(main, external)

	_, err := svc.Delete(context.Background(), "1.json?fields=id", "https://a")
	var validation *apierr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "productId: must be a numeric id", validation.Error())

	_, err = svc.DeleteAll(context.Background(), "1/../../shop", []string{"https://a"})
	require.ErrorAs(t, err, &validation)

	assert.Equal(t, 0, main.totalCalls())
	assert.Equal(t, 0, external.totalCalls())
}

func TestMediaService_Upload_ImageWithoutURLLeavesReferencesUntouched(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	external.onREST(http.MethodGet, holdingScanPath, `{"products":[{"id":42,"title":"T-IMAGE_ABC123"}]}`)
	external.onREST(http.MethodPost, "products/42/images.json", `{"image":{"id":1,"src":""}}`)
	svc := newTestMediaService(main, external)

	asset := jpegAsset(10)
	asset.Title = "T"
	_, err := svc.Upload(context.Background(), asset, "999")

	var remote *apierr.RemoteAPIError
	require.ErrorAs(t, err, &remote)
	assert.Nil(t, main.metafield(OwnerProducts, "999", MediaURLKey))
	assert.Equal(t, 0, main.totalCalls())
}

const (
	stagedResponse = `{"stagedUploadsCreate":{"stagedTargets":[{"url":"https://upload.example/bucket","resourceUrl":"https://upload.example/bucket/tmp/v.mp4","parameters":[{"name":"key","value":"tmp/v.mp4"}]}],"userErrors":[]}}`
	createdVideo   = `{"fileCreate":{"files":[{"id":"gid://shopify/Video/9","alt":"Promo","fileStatus":"UPLOADED"}],"userErrors":[]}}`
)

func videoAsset() models.Asset {
	return models.Asset{
		Reader:      strings.NewReader("video-bytes"),
		ContentType: "video/mp4",
		Filename:    "clip.MP4",
		Size:        11,
		SKU:         "ABC123",
		Title:       "Promo",
	}
}

func TestMediaService_Upload_Video(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	external.onGraphQL("stagedUploadsCreate", stagedResponse)
	external.onGraphQL("fileCreate", createdVideo)
	external.onGraphQL("videoStatus",
		`{"node":{"id":"gid://shopify/Video/9","status":"PROCESSING"}}`,
		`{"node":{"id":"gid://shopify/Video/9","status":"READY","sources":[{"url":"https://cdn.example/v.mp4","format":"mp4"}]}}`,
	)
	svc := newTestMediaService(main, external)

	result, err := svc.Upload(context.Background(), videoAsset(), "999")

	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Video/9", result.ID)
	assert.Equal(t, "https://cdn.example/v.mp4", result.URL)
	assert.Equal(t, models.MediaKindVideo, result.Kind)
	assert.Equal(t, "ABC123_171234.mp4", result.Filename)
	assert.Equal(t, "Promo", result.Alt)
	assert.Equal(t, []string{"https://upload.example/bucket|ABC123_171234.mp4|11|11"}, external.uploads)
	assert.Equal(t, 2, external.graphqlCount("videoStatus"))

	staged := external.graphqlVars[0]["input"].([]map[string]any)[0]
	assert.Equal(t, "VIDEO", staged["resource"])
	assert.Equal(t, "11", staged["fileSize"])
	assert.Equal(t, "POST", staged["httpMethod"])
	created := external.graphqlVars[1]["files"].([]map[string]any)[0]
	assert.Equal(t, "https://upload.example/bucket/tmp/v.mp4", created["originalSource"])

	assert.JSONEq(t, `["https://cdn.example/v.mp4"]`, main.metafield(OwnerProducts, "999", MediaURLKey).Value)
}

func TestMediaService_Upload_VideoFailuresAbortWithoutReferences(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(s *fakeStore)
		errorCheck func(t *testing.T, err error)
	}{
		{
			name: "staged upload user errors",
			setup: func(s *fakeStore) {
				s.onGraphQL("stagedUploadsCreate", `{"stagedUploadsCreate":{"stagedTargets":[],"userErrors":[{"field":["input"],"message":"File size is too large"}]}}`)
			},
			errorCheck: func(t *testing.T, err error) {
				assert.Equal(t, "Staged upload error: File size is too large", apierr.Message(err))
			},
		},
		{
			name: "staged transfer rejected",
			setup: func(s *fakeStore) {
				s.onGraphQL("stagedUploadsCreate", stagedResponse)
				s.uploadErr = &apierr.RemoteAPIError{StatusCode: 403, Message: "AccessDenied"}
			},
			errorCheck: func(t *testing.T, err error) {
				assert.Equal(t, "AccessDenied", apierr.Message(err))
			},
		},
		{
			name: "file create user errors",
			setup: func(s *fakeStore) {
				s.onGraphQL("stagedUploadsCreate", stagedResponse)
				s.onGraphQL("fileCreate", `{"fileCreate":{"files":[],"userErrors":[{"message":"bad source"},{"message":"bad alt"}]}}`)
			},
			errorCheck: func(t *testing.T, err error) {
				assert.Equal(t, "File creation error: bad source, bad alt", apierr.Message(err))
			},
		},
		{
			name: "processing failed",
			setup: func(s *fakeStore) {
				s.onGraphQL("stagedUploadsCreate", stagedResponse)
				s.onGraphQL("fileCreate", createdVideo)
				s.onGraphQL("videoStatus", `{"node":{"id":"gid://shopify/Video/9","status":"FAILED"}}`)
			},
			errorCheck: func(t *testing.T, err error) {
				var failed *apierr.ProcessingFailedError
				require.ErrorAs(t, err, &failed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := newFakeStore("main")
			external := newFakeStore("external")
			tt.setup(external)
			svc := newTestMediaService(main, external)

			result, err := svc.Upload(context.Background(), videoAsset(), "999")

			require.Error(t, err)
			assert.Nil(t, result)
			tt.errorCheck(t, err)
			assert.Equal(t, 0, main.totalCalls())
		})
	}
}

func TestMediaService_Upload_ReferenceFailure(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	main.onREST(http.MethodGet, "products/999/metafields.json", "!503 Service Unavailable")
	external.onREST(http.MethodGet, holdingScanPath, `{"products":[{"id":42,"title":"T-IMAGE_ABC123"}]}`)
	external.onREST(http.MethodPost, "products/42/images.json", `{"image":{"id":1,"src":"`+cdnURL+`"}}`)
	svc := newTestMediaService(main, external)

	asset := jpegAsset(10)
	asset.Title = "T"
	_, err := svc.Upload(context.Background(), asset, "999")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update media references of product 999")
}

func TestMediaService_UploadThenDeleteScenario(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	main.onREST(http.MethodGet, "products/999.json", `{"product":{"id":999,"title":"Blue Mug"}}`)
	external.onREST(http.MethodGet, holdingScanPath,
		`{"products":[]}`,
		`{"products":[{"id":555,"title":"Blue Mug-IMAGE_ABC123"}]}`,
	)
	external.onREST(http.MethodPost, "products.json", `{"product":{"id":555,"title":"Blue Mug-IMAGE_ABC123"}}`)
	external.onREST(http.MethodPost, "products/555/images.json", `{"image":{"id":777,"src":"`+cdnURL+`"}}`)
	external.onGraphQL("files", emptyFiles)
	external.onREST(http.MethodGet, "products/555/images.json", `{"images":[{"id":777,"src":"`+cdnURL+`"}]}`)
	external.onREST(http.MethodDelete, "products/555/images/777.json", "")
	svc := newTestMediaService(main, external)

	_, err := svc.Upload(context.Background(), jpegAsset(2*1024*1024), "999")
	require.NoError(t, err)
	assert.JSONEq(t, `["`+cdnURL+`"]`, main.metafield(OwnerProducts, "999", MediaURLKey).Value)

	result, err := svc.Delete(context.Background(), "999", cdnURL)

	require.NoError(t, err)
	assert.True(t, result.RemoteDeleted)
	assert.Equal(t, models.LocationKindImage, result.Kind)
	assert.Equal(t, "777", result.RemoteID)
	assert.Equal(t, 1, external.restCount(http.MethodDelete, "products/555/images/777.json"))
	assert.Equal(t, `[]`, main.metafield(OwnerProducts, "999", MediaURLKey).Value)
}

func TestMediaService_Delete(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(external *fakeStore)
		expectDeleted   bool
		expectNotFound  bool
		expectRemoteErr string
	}{
		{
			name: "file registry deletion",
			setup: func(s *fakeStore) {
				s.onGraphQL("files", `{"files":{"edges":[{"node":{"id":"gid://shopify/Video/9","originalSource":{"url":"https://cdn.example/v.mp4"}}}],"pageInfo":{"hasNextPage":false}}}`)
				s.onGraphQL("fileDelete", `{"fileDelete":{"deletedFileIds":["gid://shopify/Video/9"],"userErrors":[]}}`)
			},
			expectDeleted: true,
		},
		{
			name: "remote delete failure still cleans references",
			setup: func(s *fakeStore) {
				s.onGraphQL("files", `{"files":{"edges":[{"node":{"id":"gid://shopify/Video/9","originalSource":{"url":"https://cdn.example/v.mp4"}}}],"pageInfo":{"hasNextPage":false}}}`)
				s.onGraphQL("fileDelete", `{"fileDelete":{"deletedFileIds":[],"userErrors":[{"message":"File does not exist"}]}}`)
			},
			expectRemoteErr: "Delete error: File does not exist",
		},
		{
			name: "not found still cleans references",
			setup: func(s *fakeStore) {
				s.onGraphQL("files", emptyFiles)
				s.onPage(holdingScanPath, `{"products":[]}`, "")
			},
			expectNotFound:  true,
			expectRemoteErr: "media not found: https://cdn.example/v.mp4",
		},
		{
			name: "locator failure still cleans references",
			setup: func(s *fakeStore) {
				s.onGraphQL("files", "!502 Bad Gateway")
			},
			expectRemoteErr: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := newFakeStore("main")
			external := newFakeStore("external")
			main.setMetafield(OwnerProducts, "999", MediaURLKey, `["https://cdn.example/v.mp4","https://cdn.example/keep.jpg"]`, models.MetafieldTypeMultiLineText)
			tt.setup(external)
			svc := newTestMediaService(main, external)

			result, err := svc.Delete(context.Background(), "999", "https://cdn.example/v.mp4")

			require.NoError(t, err)
			assert.Equal(t, tt.expectDeleted, result.RemoteDeleted)
			assert.Equal(t, tt.expectNotFound, result.RemoteNotFound)
			assert.Equal(t, tt.expectRemoteErr, result.RemoteError)
			assert.JSONEq(t, `["https://cdn.example/keep.jpg"]`, main.metafield(OwnerProducts, "999", MediaURLKey).Value)
		})
	}
}

func TestMediaService_Delete_Errors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := newTestMediaService(newFakeStore("main"), newFakeStore("external"))

		_, err := svc.Delete(context.Background(), "", "https://a")

		var validation *apierr.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "mediaUrl and productId are required", validation.Error())
	})

	t.Run("reference failure fails the call", func(t *testing.T) {
		main := newFakeStore("main")
		external := newFakeStore("external")
		main.onREST(http.MethodGet, "products/999/metafields.json", "!500 boom")
		external.onGraphQL("files", emptyFiles)
		external.onPage(holdingScanPath, `{"products":[]}`, "")
		svc := newTestMediaService(main, external)

		result, err := svc.Delete(context.Background(), "999", "https://a")

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, "boom", apierr.Message(err))
	})
}

func TestMediaService_DeleteAll(t *testing.T) {
	const (
		fileURL    = "https://cdn.example/files/video-1.mp4"
		imageURL   = "https://cdn.example/products/image-2.jpg"
		missingURL = "https://cdn.example/gone.jpg"
	)

	main := newFakeStore("main")
	external := newFakeStore("external")
	main.setMetafield(OwnerProducts, "999", MediaURLKey, `["`+fileURL+`","`+imageURL+`","`+missingURL+`"]`, models.MetafieldTypeMultiLineText)
	external.onGraphQL("files", `{"files":{"edges":[{"node":{"id":"gid://shopify/Video/1","originalSource":{"url":"`+fileURL+`"}}}],"pageInfo":{"hasNextPage":false}}}`)
	external.onGraphQL("fileDelete", `{"fileDelete":{"deletedFileIds":["gid://shopify/Video/1"],"userErrors":[]}}`)
	external.onPage(holdingScanPath, `{"products":[{"id":555}]}`, "")
	external.onREST(http.MethodGet, "products/555/images.json", `{"images":[{"id":2,"src":"`+imageURL+`"}]}`)
	external.onREST(http.MethodDelete, "products/555/images/2.json", "")
	svc := newTestMediaService(main, external)

	result, err := svc.DeleteAll(context.Background(), "999", []string{fileURL, imageURL, missingURL})

	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.True(t, result.MetadataCleared)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Success)
	assert.True(t, result.Results[1].Success)
	assert.False(t, result.Results[2].Success)
	assert.Equal(t, "Not found in external store", result.Results[2].Message)
	assert.Equal(t, `[]`, main.metafield(OwnerProducts, "999", MediaURLKey).Value)

	var partial *apierr.PartialFailure
	require.ErrorAs(t, result.PartialFailure(), &partial)
	assert.Equal(t, 2, partial.Succeeded)
	assert.Equal(t, 1, partial.Failed)
}

func TestMediaService_DeleteAll_ClearFailureIsNotFatal(t *testing.T) {
	main := newFakeStore("main")
	external := newFakeStore("external")
	main.onREST(http.MethodGet, "products/999/metafields.json", "!500 boom")
	external.onGraphQL("files", "!500 down")
	svc := newTestMediaService(main, external)

	result, err := svc.DeleteAll(context.Background(), "999", []string{"https://a", "https://b"})

	require.NoError(t, err)
	assert.False(t, result.MetadataCleared)
	assert.Equal(t, 0, result.DeletedCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, "down", result.Results[0].Error)
}

func TestMediaService_DeleteAll_Validation(t *testing.T) {
	svc := newTestMediaService(newFakeStore("main"), newFakeStore("external"))

	_, err := svc.DeleteAll(context.Background(), "999", nil)
	var validation *apierr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "mediaUrls: no media URLs provided", validation.Error())

	_, err = svc.DeleteAll(context.Background(), " ", []string{"https://a"})
	require.ErrorAs(t, err, &validation)
}

func TestIsHoldingProduct(t *testing.T) {
	assert.True(t, isHoldingProduct("Mug-IMAGE_S1", "S1", "Mug"))
	assert.True(t, isHoldingProduct("x Media Host IMAGE_S1 y", "S1", "Mug"))
	assert.False(t, isHoldingProduct("Mug-IMAGE_S2", "S1", "Mug"))
	assert.False(t, isHoldingProduct("Mug", "S1", "Mug"))
}

func TestGenerateFileName(t *testing.T) {
	now := time.UnixMilli(171234)
	assert.Equal(t, "ABC123_171234.jpg", GenerateFileName("ABC123", "jpg", now))
	assert.Equal(t, "A-B-C_171234.mp4", GenerateFileName(" A/B C ", ".mp4", now))
	assert.Equal(t, "media_171234", GenerateFileName("", "", now))
	assert.Equal(t, "jpg", extensionFor("", "image/jpeg"))
	assert.Equal(t, "png", extensionFor("png", "image/jpeg"))
}
