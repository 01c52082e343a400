package shopify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/metrics"
	"go.uber.org/zap"
)

// StagedFile is the binary submitted to a staged upload target
type StagedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadStaged posts file to a staged upload target as multipart/form-data.
// The target parameters are written first, in the order given, followed by
// the "file" part. The body is streamed with an exact Content-Length since
// staging back-ends reject chunked transfer encoding.
func (c *Client) UploadStaged(ctx context.Context, target StagedTarget, file StagedFile) error {
	started := time.Now()
	err := c.uploadStaged(ctx, target, file)

	metrics.ObserveRemote(c.store.Name, "staged_upload", started, err)
	c.logger.Debug("staged upload",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
		zap.Duration("duration", time.Since(started)),
		zap.Error(err),
	)
	return err
}

func (c *Client) uploadStaged(ctx context.Context, target StagedTarget, file StagedFile) error {
	if target.URL == "" {
		return &apierr.RemoteAPIError{Message: "staged upload target has no url"}
	}
	if file.Reader == nil {
		return fmt.Errorf("staged upload: file reader is nil")
	}

	var head bytes.Buffer
	mw := multipart.NewWriter(&head)
	for _, param := range target.Parameters {
		if err := mw.WriteField(param.Name, param.Value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", param.Name, err)
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Filename)))
	partHeader.Set("Content-Type", contentType)
	if _, err := mw.CreatePart(partHeader); err != nil {
		return fmt.Errorf("failed to write file part header: %w", err)
	}
	prefixLen := head.Len()

	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}
	prefix := head.Bytes()[:prefixLen]
	suffix := head.Bytes()[prefixLen:]

	body := io.MultiReader(bytes.NewReader(prefix), io.LimitReader(file.Reader, file.Size), bytes.NewReader(suffix))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.ContentLength = int64(len(prefix)) + file.Size + int64(len(suffix))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, _, err = c.send(c.uploadClient, req)
	return err
}
