package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/metrics"
	"github.com/storemedia/backend/internal/models"
	"github.com/storemedia/backend/internal/shopify"
	"go.uber.org/zap"
)

// DefaultPollInterval is the wait between two status queries
const DefaultPollInterval = 10 * time.Second

var (
	errNotReady     = errors.New("video is still processing")
	errReadyNoURL   = errors.New("video is ready but has no playable source yet")
	errNodeNotFound = errors.New("video node not visible yet")
)

// Poller waits for the platform to finish transcoding a video
type Poller struct {
	store    StoreClient
	interval time.Duration
	// timer drives the waits between attempts, nil uses a real timer
	timer  backoff.Timer
	logger *zap.Logger
}

// NewPoller creates a new poller
func NewPoller(store StoreClient, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// PollUntilReady queries the status of mediaID up to maxAttempts times and
// returns the playable URL once the video is ready.
//
// A failed status aborts immediately with *apierr.ProcessingFailedError.
// Query errors, a missing node and a ready status without a URL count as
// "not ready yet" and consume an attempt. Running out of attempts returns
// *apierr.ProcessingTimeoutError.
func (p *Poller) PollUntilReady(ctx context.Context, mediaID string, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	var url string
	operation := func() error {
		attempts++
		var data shopify.VideoStatusData
		if err := p.store.Query(ctx, shopify.VideoStatusQuery, map[string]any{"id": mediaID}, &data); err != nil {
			metrics.PollAttempts.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to query video status: %w", err)
		}
		if data.Node == nil {
			metrics.PollAttempts.WithLabelValues("missing").Inc()
			return errNodeNotFound
		}

		status := VideoStatus(data.Node.Status)
		metrics.PollAttempts.WithLabelValues(string(status)).Inc()
		switch status {
		case models.MediaStatusFailed:
			return backoff.Permanent(&apierr.ProcessingFailedError{MediaID: mediaID})
		case models.MediaStatusReady:
			if url = PlayableURL(data.Node); url != "" {
				return nil
			}
			return errReadyNoURL
		default:
			return errNotReady
		}
	}

	notify := func(err error, wait time.Duration) {
		p.logger.Debug("video not ready",
			zap.String("media_id", mediaID),
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("next_poll_in", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.interval), uint64(maxAttempts-1)),
		ctx,
	)
	err := backoff.RetryNotifyWithTimer(operation, policy, notify, p.timer)
	if err == nil {
		p.logger.Info("video ready", zap.String("media_id", mediaID), zap.Int("attempts", attempts))
		return url, nil
	}

	var failed *apierr.ProcessingFailedError
	if errors.As(err, &failed) {
		return "", failed
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("stopped polling video %s after %d attempts: %w", mediaID, attempts, ctxErr)
	}
	p.logger.Warn("video processing timed out",
		zap.String("media_id", mediaID),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	return "", &apierr.ProcessingTimeoutError{MediaID: mediaID, Attempts: attempts}
}

// VideoStatus maps a platform media status onto MediaStatus
func VideoStatus(status string) models.MediaStatus {
	switch strings.ToUpper(status) {
	case "READY":
		return models.MediaStatusReady
	case "FAILED":
		return models.MediaStatusFailed
	case "PROCESSING":
		return models.MediaStatusProcessing
	default:
		return models.MediaStatusPending
	}
}

// PlayableURL prefers the original source, then an mp4 rendition, then any rendition
func PlayableURL(node *shopify.VideoNode) string {
	if node == nil {
		return ""
	}
	if node.OriginalSource != nil && node.OriginalSource.URL != "" {
		return node.OriginalSource.URL
	}
	for _, source := range node.Sources {
		if source.URL != "" && (strings.EqualFold(source.Format, "mp4") || strings.EqualFold(source.MimeType, "video/mp4")) {
			return source.URL
		}
	}
	for _, source := range node.Sources {
		if source.URL != "" {
			return source.URL
		}
	}
	return ""
}
