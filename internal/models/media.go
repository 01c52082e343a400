package models

import (
	"fmt"
	"io"
	"strings"

	"github.com/storemedia/backend/internal/apierr"
)

// MediaKind represents the kind of an uploaded asset
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaStatus represents the processing status of a remote media record
type MediaStatus string

const (
	MediaStatusPending    MediaStatus = "pending"
	MediaStatusProcessing MediaStatus = "processing"
	MediaStatusReady      MediaStatus = "ready"
	MediaStatusFailed     MediaStatus = "failed"
)

// Size ceilings per media kind
const (
	MaxImageSize int64 = 20 << 20
	MaxVideoSize int64 = 1 << 30
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var videoTypes = map[string]bool{
	"video/mp4":        true,
	"video/mov":        true,
	"video/avi":        true,
	"video/webm":       true,
	"video/quicktime":  true,
	"video/mkv":        true,
	"video/x-matroska": true,
	"video/wmv":        true,
	"video/x-ms-wmv":   true,
	"video/flv":        true,
	"video/x-flv":      true,
	"video/m4v":        true,
	"video/x-m4v":      true,
	"video/x-msvideo":  true,
}

// KindFromContentType returns the media kind for an allowed content type.
// The second value is false for anything outside the allow-list.
func KindFromContentType(contentType string) (MediaKind, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	switch {
	case imageTypes[ct]:
		return MediaKindImage, true
	case videoTypes[ct]:
		return MediaKindVideo, true
	default:
		return "", false
	}
}

// MaxSize returns the size ceiling for the kind
func (k MediaKind) MaxSize() int64 {
	if k == MediaKindVideo {
		return MaxVideoSize
	}
	return MaxImageSize
}

// Asset is a binary payload supplied by the caller for one upload
type Asset struct {
	Reader      io.Reader
	ContentType string
	Filename    string
	Size        int64
	SKU         string
	Title       string
}

// Extension returns the lower-cased extension of the original filename, without the dot
func (a Asset) Extension() string {
	idx := strings.LastIndex(a.Filename, ".")
	if idx < 0 || idx == len(a.Filename)-1 {
		return ""
	}
	return strings.ToLower(a.Filename[idx+1:])
}

// HumanSize formats a byte limit as whole gigabytes or megabytes
func HumanSize(n int64) string {
	if n >= 1<<30 && n%(1<<30) == 0 {
		return fmt.Sprintf("%dGB", n>>30)
	}
	return fmt.Sprintf("%dMB", n>>20)
}

// MediaResult is the normalized outcome of an upload
type MediaResult struct {
	ID            string      `json:"id"`
	URL           string      `json:"url"`
	Kind          MediaKind   `json:"kind"`
	Status        MediaStatus `json:"status"`
	Filename      string      `json:"filename"`
	Alt           string      `json:"alt"`
	HostProductID int64       `json:"hostProductId,omitempty"`
}

// LocationKind tells which storage shape holds a located media record
type LocationKind string

const (
	LocationKindFile  LocationKind = "file"
	LocationKindImage LocationKind = "image"
)

// MediaLocation identifies a remote media record found by URL
type MediaLocation struct {
	Kind     LocationKind `json:"kind"`
	RemoteID string       `json:"remoteId"`
	// ParentID is the holding product for legacy images, empty for files
	ParentID string `json:"parentId,omitempty"`
}

// DeleteResult reports the two independent steps of a single deletion
type DeleteResult struct {
	MediaURL      string `json:"mediaUrl"`
	RemoteDeleted bool   `json:"externalStoreDeletion"`
	// RemoteNotFound is set when no remote record serves the URL
	RemoteNotFound bool         `json:"notFoundInExternalStore,omitempty"`
	Kind           LocationKind `json:"kind,omitempty"`
	RemoteID       string       `json:"remoteId,omitempty"`
	RemoteError    string       `json:"remoteError,omitempty"`
}

// DeleteOutcome is one item of a bulk deletion
type DeleteOutcome struct {
	URL     string `json:"url"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkDeleteResult summarizes a bulk deletion
type BulkDeleteResult struct {
	DeletedCount    int             `json:"deletedCount"`
	FailedCount     int             `json:"failedCount"`
	TotalProcessed  int             `json:"totalProcessed"`
	Results         []DeleteOutcome `json:"results"`
	MetadataCleared bool            `json:"metadataCleared"`
}

// PartialFailure returns *apierr.PartialFailure when any item failed, nil otherwise
func (r *BulkDeleteResult) PartialFailure() error {
	if r == nil || r.FailedCount == 0 {
		return nil
	}
	return &apierr.PartialFailure{Succeeded: r.DeletedCount, Failed: r.FailedCount}
}
