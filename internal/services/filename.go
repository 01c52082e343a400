package services

import (
	"strconv"
	"strings"
	"time"
)

var contentTypeExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
	"video/webm":      "webm",
}

// GenerateFileName builds "{sku}_{unix millis}.{extension}" with the sku
// reduced to characters that are safe in a CDN path
func GenerateFileName(sku, extension string, now time.Time) string {
	name := sanitizeSKU(sku) + "_" + strconv.FormatInt(now.UnixMilli(), 10)
	extension = strings.TrimPrefix(extension, ".")
	if extension == "" {
		return name
	}
	return name + "." + extension
}

// extensionFor returns the filename extension, inferring it from the content type when missing
func extensionFor(filenameExt, contentType string) string {
	if filenameExt != "" {
		return filenameExt
	}
	return contentTypeExtensions[strings.ToLower(contentType)]
}

func sanitizeSKU(sku string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(sku) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "media"
	}
	return b.String()
}
