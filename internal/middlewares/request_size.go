package middlewares

import (
	"fmt"
	"net/http"

	"github.com/storemedia/backend/internal/models"
)

// RequestSizeLimitMiddleware rejects bodies larger than limit bytes.
// A declared Content-Length over the limit is refused before the body is read;
// bodies of unknown length are cut off by http.MaxBytesReader, which handlers
// see as *http.MaxBytesError.
func RequestSizeLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	message := fmt.Sprintf("request body too large, maximum size is %s", models.HumanSize(limit))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, message)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
