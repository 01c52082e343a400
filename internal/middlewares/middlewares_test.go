package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetAllowedOrigin(t *testing.T) {
	allowed := []string{"http://localhost:3000", "https://trufairs.com", "*.myshopify.com"}

	tests := []struct {
		name     string
		origin   string
		allowed  []string
		expected string
	}{
		{"empty origin", "", allowed, ""},
		{"exact match", "http://localhost:3000", allowed, "http://localhost:3000"},
		{"case insensitive", "HTTPS://TRUFAIRS.COM", allowed, "HTTPS://TRUFAIRS.COM"},
		{"subdomain wildcard", "https://shop-1.myshopify.com", allowed, "https://shop-1.myshopify.com"},
		{"bare wildcard domain rejected", "https://myshopify.com", allowed, ""},
		{"lookalike rejected", "https://evilmyshopify.com", allowed, ""},
		{"unknown origin", "https://example.org", allowed, ""},
		{"allow all", "https://example.org", []string{"*"}, "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getAllowedOrigin(tt.origin, tt.allowed))
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := CORSMiddleware([]string{"*.myshopify.com"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/media/upload-to-shopify", nil)
	req.Header.Set("Origin", "https://store.myshopify.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://store.myshopify.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSMiddleware_Credentials(t *testing.T) {
	tests := []struct {
		name                string
		allowed             []string
		origin              string
		expectedOrigin      string
		expectedCredentials string
	}{
		{"wildcard without credentials", []string{"*"}, "https://admin.example.com", "*", ""},
		{"explicit origin with credentials", []string{"https://admin.example.com"}, "https://admin.example.com", "https://admin.example.com", "true"},
		{"rejected origin", []string{"https://admin.example.com"}, "https://evil.example.com", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			CORSMiddleware(tt.allowed)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.expectedCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	})

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces unsafe id", func(t *testing.T) {
		for _, incoming := range []string{"abc def", "id\x1b[31m", strings.Repeat("a", 129)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.NotEqual(t, incoming, seen)
			assert.Len(t, seen, 36)
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, w.Body.String())
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(4)(okHandler())

	t.Run("too large", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("12345")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("message names the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		limited := RequestSizeLimitMiddleware(50 << 20)(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
		req.ContentLength = 51 << 20
		limited.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"request body too large, maximum size is 50MB"}`, w.Body.String())
	})

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("1234")))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
