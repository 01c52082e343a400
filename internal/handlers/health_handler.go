package handlers

import (
	"net/http"
	"time"

	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

// ServiceName is reported by the health endpoint
const ServiceName = "Shopify Media Manager Backend"

// HealthHandler reports liveness
type HealthHandler struct {
	BaseHandler
	now func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{BaseHandler: BaseHandler{Logger: logger}, now: time.Now}
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
		Service:   ServiceName,
	})
}
