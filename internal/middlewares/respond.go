package middlewares

import (
	"encoding/json"
	"net/http"

	"github.com/storemedia/backend/internal/models"
)

// writeError sends the same error envelope the handlers use
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Success: false, Error: message})
}
