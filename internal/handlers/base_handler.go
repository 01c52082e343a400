package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/models"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}

// RespondServiceError maps err to its status and most specific message
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	status := apierr.HTTPStatus(err)
	fields = append(fields, zap.Error(err), zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		h.Logger.Error(msg, fields...)
	} else {
		h.Logger.Info(msg, fields...)
	}
	h.RespondError(w, status, apierr.Message(err))
}

// decodeJSON reads a JSON body into dst and validates it
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return validate.Struct(dst)
}
