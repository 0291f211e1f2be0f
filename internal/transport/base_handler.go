package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a raw JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in the success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// WriteMessage writes a success envelope carrying only a message.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
	})
}

// WriteError maps any error to the taxonomy and writes the error envelope.
// Raw storage or signing errors never reach the client.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", appErr.StatusCode, "message", appErr.Error())
	} else {
		h.Logger.Warn("http error", "status", appErr.StatusCode, "message", appErr.GetDetailedMessage())
	}

	h.WriteJSON(w, appErr.StatusCode, internal.Response{Error: appErr})
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
