package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"giftregistry/internal/domain"
)

// ErrorStatus maps a service error onto an HTTP status and API error code.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrOverfund):
		return http.StatusConflict, ErrCodeOverfunded
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrLocked):
		return http.StatusConflict, ErrCodeLocked
	case errors.Is(err, domain.ErrExternalService):
		return http.StatusBadGateway, ErrCodeExternalService
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// WriteServiceError writes err in the API envelope. Server-side failures are
// logged and their message is not exposed to the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := ErrorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	WriteJSONError(w, status, code, msg)
}
