package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"order-desk/internal/middleware"
	"order-desk/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent
		return
	}
}

// writeError writes an error body with the given status, code and detail.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, detail string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("detail", detail).
		Int("status", status).
		Str("request_id", requestID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:     code,
		Detail:    detail,
		RequestID: requestID,
	})
}

// writeDomainError maps err to a status and writes it. Causes wrapped inside a
// domain error stay in the log and never reach the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	if domainErr.Err != nil {
		logger.Error().Err(domainErr.Err).Str("code", domainErr.Code).Msg("request failed")
	}

	writeError(w, r, statusFor(domainErr.Code), domainErr.Code, domainErr.Message, logger)
}

// writeMethodNotAllowed rejects a request whose method the route does not serve.
func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request, allow string, logger zerolog.Logger) {
	w.Header().Set("Allow", allow)
	writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", logger)
}

// statusFor returns the HTTP status for a domain error code.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeInvalidOrder, model.ErrCodeInvalidProducts:
		return http.StatusBadRequest
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case model.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
