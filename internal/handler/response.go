package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON and writeError, so success bodies
// and error bodies have one shape across the API:
//
//	{"error": "habit not found with id 7", "code": "not_found"}
//
// The frontend reads "error" for display and "code" to branch.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/vitaltrack/internal/apperror"
)

// maxBodyBytes caps request bodies; the largest legitimate one is a journal entry.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"` // human-readable message
	Code  string `json:"code"`  // machine-readable kind, e.g. "not_found"
}

// SuccessResponse is the body of write endpoints that return nothing else.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must go out before the body, hence the order.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// errors.Is walks the wrap chain, so a service error such as
// fmt.Errorf("updating profile: %w", apperror.NotFound(...)) still maps to 404.
// Errors that are not apperror values become a 500 carrying the error text.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	}

	msg := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// decodeJSON reads a single JSON object from the body into dst.
// Malformed or oversized bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperror.ValidationFailed("body", "request body too large")
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("body", "request body is required")
		default:
			return apperror.ValidationFailed("body", "invalid JSON body")
		}
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "id must be a positive integer")
	}
	return id, nil
}
