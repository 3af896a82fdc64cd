package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"status": "failure", "message": "Invalid Register Number"}
//
// "failure" means the request was understood and the answer is no.
// "error" means the server could not answer at all. The form shows the
// message of a failure verbatim; an error message is always generic.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/course-eligibility/internal/apperror"
	"github.com/sakif/course-eligibility/internal/model"
)

const internalErrorMessage = "An internal error occurred"

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE the body is written.
// Once Encode writes, any header change is silently ignored.
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

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation  → 400 failure
//	apperror.ErrNotFound    → 404 failure
//	apperror.ErrUnavailable → 503 error
//	anything else           → 500 error, generic message
//
// errors.Is walks the whole chain, so a service may wrap an AppError with
// fmt.Errorf("...: %w", err) and the mapping still holds.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, model.StatusResponse{Status: model.StatusFailure, Message: appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, model.StatusResponse{Status: model.StatusFailure, Message: appErr.Message})
			return
		case errors.Is(err, apperror.ErrUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, model.StatusResponse{Status: model.StatusError, Message: appErr.Message})
			return
		}
	}

	// NEVER expose internal error details to the client: the raw message
	// might contain SQL or file paths.
	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, model.StatusResponse{
		Status:  model.StatusError,
		Message: internalErrorMessage,
	})
}
