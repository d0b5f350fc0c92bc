package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with the technical error; the full detail is
// logged server-side with the request id, and the client receives a
// user-friendly message with a stable machine-readable code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"contactcleaner/internal/clean"
	"contactcleaner/internal/logging"
	"contactcleaner/internal/session"
)

// Sentinel errors for upload validation.
var (
	// ErrNoFile means the request carried no usable file part.
	ErrNoFile = errors.New("no file selected")

	// ErrWrongType means the uploaded file is not a CSV.
	ErrWrongType = errors.New("file is not a CSV")

	// ErrInvalidInput means the file could not be decoded into a non-empty
	// table: unknown encoding, undetectable delimiter, or no data.
	ErrInvalidInput = errors.New("file could not be read as a contact table")

	// ErrNoOptions means the clean request selected no cleaning options.
	ErrNoOptions = errors.New("no cleaning options selected")

	errRateLimited = errors.New("rate limit exceeded")
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// userMessage maps an internal error to a client-safe message and code.
// Unknown errors collapse to a generic message so internals never leak.
func userMessage(err error) (string, string) {
	switch {
	case errors.Is(err, ErrNoFile):
		return "No file selected. Choose a CSV file to upload.", "no_file"
	case errors.Is(err, ErrWrongType):
		return "Please upload a CSV file.", "wrong_type"
	case errors.Is(err, ErrInvalidInput):
		return "The uploaded file could not be read as a contact table. Check that it is a valid CSV export.", "invalid_input"
	case errors.Is(err, clean.ErrEmptyInput):
		return "The uploaded CSV file is empty.", "empty_input"
	case errors.Is(err, ErrNoOptions):
		return "Please select at least one cleaning option.", "no_options"
	case errors.Is(err, session.ErrNotFound):
		return "No uploaded file found for this session. Upload a file first.", "not_found"
	case errors.Is(err, errRateLimited):
		return "Too many requests. Try again shortly.", "rate_limited"
	default:
		return "Something went wrong processing the request.", "internal"
	}
}

// respondError logs the technical error and writes the sanitized JSON
// response.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg, code := userMessage(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Code: code})
}

// respondJSON encodes v as JSON and writes it to w.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing to do but note it.
		slog.Error("json encode error", "error", err)
	}
}
