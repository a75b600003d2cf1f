package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/common"
	"github.com/dmitrijs2005/imgbox/internal/server/validation"
	"github.com/sethvargo/go-retry"
)

// Reads that hit an unavailable store are retried this many extra times.
var (
	readRetries uint64 = 2
	readBackoff        = 50 * time.Millisecond
)

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

// writeError maps err to a status and a client-safe detail message.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if errors.Is(err, context.Canceled) {
		s.logger.Debug(r.Context(), "request cancelled", "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
	} else if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"path", r.URL.Path,
			"status", status,
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
	}
	writeDetail(w, status, detailFromError(err, status))
}

func statusFromError(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, common.ErrorFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorUnsupportedContent):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorStoreUnavailable), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func detailFromError(err error, status int) string {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case status == http.StatusConflict:
		return "email already registered"
	case errors.Is(err, common.ErrorFileTooLarge):
		return "file too large"
	case status == http.StatusRequestEntityTooLarge:
		return "request body too large"
	case errors.Is(err, common.ErrorUnsupportedContent):
		return "unsupported file type, only jpeg and png are accepted"
	case status == http.StatusServiceUnavailable:
		return "store unavailable"
	case status == http.StatusBadRequest:
		return err.Error()
	default:
		return "internal error"
	}
}

// withReadRetry runs fn again when it reports common.ErrorStoreUnavailable.
// Only idempotent reads go through here.
func withReadRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(readRetries, retry.NewExponential(readBackoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if errors.Is(err, common.ErrorStoreUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

// badRequest builds a validation failure for malformed request input.
func badRequest(field, reason string) error {
	return &validation.ValidationError{Field: field, Reason: reason}
}
