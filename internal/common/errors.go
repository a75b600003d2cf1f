// Package common defines sentinel errors and small helpers shared by the
// imgbox server and CLI. Callers should use errors.Is to match the sentinels.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorConflict         = errors.New("already exists")
	ErrorStoreUnavailable = errors.New("store unavailable")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Upload-specific errors.
	ErrorFileTooLarge       = errors.New("file too large")
	ErrorUnsupportedContent = errors.New("unsupported content type")
)
