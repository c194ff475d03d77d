package service

import "errors"

// Sentinel errors the HTTP layer maps to status codes. None of these are
// retried server-side; confirmation is idempotent, so a caller that sees
// ErrProviderUnavailable may safely retry the whole call.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrSignatureInvalid     = errors.New("invalid payment signature")
	ErrOrderMetadataMissing = errors.New("order not found or missing metadata")
	ErrInvalidMetadata      = errors.New("invalid order metadata")
	ErrDuplicateOrder       = errors.New("duplicate order")
	ErrProviderUnavailable  = errors.New("payment provider unavailable")
	ErrNotFound             = errors.New("not found")
	ErrEmailTaken           = errors.New("email already exists")
)
