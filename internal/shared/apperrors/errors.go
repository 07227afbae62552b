package apperrors

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// statuses; services wrap them with context via fmt.Errorf and %w.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrMalformedEvent        = errors.New("malformed event payload")
	ErrValidation            = errors.New("validation failed")
	ErrUpstream              = errors.New("upstream provider error")
	ErrTimeout               = errors.New("upstream call timed out")
)
