package billing

import "errors"

var (
	ErrNotFound          = errors.New("invoice not found")
	ErrDuplicate         = errors.New("invoice already exists")
	ErrInvalidStatus     = errors.New("invalid invoice status")
	ErrInvalidTransition = errors.New("invalid invoice status transition")
	ErrInvalidAmount     = errors.New("invoice amount must be non-negative")
	ErrInvalidInvoice    = errors.New("invalid invoice")
)
