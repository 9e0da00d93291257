package quote

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("quote not found")
	ErrForbidden     = errors.New("forbidden")
	ErrItemNotFound  = errors.New("catalog item not found")
	ErrLineNotFound  = errors.New("line item not found")
	ErrDuplicateLine = errors.New("item already selected on this quote")
	ErrInvalidStatus = errors.New("unknown lead status")
)
