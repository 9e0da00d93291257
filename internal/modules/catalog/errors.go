package catalog

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("catalog item not found")
	ErrInvalidPricingType = errors.New("invalid pricing type")
)
