package models

import "errors"

// Error taxonomy shared by repositories, services and the HTTP layer. Callers
// wrap these with fmt.Errorf("...: %w", err) and branch with errors.Is.
var (
	// ErrNotFound indicates an unknown barcode, item id or child id.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an item with the same barcode already exists.
	ErrConflict = errors.New("barcode already exists")

	// ErrInvalidQuantity indicates a non-positive or non-integer quantity argument.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock indicates a consumption that would drive stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrUpstreamLookup indicates the product lookup service failed or timed out.
	ErrUpstreamLookup = errors.New("product lookup failed")
)
