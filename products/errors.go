package products

import "github.com/goliatone/go-errors"

const (
	TextCodeProductNotFound = "product_not_found"
	TextCodeNotSeller       = "product_not_seller"
	TextCodeMissingFields   = "product_missing_fields"
)

// ErrProductNotFound is returned when a listing does not exist.
var ErrProductNotFound = errors.New("Product not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProductNotFound).
	WithCode(errors.CodeNotFound)

// ErrNotSeller is returned when a caller tries to modify a listing they do
// not own.
var ErrNotSeller = errors.New("Unauthorized", errors.CategoryAuth).
	WithTextCode(TextCodeNotSeller).
	WithCode(errors.CodeForbidden)

// ErrMissingFields is returned when a listing is created without all of the
// required attributes.
var ErrMissingFields = errors.New("All fields are required", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingFields).
	WithCode(errors.CodeBadRequest)
