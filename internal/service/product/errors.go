package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
)
