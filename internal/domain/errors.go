package domain

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConfiguration   = errors.New("configuration error")
	ErrProductNotFound = errors.New("product not found")
)
