package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnknownFormat = errors.New("unknown report format")
)
