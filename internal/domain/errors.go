package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyPrompt  = errors.New("empty prompt")
	ErrNotBrowsable = errors.New("message carries no browsable list")
	ErrInvalidKind  = errors.New("message kind does not match payload")
)
