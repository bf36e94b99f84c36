package store

import "errors"

var (
	ErrNotFound      = errors.New("document not found")
	ErrGroupTooLarge = errors.New("commit group exceeds write limit")
	ErrInvalidPath   = errors.New("invalid document path")
)
