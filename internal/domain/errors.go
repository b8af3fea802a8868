package domain

import "errors"

var (
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidText  = errors.New("invalid text")
	ErrInvalidLabel = errors.New("invalid label")
)
