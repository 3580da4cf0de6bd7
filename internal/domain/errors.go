package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidReference  = errors.New("referenced record does not exist")
	ErrInUse             = errors.New("record is referenced by other records")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrForbidden         = errors.New("forbidden")
)
