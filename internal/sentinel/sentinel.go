package sentinel

import "errors"

// Sentinel dependency errors. Stores should return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotOwner      = errors.New("caller is not the owner")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotMember     = errors.New("not a member")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("unavailable")
)
