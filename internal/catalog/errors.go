package catalog

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateMembership  = errors.New("game is already in the collection")
	ErrSelfLikeForbidden    = errors.New("cannot like your own collection")
	ErrInvalidFilterRequest = errors.New("invalid filter request")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("already exists")
)
