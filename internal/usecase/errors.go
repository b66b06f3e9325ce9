package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUpstream              = errors.New("upstream provider failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrTimeout               = errors.New("request timed out")
)
