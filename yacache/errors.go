package yacache

import "errors"

var (
	ErrNotFoundValue     = errors.New("value not found")
	ErrFailedToHSetEx    = errors.New("failed to hsetex")
	ErrFailedToGetValue  = errors.New("failed to get value")
	ErrFailedToGetValues = errors.New("failed to get values")
	ErrFailedToDelete    = errors.New("failed to delete")
	ErrFailedToGetLen    = errors.New("failed to get len")
	ErrFailedToSet       = errors.New("failed to set")
	ErrFailedToExists    = errors.New("failed to check existence")
	ErrFailedPing        = errors.New("failed to ping")
	ErrFailedToClose     = errors.New("failed to close backend")
)
