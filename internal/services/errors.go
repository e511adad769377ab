package services

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication     = errors.New("not authenticated")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCooldown           = errors.New("submitted too recently")
)

// UpstreamError is a non-success answer from an external endpoint. Status and
// Message are passed through as the remote side reported them.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}
