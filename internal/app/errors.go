package service

import (
	"errors"

	"github.com/okian/sema/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = repository.ErrNotFound
	ErrNotStarted = errors.New("service not started")
)
