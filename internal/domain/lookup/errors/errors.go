// Package errors contains domain-specific errors for the lookup domain
package errors

import (
	pkgerrors "github.com/horrygame/tg-finding/pkg/errors"
)

// Domain errors for lookup operations
var (
	ErrInvalidHandle  = pkgerrors.NewValidationError("invalid handle")
	ErrMissingHandle  = pkgerrors.NewValidationError("handle is required")
	ErrNotAHandle     = pkgerrors.NewValidationError("text is not a handle")
	ErrRateLimited    = pkgerrors.NewServiceUnavailableError("too many lookups, try again later")
	ErrUnauthorized   = pkgerrors.NewUnauthorizedError("unauthorized")
	ErrHistoryStorage = pkgerrors.NewInternalError("history storage error")
	ErrRouteNotFound  = pkgerrors.NewNotFoundError("not found")
)
