package domain

import "errors"

// Error kinds shared by repositories, services and handlers.
// Callers wrap them with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUpstream           = errors.New("upstream service error")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientCoins  = errors.New("insufficient coins")
)

// IsKnown reports whether err already carries one of the kinds above.
func IsKnown(err error) bool {
	for _, kind := range []error{
		ErrNotFound, ErrConflict, ErrInvalidArgument, ErrUnauthorized, ErrForbidden,
		ErrStorageUnavailable, ErrUpstream, ErrInvalidTransition, ErrInsufficientCoins,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
