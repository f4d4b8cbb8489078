package domain

import "errors"

// Domain errors
var (
	ErrBusy                = errors.New("an operation is already in progress")
	ErrNoPages             = errors.New("session has no pages")
	ErrTooManyPages        = errors.New("format supports a single page only")
	ErrPageNotFound        = errors.New("page not found")
	ErrCaptureFailed       = errors.New("capture failed")
	ErrAssemblyFailed      = errors.New("assembly failed")
	ErrWriteFailed         = errors.New("write failed")
	ErrSessionInconsistent = errors.New("session references a missing page")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
