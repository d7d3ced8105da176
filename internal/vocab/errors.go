package vocab

import "errors"

// Sentinel errors reported by store and service operations.
var (
	// ErrNotFound means an update/delete/move targeted a word that is not
	// present in the addressed document.
	ErrNotFound = errors.New("word not found")
	// ErrDuplicateWord means an add would violate per-category uniqueness.
	ErrDuplicateWord = errors.New("word already exists in this category")
)

// ValidationError carries the user-facing message for a rejected entry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
