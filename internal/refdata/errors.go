package refdata

import (
	"errors"
	"fmt"
)

// BuildError represents a fatal defect detected while building the index.
//
// Build defects stop the run before any entity is processed - a malformed
// snapshot must never degrade into wrong query-time answers.
type BuildError struct {
	// Code identifies the defect category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Key identifies the offending record (aim reference or standard code).
	Key string
}

// BuildErrorCode categorizes build defects.
type BuildErrorCode string

const (
	// ErrCodeDuplicateAim indicates two Aim records share a LearnAimRef.
	ErrCodeDuplicateAim BuildErrorCode = "DUPLICATE_AIM"

	// ErrCodeDuplicateStandard indicates two Standard records share a StdCode.
	ErrCodeDuplicateStandard BuildErrorCode = "DUPLICATE_STANDARD"

	// ErrCodeMissingStartDate indicates a record with a zero StartDate.
	ErrCodeMissingStartDate BuildErrorCode = "MISSING_START_DATE"

	// ErrCodeOrphanRecord indicates a child record whose key has no parent
	// Aim or Standard in the snapshot.
	ErrCodeOrphanRecord BuildErrorCode = "ORPHAN_RECORD"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicateKeyError reports whether err is a duplicate-key build defect.
// Uses errors.As to handle wrapped errors.
func IsDuplicateKeyError(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeDuplicateAim || be.Code == ErrCodeDuplicateStandard
	}
	return false
}

func newDuplicateAimError(ref string) *BuildError {
	return &BuildError{
		Code:    ErrCodeDuplicateAim,
		Message: "aim reference appears more than once in snapshot",
		Key:     ref,
	}
}

func newDuplicateStandardError(code int) *BuildError {
	return &BuildError{
		Code:    ErrCodeDuplicateStandard,
		Message: "standard code appears more than once in snapshot",
		Key:     fmt.Sprintf("%d", code),
	}
}
