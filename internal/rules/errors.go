package rules

import (
	"errors"
	"fmt"
)

// DefectError represents a programming fault detected in the rule
// pipeline, as opposed to a data-quality finding.
//
// Defects include:
//   - Nil entity: a required entity argument was missing
//   - Rule construction failure: a collaborator could not be built
//   - Duplicate registration: two rules share an ID for one profile
//   - Rule panic: an unexpected panic escaped a rule body
//
// Resolution-time defects are fatal; execution-time defects are isolated
// per (entity, rule) by the executor's fault boundary.
type DefectError struct {
	// Code identifies the defect category.
	Code DefectCode

	// Message is a human-readable description.
	Message string

	// RuleID identifies the rule involved, when known.
	RuleID string

	// EntityKey identifies the entity involved, when known.
	EntityKey string
}

// DefectCode categorizes pipeline defects.
type DefectCode string

const (
	// ErrCodeNilEntity indicates Validate received a nil required entity.
	ErrCodeNilEntity DefectCode = "NIL_ENTITY"

	// ErrCodeRuleConstruct indicates a rule's constructor failed.
	ErrCodeRuleConstruct DefectCode = "RULE_CONSTRUCT"

	// ErrCodeDuplicateRule indicates two registrations share an ID.
	ErrCodeDuplicateRule DefectCode = "DUPLICATE_RULE"

	// ErrCodeRulePanic indicates a panic escaped a rule body.
	ErrCodeRulePanic DefectCode = "RULE_PANIC"
)

// Error implements the error interface.
func (e *DefectError) Error() string {
	switch {
	case e.RuleID != "" && e.EntityKey != "":
		return fmt.Sprintf("%s: %s (rule=%s, entity=%s)", e.Code, e.Message, e.RuleID, e.EntityKey)
	case e.RuleID != "":
		return fmt.Sprintf("%s: %s (rule=%s)", e.Code, e.Message, e.RuleID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// NewNilEntityError creates a DefectError for a nil required entity.
func NewNilEntityError(ruleID string) *DefectError {
	return &DefectError{
		Code:    ErrCodeNilEntity,
		Message: "required entity argument is nil",
		RuleID:  ruleID,
	}
}

// IsNilEntityError reports whether err is a nil-entity defect.
// Uses errors.As to handle wrapped errors.
func IsNilEntityError(err error) bool {
	var de *DefectError
	return errors.As(err, &de) && de.Code == ErrCodeNilEntity
}

// IsPanicDefect reports whether err came from a recovered rule panic.
func IsPanicDefect(err error) bool {
	var de *DefectError
	return errors.As(err, &de) && de.Code == ErrCodeRulePanic
}
