// Package rules defines the rule abstraction, the finding sink, and the
// rule-set resolver for the validation pipeline.
//
// A rule is a stateless predicate unit: constructed once with its
// collaborators (the reference index, derived-data providers), then
// invoked any number of times via Validate. Validate is a pure function
// of (entity, index-state-at-build-time) plus the emission side effect -
// given the same entity and the same frozen index, it must emit the same
// findings every time.
//
// Findings are data-quality output and flow through the Emitter. A
// returned error is a DEFECT (a programming fault such as a nil entity),
// never a data-quality condition, and is handled by the executor's fault
// isolation boundary.
package rules

import (
	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
)

// Entity constrains the root-entity types a rule set can be registered
// for. Learner-rooted and Message-rooted rule sets are disjoint.
type Entity interface {
	*model.Learner | *model.Message
	Key() string
}

// Rule is a single validation unit for one root-entity type.
//
// INVARIANTS:
//   - Immutable after construction: no per-call mutable state.
//   - Never mutates the entity graph or the index.
//   - Idempotent for a fixed entity and index snapshot.
type Rule[E Entity] interface {
	// ID returns the rule's catalogue identifier, e.g. "LearnAimRef_01".
	ID() string

	// Validate inspects the entity and emits zero or more findings.
	// A non-nil error is a defect, not a finding.
	Validate(entity E, emit Emitter) error
}

// Emitter receives findings from a rule. The executor supplies the
// batch sink; tests may supply a local collector.
type Emitter interface {
	Emit(f Finding)
}

// Deps carries the collaborators rules are constructed with.
// The index is frozen before any rule is built, so rules may capture it
// directly.
type Deps struct {
	Index *refdata.Index
}

// RuleFunc adapts a function to the Rule interface for small rules and
// tests.
type RuleFunc[E Entity] struct {
	RuleID string
	Fn     func(entity E, emit Emitter) error
}

// ID returns the rule identifier.
func (r RuleFunc[E]) ID() string { return r.RuleID }

// Validate invokes the wrapped function.
func (r RuleFunc[E]) Validate(entity E, emit Emitter) error {
	return r.Fn(entity, emit)
}
