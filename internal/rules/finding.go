package rules

import (
	"fmt"
	"time"
)

// Finding is a structured compliance-violation record. Immutable once
// created; the sink never rewrites appended findings.
type Finding struct {
	// RuleID identifies the rule whose condition matched.
	RuleID string

	// EntityKey is the root entity's unique reference key.
	EntityKey string

	// AimSeqNumber locates the learning delivery within the entity,
	// when the finding is delivery-scoped. Nil for entity-level findings.
	AimSeqNumber *int

	// Params are ordered diagnostic (name, value) pairs. Order is the
	// emission order chosen by the rule and is preserved end to end.
	Params []Param
}

// Param is one diagnostic parameter on a finding.
type Param struct {
	Name  string
	Value string
}

// NewFinding builds an entity-level finding.
func NewFinding(ruleID, entityKey string, params ...Param) Finding {
	return Finding{RuleID: ruleID, EntityKey: entityKey, Params: params}
}

// NewDeliveryFinding builds a delivery-scoped finding tagged with the
// aim sequence number.
func NewDeliveryFinding(ruleID, entityKey string, aimSeq int, params ...Param) Finding {
	seq := aimSeq
	return Finding{RuleID: ruleID, EntityKey: entityKey, AimSeqNumber: &seq, Params: params}
}

// StringParam builds a string-valued diagnostic parameter.
func StringParam(name, value string) Param {
	return Param{Name: name, Value: value}
}

// IntParam builds an int-valued diagnostic parameter.
func IntParam(name string, value int) Param {
	return Param{Name: name, Value: fmt.Sprintf("%d", value)}
}

// DateParam builds a date-valued diagnostic parameter in ISO form.
func DateParam(name string, value time.Time) Param {
	return Param{Name: name, Value: value.Format("2006-01-02")}
}

// OptIntParam builds an int parameter, rendering nil as the empty string
// so absence stays distinguishable from zero.
func OptIntParam(name string, value *int) Param {
	if value == nil {
		return Param{Name: name}
	}
	return IntParam(name, *value)
}
