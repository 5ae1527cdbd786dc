package rulepack

import (
	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rules"
)

// standardExistsRule checks that a standard apprenticeship delivery's
// standard code is known to the reference index.
type standardExistsRule struct {
	ix *refdata.Index
}

func (r *standardExistsRule) ID() string { return "StdCode_01" }

func (r *standardExistsRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if d.StdCode == nil {
			continue
		}
		if r.ix.ContainsStandardFor(d.StdCode) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.OptIntParam("StdCode", d.StdCode),
		))
	}
	return nil
}

// standardExpiryRule checks that the learn start date does not fall
// after the standard's effective end.
type standardExpiryRule struct {
	ix *refdata.Index
}

func (r *standardExpiryRule) ID() string { return "StdCode_02" }

func (r *standardExpiryRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if !r.ix.StartAfterStandardEffectiveTo(d.StdCode, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.OptIntParam("StdCode", d.StdCode),
			rules.DateParam("LearnStartDate", d.LearnStartDate),
		))
	}
	return nil
}

// standardFundingRule checks that a standard delivery has a funding band
// current at the learn start date.
type standardFundingRule struct {
	ix *refdata.Index
}

func (r *standardFundingRule) ID() string { return "StdCode_04" }

func (r *standardFundingRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if d.StdCode == nil || !r.ix.ContainsStandardFor(d.StdCode) {
			continue
		}
		if _, ok := r.ix.StandardFundingOn(d.StdCode, d.LearnStartDate); ok {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.OptIntParam("StdCode", d.StdCode),
			rules.DateParam("LearnStartDate", d.LearnStartDate),
		))
	}
	return nil
}
