package rulepack

import (
	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rules"
)

// frameworkCodeRule checks that a framework delivery's composite key
// (prog type, framework code, pathway code) matches a framework aim
// current at the learn start date. A mismatch on any one component is a
// failure; absence of any component means the rule does not apply.
type frameworkCodeRule struct {
	ix *refdata.Index
}

func (r *frameworkCodeRule) ID() string { return "FworkCode_05" }

func (r *frameworkCodeRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if d.ProgType == nil || d.FworkCode == nil || d.PwayCode == nil {
			continue
		}
		if *d.ProgType == 25 || !r.ix.AimExists(d.LearnAimRef) {
			continue
		}
		if r.ix.HasFrameworkCode(d.LearnAimRef, d.ProgType, d.FworkCode, d.PwayCode, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.OptIntParam("ProgType", d.ProgType),
			rules.OptIntParam("FworkCode", d.FworkCode),
			rules.OptIntParam("PwayCode", d.PwayCode),
		))
	}
	return nil
}

// frameworkExpiryRule checks that the learn start date does not fall
// after the effective end of every matching framework aim.
type frameworkExpiryRule struct {
	ix *refdata.Index
}

func (r *frameworkExpiryRule) ID() string { return "FworkCode_17" }

func (r *frameworkExpiryRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if !r.ix.StartAfterFrameworkEffectiveTo(d.LearnAimRef, d.ProgType, d.FworkCode, d.PwayCode, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.DateParam("LearnStartDate", d.LearnStartDate),
			rules.OptIntParam("FworkCode", d.FworkCode),
		))
	}
	return nil
}

// commonComponentRule checks that an aim carrying a framework common
// component is listed as a common component of the delivery's framework,
// current at the learn start date.
type commonComponentRule struct {
	ix *refdata.Index
}

func (r *commonComponentRule) ID() string { return "FworkAimCommonComp_02" }

func (r *commonComponentRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if d.ProgType == nil || d.FworkCode == nil || d.PwayCode == nil {
			continue
		}
		b, ok := r.ix.Lookup(d.LearnAimRef)
		if !ok || b.Aim.FrameworkCommonComponent == nil {
			continue
		}
		if r.ix.HasCommonComponent(d.LearnAimRef, d.ProgType, d.FworkCode, d.PwayCode, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.OptIntParam("FrameworkCommonComponent", b.Aim.FrameworkCommonComponent),
		))
	}
	return nil
}
