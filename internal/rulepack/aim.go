package rulepack

import (
	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rules"
)

// validityCategoryFor maps a delivery's fund model to the validity
// category its aim must be current under.
func validityCategoryFor(fundModel int) (string, bool) {
	switch fundModel {
	case 35:
		return "ADULT_SKILLS", true
	case 36, 81:
		return "APPRENTICESHIPS", true
	case 70:
		return "ESF", true
	case 25, 82:
		return "EFA16TO19", true
	case 99:
		return "ANY", true
	default:
		return "", false
	}
}

// aimExistsRule checks that every delivery's aim reference is known to
// the reference index.
type aimExistsRule struct {
	ix *refdata.Index
}

func (r *aimExistsRule) ID() string { return "LearnAimRef_01" }

func (r *aimExistsRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if r.ix.AimExists(d.LearnAimRef) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
		))
	}
	return nil
}

// aimValidityRule checks that the aim is current, at the learn start
// date, under the validity category implied by the fund model. A
// withdrawn validity record is never current, whatever its dates say.
type aimValidityRule struct {
	ix *refdata.Index
}

func (r *aimValidityRule) ID() string { return "LearnAimRef_30" }

func (r *aimValidityRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		category, ok := validityCategoryFor(d.FundModel)
		if !ok || !r.ix.AimExists(d.LearnAimRef) {
			continue
		}
		if r.ix.ValidityCategoryCurrentOn(d.LearnAimRef, category, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.IntParam("FundModel", d.FundModel),
			rules.DateParam("LearnStartDate", d.LearnStartDate),
		))
	}
	return nil
}

// aimStartDateRule checks that the learn start date does not fall after
// the aim's effective end.
type aimStartDateRule struct {
	ix *refdata.Index
}

func (r *aimStartDateRule) ID() string { return "LearnStartDate_06" }

func (r *aimStartDateRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if !r.ix.StartAfterAimEffectiveTo(d.LearnAimRef, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.DateParam("LearnStartDate", d.LearnStartDate),
		))
	}
	return nil
}

// origStartDateRule checks that a restart's original start date falls
// within a current validity period for the fund model's category.
type origStartDateRule struct {
	ix *refdata.Index
}

func (r *origStartDateRule) ID() string { return "OrigLearnStartDate_05" }

func (r *origStartDateRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if d.OrigLearnStartDate == nil {
			continue
		}
		category, ok := validityCategoryFor(d.FundModel)
		if !ok || !r.ix.AimExists(d.LearnAimRef) {
			continue
		}
		if r.ix.OrigStartWithinValidity(d.LearnAimRef, category, d.OrigLearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.DateParam("OrigLearnStartDate", *d.OrigLearnStartDate),
		))
	}
	return nil
}

// englPrscIDRule checks that deliveries flagged as English or maths
// provision map to an aim with a recognised English prescribed ID.
type englPrscIDRule struct {
	ix *refdata.Index
}

func (r *englPrscIDRule) ID() string { return "EnglPrscID_01" }

func (r *englPrscIDRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if !d.HasFAM("LDM", "320") {
			continue
		}
		if r.ix.EnglishPrescribedIDIn(d.LearnAimRef, 1, 2) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.StringParam("LearnDelFAMType", "LDM"),
			rules.StringParam("LearnDelFAMCode", "320"),
		))
	}
	return nil
}

// basicSkillsRule checks that adult-skills English/maths deliveries
// carry a basic-skills annual value current at the learn start date.
type basicSkillsRule struct {
	ix *refdata.Index
}

func (r *basicSkillsRule) ID() string { return "LearnDelFAMType_64" }

func (r *basicSkillsRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if d.FundModel != 35 || !d.HasFAM("LDM", "034") {
			continue
		}
		if r.ix.BasicSkillsMatchOn(d.LearnAimRef, 1, d.LearnStartDate) {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnAimRef", d.LearnAimRef),
			rules.DateParam("LearnStartDate", d.LearnStartDate),
		))
	}
	return nil
}
