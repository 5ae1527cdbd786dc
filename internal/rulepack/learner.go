package rulepack

import (
	"strconv"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/rules"
)

// Entity-only rules: these inspect learner fields without consulting the
// reference index.

const temporaryULN = 9999999999

// ulnRule checks that a funded learner carries a real ULN rather than
// the temporary placeholder.
type ulnRule struct{}

func (r *ulnRule) ID() string { return "ULN_03" }

func (r *ulnRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	funded := false
	for _, d := range l.LearningDeliveries {
		if d.FundModel != 99 {
			funded = true
			break
		}
	}
	if !funded {
		return nil
	}
	if l.ULN != nil && *l.ULN != temporaryULN {
		return nil
	}
	emit.Emit(rules.NewFinding(r.ID(), l.Key(),
		rules.StringParam("ULN", ulnString(l.ULN)),
	))
	return nil
}

func ulnString(uln *int64) string {
	if uln == nil {
		return ""
	}
	return strconv.FormatInt(*uln, 10)
}

// dobRule checks that 16-19 funded learners carry a date of birth.
type dobRule struct{}

func (r *dobRule) ID() string { return "DateOfBirth_01" }

func (r *dobRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	if l.DateOfBirth != nil {
		return nil
	}
	for _, d := range l.LearningDeliveries {
		if d.FundModel == 25 || d.FundModel == 82 {
			emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
				rules.IntParam("FundModel", d.FundModel),
			))
		}
	}
	return nil
}

// actFAMRule checks that the ACT monitoring attribute only appears on
// apprenticeship-standard programmes.
type actFAMRule struct{}

func (r *actFAMRule) ID() string { return "LearnDelFAMType_03" }

func (r *actFAMRule) Validate(l *model.Learner, emit rules.Emitter) error {
	if l == nil {
		return rules.NewNilEntityError(r.ID())
	}
	for _, d := range l.LearningDeliveries {
		if _, ok := d.FAM("ACT"); !ok {
			continue
		}
		if d.ProgType != nil && *d.ProgType == 25 {
			continue
		}
		emit.Emit(rules.NewDeliveryFinding(r.ID(), l.Key(), d.AimSeqNumber,
			rules.StringParam("LearnDelFAMType", "ACT"),
			rules.OptIntParam("ProgType", d.ProgType),
		))
	}
	return nil
}
