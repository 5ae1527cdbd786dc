package rulepack

import (
	"regexp"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/rules"
)

// Message-rooted rules validate submission header fields. They are
// registered under ProfileMessage only and never appear in a
// learner-rooted rule set.

// ukprnRule checks that the header carries a plausible provider number.
type ukprnRule struct{}

func (r *ukprnRule) ID() string { return "Header_3" }

func (r *ukprnRule) Validate(m *model.Message, emit rules.Emitter) error {
	if m == nil {
		return rules.NewNilEntityError(r.ID())
	}
	if m.UKPRN >= 10000000 && m.UKPRN <= 99999999 {
		return nil
	}
	emit.Emit(rules.NewFinding(r.ID(), m.Key(),
		rules.IntParam("UKPRN", m.UKPRN),
	))
	return nil
}

var collectionYearPattern = regexp.MustCompile(`^\d{4}$`)

// collectionYearRule checks the header's collection-year format, e.g.
// "2425" for the 2024/25 year.
type collectionYearRule struct{}

func (r *collectionYearRule) ID() string { return "Header_7" }

func (r *collectionYearRule) Validate(m *model.Message, emit rules.Emitter) error {
	if m == nil {
		return rules.NewNilEntityError(r.ID())
	}
	if collectionYearPattern.MatchString(m.CollectionYear) {
		return nil
	}
	emit.Emit(rules.NewFinding(r.ID(), m.Key(),
		rules.StringParam("CollectionYear", m.CollectionYear),
	))
	return nil
}
