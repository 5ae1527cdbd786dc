package rulepack

import (
	"fmt"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/rules"
)

// Profile shorthands for the registration table.
var (
	allLearner  = []rules.Profile{rules.ProfileActor, rules.ProfileConsole}
	actorOnly   = []rules.Profile{rules.ProfileActor}
	messageOnly = []rules.Profile{rules.ProfileMessage}
)

// indexRule wraps a constructor that requires the reference index,
// failing resolution when it is absent.
func indexRule(id string, build func(deps rules.Deps) rules.Rule[*model.Learner]) func(rules.Deps) (rules.Rule[*model.Learner], error) {
	return func(deps rules.Deps) (rules.Rule[*model.Learner], error) {
		if deps.Index == nil {
			return nil, fmt.Errorf("rule %s requires the reference index", id)
		}
		return build(deps), nil
	}
}

// Registrations is the learner-rooted rule table: the single source of
// truth for rule membership per profile. The resolver, the catalog
// cross-check, and the registration tests all read this table.
func Registrations() []rules.Registration[*model.Learner] {
	return []rules.Registration[*model.Learner]{
		{
			ID:       "LearnAimRef_01",
			Profiles: allLearner,
			New: indexRule("LearnAimRef_01", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &aimExistsRule{ix: d.Index}
			}),
		},
		{
			ID:       "LearnAimRef_30",
			Profiles: allLearner,
			New: indexRule("LearnAimRef_30", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &aimValidityRule{ix: d.Index}
			}),
		},
		{
			ID:       "LearnStartDate_06",
			Profiles: allLearner,
			New: indexRule("LearnStartDate_06", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &aimStartDateRule{ix: d.Index}
			}),
		},
		{
			ID:       "OrigLearnStartDate_05",
			Profiles: actorOnly,
			New: indexRule("OrigLearnStartDate_05", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &origStartDateRule{ix: d.Index}
			}),
		},
		{
			ID:       "EnglPrscID_01",
			Profiles: actorOnly,
			New: indexRule("EnglPrscID_01", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &englPrscIDRule{ix: d.Index}
			}),
		},
		{
			ID:       "LearnDelFAMType_64",
			Profiles: actorOnly,
			New: indexRule("LearnDelFAMType_64", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &basicSkillsRule{ix: d.Index}
			}),
		},
		{
			ID:       "FworkCode_05",
			Profiles: allLearner,
			New: indexRule("FworkCode_05", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &frameworkCodeRule{ix: d.Index}
			}),
		},
		{
			ID:       "FworkCode_17",
			Profiles: actorOnly,
			New: indexRule("FworkCode_17", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &frameworkExpiryRule{ix: d.Index}
			}),
		},
		{
			ID:       "FworkAimCommonComp_02",
			Profiles: actorOnly,
			New: indexRule("FworkAimCommonComp_02", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &commonComponentRule{ix: d.Index}
			}),
		},
		{
			ID:       "StdCode_01",
			Profiles: allLearner,
			New: indexRule("StdCode_01", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &standardExistsRule{ix: d.Index}
			}),
		},
		{
			ID:       "StdCode_02",
			Profiles: actorOnly,
			New: indexRule("StdCode_02", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &standardExpiryRule{ix: d.Index}
			}),
		},
		{
			ID:       "StdCode_04",
			Profiles: actorOnly,
			New: indexRule("StdCode_04", func(d rules.Deps) rules.Rule[*model.Learner] {
				return &standardFundingRule{ix: d.Index}
			}),
		},
		{
			ID:       "ULN_03",
			Profiles: allLearner,
			New: func(rules.Deps) (rules.Rule[*model.Learner], error) {
				return &ulnRule{}, nil
			},
		},
		{
			ID:       "DateOfBirth_01",
			Profiles: allLearner,
			New: func(rules.Deps) (rules.Rule[*model.Learner], error) {
				return &dobRule{}, nil
			},
		},
		{
			ID:       "LearnDelFAMType_03",
			Profiles: actorOnly,
			New: func(rules.Deps) (rules.Rule[*model.Learner], error) {
				return &actFAMRule{}, nil
			},
		},
	}
}

// MessageRegistrations is the message-rooted rule table, disjoint from
// the learner-rooted one.
func MessageRegistrations() []rules.Registration[*model.Message] {
	return []rules.Registration[*model.Message]{
		{
			ID:       "Header_3",
			Profiles: messageOnly,
			New: func(rules.Deps) (rules.Rule[*model.Message], error) {
				return &ukprnRule{}, nil
			},
		},
		{
			ID:       "Header_7",
			Profiles: messageOnly,
			New: func(rules.Deps) (rules.Rule[*model.Message], error) {
				return &collectionYearRule{}, nil
			},
		},
	}
}

// LearnerRuleIDs returns every learner rule ID in the table, in
// registration order. Consumed by the catalog cross-check.
func LearnerRuleIDs() []string {
	regs := Registrations()
	ids := make([]string, len(regs))
	for i, reg := range regs {
		ids[i] = reg.ID
	}
	return ids
}

// MessageRuleIDs returns every message rule ID in the table.
func MessageRuleIDs() []string {
	regs := MessageRegistrations()
	ids := make([]string, len(regs))
	for i, reg := range regs {
		ids[i] = reg.ID
	}
	return ids
}
