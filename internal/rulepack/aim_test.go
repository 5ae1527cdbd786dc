package rulepack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rules"
	"github.com/larkhall/sift/internal/testutil"
)

func TestValidityCategoryFor(t *testing.T) {
	tests := []struct {
		fundModel int
		category  string
		known     bool
	}{
		{35, "ADULT_SKILLS", true},
		{36, "APPRENTICESHIPS", true},
		{81, "APPRENTICESHIPS", true},
		{70, "ESF", true},
		{25, "EFA16TO19", true},
		{82, "EFA16TO19", true},
		{99, "ANY", true},
		{10, "", false},
		{0, "", false},
	}

	for _, tt := range tests {
		category, ok := validityCategoryFor(tt.fundModel)
		assert.Equal(t, tt.known, ok, "fund model %d", tt.fundModel)
		assert.Equal(t, tt.category, category, "fund model %d", tt.fundModel)
	}
}

func TestAimExistsRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
	})
	r := &aimExistsRule{ix: ix}

	l := learnerWith(
		model.LearningDelivery{AimSeqNumber: 1, LearnAimRef: "50086832"},
		model.LearningDelivery{AimSeqNumber: 2, LearnAimRef: "ZZZ999"},
	)

	findings := runRule(t, r, l)
	require.Len(t, findings, 1)
	assert.Equal(t, "LearnAimRef_01", findings[0].RuleID)
	assert.Equal(t, 2, *findings[0].AimSeqNumber)
	assert.Equal(t, []rules.Param{{Name: "LearnAimRef", Value: "ZZZ999"}}, findings[0].Params)
}

func TestAimExistsRule_NilLearner(t *testing.T) {
	r := &aimExistsRule{ix: buildIndex(t, refdata.Snapshot{})}
	err := r.Validate(nil, &collector{})
	assert.True(t, rules.IsNilEntityError(err))
}

func TestAimValidityRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
		Validities: []refdata.Validity{
			{
				Period:           refdata.Period{StartDate: testutil.Date(2013, 8, 1)},
				LearnAimRef:      "50086832",
				ValidityCategory: "ADULT_SKILLS",
			},
		},
	})
	r := &aimValidityRule{ix: ix}

	// Adult-skills delivery inside the validity window: clean.
	clean := learnerWith(model.LearningDelivery{
		AimSeqNumber:   1,
		LearnAimRef:    "50086832",
		FundModel:      35,
		LearnStartDate: testutil.Date(2015, 1, 1),
	})
	assert.Empty(t, runRule(t, r, clean))

	// Same aim under an apprenticeship fund model: no validity for that
	// category, so the delivery is flagged.
	wrongCategory := learnerWith(model.LearningDelivery{
		AimSeqNumber:   1,
		LearnAimRef:    "50086832",
		FundModel:      36,
		LearnStartDate: testutil.Date(2015, 1, 1),
	})
	findings := runRule(t, r, wrongCategory)
	require.Len(t, findings, 1)
	assert.Equal(t, "LearnAimRef_30", findings[0].RuleID)
}

func TestAimValidityRule_WithdrawnValidity(t *testing.T) {
	// The validity record was withdrawn at source: end date precedes
	// start date. It must not count as current for any start date.
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
		Validities: []refdata.Validity{
			{
				Period: refdata.Period{
					StartDate: testutil.Date(2013, 8, 1),
					EndDate:   testutil.DatePtr(2013, 7, 31),
				},
				LearnAimRef:      "50086832",
				ValidityCategory: "ADULT_SKILLS",
			},
		},
	})
	r := &aimValidityRule{ix: ix}

	l := learnerWith(model.LearningDelivery{
		AimSeqNumber:   1,
		LearnAimRef:    "50086832",
		FundModel:      35,
		LearnStartDate: testutil.Date(2015, 1, 1),
	})

	findings := runRule(t, r, l)
	require.Len(t, findings, 1)
	assert.Equal(t, "LearnAimRef_30", findings[0].RuleID)
	assert.Equal(t, "L001", findings[0].EntityKey)
}

func TestAimValidityRule_Skips(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
	})
	r := &aimValidityRule{ix: ix}

	// Unknown fund model: not this rule's concern.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 10,
		LearnStartDate: testutil.Date(2015, 1, 1),
	})))

	// Unknown aim: existence is LearnAimRef_01's concern.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "ZZZ999", FundModel: 35,
		LearnStartDate: testutil.Date(2015, 1, 1),
	})))
}

func TestAimStartDateRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{
				Period: refdata.Period{
					StartDate: testutil.Date(2010, 8, 1),
					EndDate:   testutil.DatePtr(2014, 7, 31),
				},
				LearnAimRef: "50086832",
			},
		},
	})
	r := &aimStartDateRule{ix: ix}

	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832",
		LearnStartDate: testutil.Date(2014, 7, 31),
	})))

	findings := runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832",
		LearnStartDate: testutil.Date(2014, 8, 1),
	}))
	require.Len(t, findings, 1)
	assert.Equal(t, "LearnStartDate_06", findings[0].RuleID)
	assert.Equal(t, []rules.Param{
		{Name: "LearnAimRef", Value: "50086832"},
		{Name: "LearnStartDate", Value: "2014-08-01"},
	}, findings[0].Params)
}

func TestOrigStartDateRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
		Validities: []refdata.Validity{
			{
				Period: refdata.Period{
					StartDate: testutil.Date(2013, 8, 1),
					EndDate:   testutil.DatePtr(2015, 7, 31),
				},
				LearnAimRef:      "50086832",
				ValidityCategory: "ADULT_SKILLS",
			},
		},
	})
	r := &origStartDateRule{ix: ix}

	// No original start: not a restart, rule does not apply.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 35,
		LearnStartDate: testutil.Date(2016, 1, 1),
	})))

	// Original start inside the validity window: clean.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 35,
		LearnStartDate:     testutil.Date(2016, 1, 1),
		OrigLearnStartDate: testutil.DatePtr(2014, 9, 1),
	})))

	// Original start after the validity lapsed: flagged.
	findings := runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 35,
		LearnStartDate:     testutil.Date(2016, 1, 1),
		OrigLearnStartDate: testutil.DatePtr(2015, 9, 1),
	}))
	require.Len(t, findings, 1)
	assert.Equal(t, "OrigLearnStartDate_05", findings[0].RuleID)
}

func TestEnglPrscIDRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{
				Period:      refdata.Period{StartDate: testutil.Date(2013, 8, 1)},
				LearnAimRef: "50086832",
				EnglPrscID:  testutil.Int(1),
			},
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "60005105"},
		},
	})
	r := &englPrscIDRule{ix: ix}

	mon := []model.DeliveryFAM{{Type: "LDM", Code: "320"}}

	// Flagged delivery whose aim carries a recognised prescribed ID.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FAMs: mon,
	})))

	// No monitoring attribute: rule does not apply.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "60005105",
	})))

	// Flagged delivery, aim without a prescribed ID.
	findings := runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "60005105", FAMs: mon,
	}))
	require.Len(t, findings, 1)
	assert.Equal(t, "EnglPrscID_01", findings[0].RuleID)
}

func TestBasicSkillsRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
		AnnualValues: []refdata.AnnualValue{
			{
				Period: refdata.Period{
					StartDate: testutil.Date(2014, 8, 1),
					EndDate:   testutil.DatePtr(2015, 7, 31),
				},
				LearnAimRef: "50086832",
				BasicSkills: testutil.Int(1),
			},
		},
	})
	r := &basicSkillsRule{ix: ix}

	mon := []model.DeliveryFAM{{Type: "LDM", Code: "034"}}

	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 35,
		LearnStartDate: testutil.Date(2015, 1, 1), FAMs: mon,
	})))

	// Start outside the annual value's window: flagged.
	findings := runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 35,
		LearnStartDate: testutil.Date(2016, 1, 1), FAMs: mon,
	}))
	require.Len(t, findings, 1)
	assert.Equal(t, "LearnDelFAMType_64", findings[0].RuleID)

	// Different fund model: rule does not apply.
	assert.Empty(t, runRule(t, r, learnerWith(model.LearningDelivery{
		AimSeqNumber: 1, LearnAimRef: "50086832", FundModel: 36,
		LearnStartDate: testutil.Date(2016, 1, 1), FAMs: mon,
	})))
}
