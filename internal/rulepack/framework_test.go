package rulepack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/testutil"
)

func frameworkIndex(t *testing.T) *refdata.Index {
	t.Helper()
	return buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
		},
		FrameworkAims: []refdata.FrameworkAim{
			{
				Period:      refdata.Period{StartDate: testutil.Date(2013, 8, 1)},
				LearnAimRef: "50086832",
				ProgType:    2,
				FworkCode:   445,
				PwayCode:    1,
			},
		},
	})
}

func frameworkDelivery(progType, fworkCode, pwayCode int) model.LearningDelivery {
	return model.LearningDelivery{
		AimSeqNumber:   1,
		LearnAimRef:    "50086832",
		FundModel:      36,
		LearnStartDate: testutil.Date(2015, 1, 1),
		ProgType:       testutil.Int(progType),
		FworkCode:      testutil.Int(fworkCode),
		PwayCode:       testutil.Int(pwayCode),
	}
}

func TestFrameworkCodeRule(t *testing.T) {
	r := &frameworkCodeRule{ix: frameworkIndex(t)}

	t.Run("matching composite key", func(t *testing.T) {
		assert.Empty(t, runRule(t, r, learnerWith(frameworkDelivery(2, 445, 1))))
	})

	t.Run("one component off", func(t *testing.T) {
		for _, d := range []model.LearningDelivery{
			frameworkDelivery(3, 445, 1),
			frameworkDelivery(2, 446, 1),
			frameworkDelivery(2, 445, 2),
		} {
			findings := runRule(t, r, learnerWith(d))
			require.Len(t, findings, 1)
			assert.Equal(t, "FworkCode_05", findings[0].RuleID)
		}
	})

	t.Run("standard programme exempt", func(t *testing.T) {
		assert.Empty(t, runRule(t, r, learnerWith(frameworkDelivery(25, 445, 1))))
	})

	t.Run("component absent", func(t *testing.T) {
		d := frameworkDelivery(2, 445, 1)
		d.PwayCode = nil
		assert.Empty(t, runRule(t, r, learnerWith(d)), "incomplete key means not applicable")
	})

	t.Run("unknown aim", func(t *testing.T) {
		d := frameworkDelivery(2, 445, 1)
		d.LearnAimRef = "ZZZ999"
		assert.Empty(t, runRule(t, r, learnerWith(d)))
	})
}

func TestFrameworkExpiryRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{Period: refdata.Period{StartDate: testutil.Date(2010, 8, 1)}, LearnAimRef: "50086832"},
		},
		FrameworkAims: []refdata.FrameworkAim{
			{
				Period: refdata.Period{
					StartDate: testutil.Date(2010, 8, 1),
					EndDate:   testutil.DatePtr(2014, 7, 31),
				},
				LearnAimRef: "50086832",
				ProgType:    2,
				FworkCode:   445,
				PwayCode:    1,
			},
		},
	})
	r := &frameworkExpiryRule{ix: ix}

	d := frameworkDelivery(2, 445, 1)
	d.LearnStartDate = testutil.Date(2014, 8, 1)
	findings := runRule(t, r, learnerWith(d))
	require.Len(t, findings, 1)
	assert.Equal(t, "FworkCode_17", findings[0].RuleID)

	d.LearnStartDate = testutil.Date(2014, 7, 31)
	assert.Empty(t, runRule(t, r, learnerWith(d)))
}

func TestCommonComponentRule(t *testing.T) {
	ix := buildIndex(t, refdata.Snapshot{
		Aims: []refdata.Aim{
			{
				Period:                   refdata.Period{StartDate: testutil.Date(2013, 8, 1)},
				LearnAimRef:              "50086832",
				FrameworkCommonComponent: testutil.Int(20),
			},
			{Period: refdata.Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "60005105"},
		},
		CommonComponents: []refdata.CommonComponent{
			{
				Period:          refdata.Period{StartDate: testutil.Date(2013, 8, 1)},
				LearnAimRef:     "50086832",
				CommonComponent: 20,
				ProgType:        2,
				FworkCode:       445,
				PwayCode:        1,
			},
		},
	})
	r := &commonComponentRule{ix: ix}

	t.Run("component listed for framework", func(t *testing.T) {
		assert.Empty(t, runRule(t, r, learnerWith(frameworkDelivery(2, 445, 1))))
	})

	t.Run("component missing for framework", func(t *testing.T) {
		findings := runRule(t, r, learnerWith(frameworkDelivery(2, 446, 1)))
		require.Len(t, findings, 1)
		assert.Equal(t, "FworkAimCommonComp_02", findings[0].RuleID)
	})

	t.Run("aim without common component", func(t *testing.T) {
		d := frameworkDelivery(2, 445, 1)
		d.LearnAimRef = "60005105"
		assert.Empty(t, runRule(t, r, learnerWith(d)))
	})
}
