package rulepack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rules"
)

// collector is a local Emitter for single-rule tests.
type collector struct {
	findings []rules.Finding
}

func (c *collector) Emit(f rules.Finding) {
	c.findings = append(c.findings, f)
}

func buildIndex(t *testing.T, snap refdata.Snapshot) *refdata.Index {
	t.Helper()
	ix, err := refdata.Build(snap)
	require.NoError(t, err)
	return ix
}

// runRule validates one learner against one rule and returns the
// collected findings.
func runRule(t *testing.T, r rules.Rule[*model.Learner], l *model.Learner) []rules.Finding {
	t.Helper()
	c := &collector{}
	require.NoError(t, r.Validate(l, c))
	return c.findings
}

func runMessageRule(t *testing.T, r rules.Rule[*model.Message], m *model.Message) []rules.Finding {
	t.Helper()
	c := &collector{}
	require.NoError(t, r.Validate(m, c))
	return c.findings
}

func learnerWith(deliveries ...model.LearningDelivery) *model.Learner {
	uln := int64(1000000001)
	return &model.Learner{
		LearnRefNumber:     "L001",
		ULN:                &uln,
		LearningDeliveries: deliveries,
	}
}
