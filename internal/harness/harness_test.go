package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestScenarios_Golden(t *testing.T) {
	for _, name := range []string{
		"clean_submission",
		"withdrawn_validity",
		"mixed_batch",
	} {
		t.Run(name, func(t *testing.T) {
			RunWithGolden(t, loadTestScenario(t, name))
		})
	}
}

func TestRun_WithdrawnValidity(t *testing.T) {
	result, err := Run(loadTestScenario(t, "withdrawn_validity"))
	require.NoError(t, err)

	assert.Empty(t, result.Defects)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "LearnAimRef_30", result.Findings[0].RuleID)
	assert.Equal(t, "L001", result.Findings[0].EntityKey)
	assert.Equal(t, 1, *result.Findings[0].AimSeqNumber)
}

func TestRun_CleanSubmission(t *testing.T) {
	result, err := Run(loadTestScenario(t, "clean_submission"))
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.Empty(t, result.Defects)
}

func TestLoadScenario_Defaults(t *testing.T) {
	s := loadTestScenario(t, "clean_submission")
	assert.Equal(t, "clean_submission", s.Name)
	assert.Equal(t, "console", s.Profile)
	require.Len(t, s.Learners, 1)
	assert.Len(t, s.RefData.Aims, 1)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "nonesuch.yaml"))
	assert.Error(t, err)
}

func TestScenario_Entities(t *testing.T) {
	s := loadTestScenario(t, "mixed_batch")
	entities := s.Entities()
	require.Len(t, entities, 3)

	assert.Equal(t, "L001", entities[0].Key())
	require.NotNil(t, entities[0].ULN)
	assert.Equal(t, int64(1000000001), *entities[0].ULN)
	assert.Nil(t, entities[1].ULN)

	require.Len(t, entities[2].LearningDeliveries, 1)
	d := entities[2].LearningDeliveries[0]
	assert.Equal(t, 36, d.FundModel)
	require.NotNil(t, d.PwayCode)
	assert.Equal(t, 2, *d.PwayCode)
}

func TestRefDataFixture_Snapshot(t *testing.T) {
	s := loadTestScenario(t, "withdrawn_validity")
	snap := s.RefData.Snapshot()

	require.Len(t, snap.Validities, 1)
	v := snap.Validities[0]
	assert.Equal(t, "ADULT_SKILLS", v.ValidityCategory)
	assert.True(t, v.Withdrawn(), "fixture end date precedes its start date")
}
