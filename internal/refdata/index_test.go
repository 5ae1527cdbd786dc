package refdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larkhall/sift/internal/testutil"
)

func TestIndex_Build_BundlesChildren(t *testing.T) {
	snap := Snapshot{
		Aims: []Aim{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
			{Period: Period{StartDate: testutil.Date(2014, 8, 1)}, LearnAimRef: "60005105"},
		},
		Validities: []Validity{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832", ValidityCategory: "ADULT_SKILLS"},
			{Period: Period{StartDate: testutil.Date(2014, 8, 1)}, LearnAimRef: "50086832", ValidityCategory: "ESF"},
		},
		Categories: []Category{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "60005105", CategoryRef: 22},
		},
		Standards: []Standard{
			{Period: Period{StartDate: testutil.Date(2017, 5, 1)}, StdCode: 91},
		},
		StandardFundings: []StandardFunding{
			{Period: Period{StartDate: testutil.Date(2017, 5, 1)}, StdCode: 91, FundableWithoutEmployer: "Y"},
		},
	}

	ix, err := Build(snap)
	require.NoError(t, err)

	assert.Equal(t, 2, ix.AimCount())
	assert.Equal(t, 1, ix.StandardCount())

	b, ok := ix.Lookup("50086832")
	require.True(t, ok)
	assert.Len(t, b.Validities, 2)
	assert.Empty(t, b.Categories)

	b, ok = ix.Lookup("60005105")
	require.True(t, ok)
	assert.Len(t, b.Categories, 1)

	sb, ok := ix.StandardLookup(91)
	require.True(t, ok)
	assert.Len(t, sb.Fundings, 1)
}

func TestIndex_Build_SlicesNeverNil(t *testing.T) {
	snap := Snapshot{
		Aims:      []Aim{{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"}},
		Standards: []Standard{{Period: Period{StartDate: testutil.Date(2017, 5, 1)}, StdCode: 91}},
	}

	ix, err := Build(snap)
	require.NoError(t, err)

	b, _ := ix.Lookup("50086832")
	assert.NotNil(t, b.AnnualValues)
	assert.NotNil(t, b.FrameworkAims)
	assert.NotNil(t, b.CommonComponents)
	assert.NotNil(t, b.Categories)
	assert.NotNil(t, b.Validities)

	sb, _ := ix.StandardLookup(91)
	assert.NotNil(t, sb.Fundings)
	assert.NotNil(t, sb.Validities)
}

func TestIndex_Build_NormalizesAimRefs(t *testing.T) {
	snap := Snapshot{
		Aims: []Aim{{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: " z0086832 "}},
		Validities: []Validity{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "Z0086832", ValidityCategory: "ANY"},
		},
	}

	ix, err := Build(snap)
	require.NoError(t, err)

	// Lookups are case- and whitespace-insensitive, and children attach
	// under the normalized key.
	b, ok := ix.Lookup("z0086832")
	require.True(t, ok)
	assert.Len(t, b.Validities, 1)

	_, ok = ix.Lookup("  Z0086832")
	assert.True(t, ok)
}

func TestIndex_Build_DuplicateAim(t *testing.T) {
	snap := Snapshot{
		Aims: []Aim{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"},
			{Period: Period{StartDate: testutil.Date(2014, 8, 1)}, LearnAimRef: "50086832"},
		},
	}

	_, err := Build(snap)
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyError(err))

	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrCodeDuplicateAim, be.Code)
	assert.Equal(t, "50086832", be.Key)
}

func TestIndex_Build_DuplicateAimAfterNormalization(t *testing.T) {
	snap := Snapshot{
		Aims: []Aim{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "z0086832"},
			{Period: Period{StartDate: testutil.Date(2014, 8, 1)}, LearnAimRef: "Z0086832"},
		},
	}

	_, err := Build(snap)
	assert.True(t, IsDuplicateKeyError(err))
}

func TestIndex_Build_DuplicateStandard(t *testing.T) {
	snap := Snapshot{
		Standards: []Standard{
			{Period: Period{StartDate: testutil.Date(2017, 5, 1)}, StdCode: 91},
			{Period: Period{StartDate: testutil.Date(2018, 5, 1)}, StdCode: 91},
		},
	}

	_, err := Build(snap)
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyError(err))

	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrCodeDuplicateStandard, be.Code)
	assert.Equal(t, "91", be.Key)
}

func TestIndex_Build_MissingStartDate(t *testing.T) {
	snap := Snapshot{
		Aims: []Aim{{LearnAimRef: "50086832"}},
	}

	_, err := Build(snap)
	require.Error(t, err)

	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrCodeMissingStartDate, be.Code)
	assert.False(t, IsDuplicateKeyError(err))
}

func TestIndex_Build_OrphanChildrenTolerated(t *testing.T) {
	snap := Snapshot{
		Aims: []Aim{{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"}},
		Validities: []Validity{
			{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "NOPARENT", ValidityCategory: "ANY"},
		},
		StandardFundings: []StandardFunding{
			{Period: Period{StartDate: testutil.Date(2017, 5, 1)}, StdCode: 404},
		},
	}

	ix, err := Build(snap)
	require.NoError(t, err)

	b, _ := ix.Lookup("50086832")
	assert.Empty(t, b.Validities, "orphan validity must not attach to another aim")
	assert.False(t, ix.AimExists("NOPARENT"))
}

func TestIndex_BuildFromSource(t *testing.T) {
	src := snapshotSource{snap: Snapshot{
		Aims: []Aim{{Period: Period{StartDate: testutil.Date(2013, 8, 1)}, LearnAimRef: "50086832"}},
	}}

	ix, err := BuildFromSource(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, ix.AimExists("50086832"))
}

func TestIndex_BuildFromSource_LoadError(t *testing.T) {
	loadErr := errors.New("snapshot unavailable")
	_, err := BuildFromSource(context.Background(), snapshotSource{err: loadErr})
	assert.ErrorIs(t, err, loadErr)
}

// snapshotSource is an in-memory Source for tests.
type snapshotSource struct {
	snap Snapshot
	err  error
}

func (s snapshotSource) Load(context.Context) (Snapshot, error) {
	return s.snap, s.err
}
