package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/larkhall/sift/internal/rules"
)

// RunWithGolden executes a scenario and compares its canonical finding
// trace against the golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for expected finding output; any
// defect recorded during the scenario fails the test immediately, since
// scenarios describe data-quality outcomes, not crashing rules.
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}
	if len(result.Defects) > 0 {
		t.Fatalf("scenario %s: unexpected defects: %v", scenario.Name, result.Defects)
	}

	trace, err := rules.MarshalCanonical(result.Findings)
	if err != nil {
		t.Fatalf("scenario %s: marshal findings: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, trace)
}
