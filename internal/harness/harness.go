// Package harness runs conformance scenarios through the real pipeline:
// index build, rule-set resolution, batch execution, canonical finding
// output. Scenarios are YAML files with inline reference data; their
// expected output lives in golden files compared with goldie.
//
// The harness runs the executor single-threaded with a fixed run token
// so a scenario's log and finding output is fully deterministic.
package harness

import (
	"context"
	"fmt"

	"github.com/larkhall/sift/internal/engine"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rulepack"
	"github.com/larkhall/sift/internal/rules"
)

// Result carries a scenario's findings and defects.
type Result struct {
	Findings []rules.Finding
	Defects  []rules.Defect
}

// Run executes a scenario through the full pipeline and returns the
// collected findings in canonical order.
func Run(scenario *Scenario) (*Result, error) {
	index, err := refdata.Build(scenario.RefData.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("build scenario index: %w", err)
	}

	set, err := rules.Resolve(rulepack.Registrations(), rules.Profile(scenario.Profile), rules.Deps{Index: index})
	if err != nil {
		return nil, fmt.Errorf("resolve rule set: %w", err)
	}

	sink := rules.NewSink()
	err = engine.Execute(context.Background(), set, scenario.Entities(), sink,
		engine.WithWorkers(1),
		engine.WithTokenGenerator(engine.NewFixedGenerator("scenario-"+scenario.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("execute scenario batch: %w", err)
	}

	findings := sink.Findings()
	rules.SortCanonical(findings)

	return &Result{
		Findings: findings,
		Defects:  sink.Defects(),
	}, nil
}
