// Package engine implements the rule-set executor.
//
// The executor applies every resolved rule to every entity in a batch,
// routing findings into the shared sink. Entities are independent of
// each other, so the batch fans out across a worker pool; within one
// entity, rules run sequentially on that entity's worker. Rules only
// read the entity graph and the frozen reference index, and only append
// to the sink, so no ordering is guaranteed or needed between entities.
//
// FAULT ISOLATION:
//
// Findings are expected output, never errors - one (entity, rule) pair
// producing findings does not short-circuit anything. A rule returning
// an error or panicking is a DEFECT: it is captured at the (entity,
// rule) boundary, recorded in the sink tagged with rule ID and entity
// key, and the batch continues. Hundreds of independent rules must not
// let one defective rule mask every other rule's findings.
//
// CANCELLATION:
//
// Cancellation is honoured at entity granularity. After the context is
// cancelled no further entities are dispatched; entities already picked
// up by a worker run to completion, and Execute returns the context
// error.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/larkhall/sift/internal/rules"
)

// Options configures a batch execution.
type Options struct {
	workers int
	tokens  TokenGenerator
}

// Option configures the executor.
type Option func(*Options)

// WithWorkers sets the worker-pool size. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithTokenGenerator overrides the run-token generator. Tests use a
// FixedGenerator for deterministic log output.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(o *Options) {
		o.tokens = g
	}
}

// Execute applies every rule in set to every entity, exactly once per
// (entity, rule) pair, draining all findings and defects into sink.
//
// Returns the context error if the batch was cancelled before every
// entity was dispatched; otherwise nil. Defects do not fail the batch -
// callers inspect sink.Defects() after completion.
func Execute[E rules.Entity](ctx context.Context, set rules.RuleSet[E], entities []E, sink *rules.Sink, opts ...Option) error {
	o := Options{
		workers: runtime.GOMAXPROCS(0),
		tokens:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	runToken := o.tokens.Generate()
	slog.Info("batch starting",
		"run_token", runToken,
		"profile", string(set.Profile),
		"entities", len(entities),
		"rules", len(set.Rules),
		"workers", o.workers,
	)

	jobs := make(chan E)
	g, gctx := errgroup.WithContext(ctx)

	// Feeder: stops dispatching once the context is cancelled. Entities
	// already in flight finish on their workers.
	g.Go(func() error {
		defer close(jobs)
		for _, entity := range entities {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- entity:
			}
		}
		return nil
	})

	for i := 0; i < o.workers; i++ {
		g.Go(func() error {
			for entity := range jobs {
				validateEntity(set, entity, sink)
			}
			return nil
		})
	}

	err := g.Wait()

	slog.Info("batch complete",
		"run_token", runToken,
		"findings", sink.Len(),
		"defects", sink.DefectCount(),
		"cancelled", err != nil,
	)

	return err
}

// validateEntity runs the full rule set against one entity.
// Invoked on exactly one worker per entity, so rule order within an
// entity is the registration order.
func validateEntity[E rules.Entity](set rules.RuleSet[E], entity E, sink *rules.Sink) {
	var zero E
	if entity == zero {
		// Nil entity is a programming defect in the provider, not a
		// data-quality condition. Record it and move on.
		sink.RecordDefect(rules.Defect{
			Err: rules.NewNilEntityError(""),
		})
		return
	}

	key := entity.Key()
	for _, rule := range set.Rules {
		if err := safeValidate(rule, entity, sink); err != nil {
			sink.RecordDefect(rules.Defect{
				RuleID:    rule.ID(),
				EntityKey: key,
				Err:       err,
			})
			slog.Error("rule execution defect",
				"rule_id", rule.ID(),
				"entity_key", key,
				"error", err,
			)
		}
	}
}

// safeValidate invokes one rule with a panic boundary. A recovered
// panic becomes a RULE_PANIC defect so a crashing rule cannot take the
// worker down with it.
func safeValidate[E rules.Entity](rule rules.Rule[E], entity E, sink *rules.Sink) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &rules.DefectError{
				Code:      rules.ErrCodeRulePanic,
				Message:   fmt.Sprintf("panic in rule body: %v", rec),
				RuleID:    rule.ID(),
				EntityKey: entity.Key(),
			}
		}
	}()
	return rule.Validate(entity, sink)
}
