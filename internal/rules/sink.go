package rules

import "sync"

// Sink is the append-only finding collector for one batch.
//
// It is the single shared mutable resource in the pipeline: rules only
// read the entity graph and the frozen index, and append here. Scoped to
// exactly one batch - never reuse a sink across runs.
//
// Thread-safety model:
//   - Emit / RecordDefect: safe from any goroutine
//   - Findings / Defects: return copies; safe to call while appends are
//     in flight, though callers normally drain after Execute returns
type Sink struct {
	mu       sync.Mutex
	clock    *Clock
	findings []stamped[Finding]
	defects  []stamped[Defect]
}

// Defect records a rule execution fault, tagged so a malfunctioning rule
// is never confused with a legitimate compliance finding.
type Defect struct {
	RuleID    string
	EntityKey string
	Err       error
}

type stamped[T any] struct {
	seq int64
	val T
}

// NewSink creates an empty sink for one batch.
func NewSink() *Sink {
	return &Sink{clock: NewClock()}
}

// Emit appends a finding. Safe for concurrent use.
func (s *Sink) Emit(f Finding) {
	seq := s.clock.Next()
	s.mu.Lock()
	s.findings = append(s.findings, stamped[Finding]{seq: seq, val: f})
	s.mu.Unlock()
}

// RecordDefect appends a rule execution defect. Defects are kept apart
// from findings; draining one never drains the other.
func (s *Sink) RecordDefect(d Defect) {
	seq := s.clock.Next()
	s.mu.Lock()
	s.defects = append(s.defects, stamped[Defect]{seq: seq, val: d})
	s.mu.Unlock()
}

// Findings returns the collected findings in arrival order.
func (s *Sink) Findings() []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Finding, len(s.findings))
	for i, f := range s.findings {
		out[i] = f.val
	}
	return out
}

// Defects returns the collected defects in arrival order.
func (s *Sink) Defects() []Defect {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Defect, len(s.defects))
	for i, d := range s.defects {
		out[i] = d.val
	}
	return out
}

// Len returns the number of collected findings.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.findings)
}

// DefectCount returns the number of recorded defects.
func (s *Sink) DefectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.defects)
}
