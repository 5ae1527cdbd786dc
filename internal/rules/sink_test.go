package rules

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Emit(t *testing.T) {
	s := NewSink()

	s.Emit(NewFinding("ULN_03", "L001"))
	s.Emit(NewDeliveryFinding("LearnAimRef_01", "L001", 1))

	findings := s.Findings()
	require.Len(t, findings, 2)
	assert.Equal(t, "ULN_03", findings[0].RuleID)
	assert.Equal(t, "LearnAimRef_01", findings[1].RuleID)
	assert.Equal(t, 2, s.Len())
}

func TestSink_DefectsKeptApartFromFindings(t *testing.T) {
	s := NewSink()

	s.Emit(NewFinding("ULN_03", "L001"))
	s.RecordDefect(Defect{
		RuleID:    "LearnAimRef_01",
		EntityKey: "L002",
		Err:       errors.New("boom"),
	})

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.DefectCount())

	defects := s.Defects()
	require.Len(t, defects, 1)
	assert.Equal(t, "LearnAimRef_01", defects[0].RuleID)
	assert.Equal(t, "L002", defects[0].EntityKey)
}

func TestSink_FindingsReturnsCopy(t *testing.T) {
	s := NewSink()
	s.Emit(NewFinding("ULN_03", "L001"))

	first := s.Findings()
	first[0].RuleID = "mutated"

	assert.Equal(t, "ULN_03", s.Findings()[0].RuleID)
}

func TestSink_ConcurrentEmit(t *testing.T) {
	s := NewSink()
	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				s.Emit(NewFinding("ULN_03", fmt.Sprintf("L%03d-%d", id, j)))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, s.Len(), "no emission may be lost")

	// Every emitted finding arrives exactly once.
	seen := make(map[string]bool)
	for _, f := range s.Findings() {
		assert.False(t, seen[f.EntityKey], "finding %s collected twice", f.EntityKey)
		seen[f.EntityKey] = true
	}
}
