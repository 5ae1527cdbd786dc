// Package catalog loads and validates the rule-catalog manifest.
//
// The manifest is a CUE file describing every rule in the catalogue:
// id, severity, category, and profile membership. The compiled
// registration table in rulepack remains the source of truth for which
// rules exist; the manifest carries the metadata the code does not, and
// Verify cross-checks the two so they can never drift apart. This
// replaces the original system's reflection-over-assembly consistency
// checks with a load-time validation.
package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	_ "embed"
)

//go:embed schema.cue
var schemaCUE string

//go:embed default.cue
var defaultCUE []byte

// Default parses the embedded manifest for the compiled rule pack.
func Default() (*Catalog, error) {
	return Parse(defaultCUE)
}

// Severity classifies a rule's findings for downstream reporting.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
	SeverityFail    Severity = "Fail"
)

// Entry is one rule's manifest record.
type Entry struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Profiles []string `json:"profiles"`
}

// Catalog is a validated manifest, indexed by rule ID.
type Catalog struct {
	Entries []Entry
	byID    map[string]Entry
}

// Load reads and validates a manifest file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse validates manifest bytes against the embedded schema and
// decodes the entries. Schema violations are load-time errors, never
// deferred to rule resolution.
func Parse(data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	manifest := ctx.CompileBytes(data, cue.Filename("catalog.cue"))
	if err := manifest.Err(); err != nil {
		return nil, fmt.Errorf("compile manifest: %w", err)
	}

	unified := schema.Unify(manifest)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("manifest does not satisfy schema: %w", err)
	}

	var decoded struct {
		Catalog []Entry `json:"catalog"`
	}
	if err := unified.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	cat := &Catalog{
		Entries: decoded.Catalog,
		byID:    make(map[string]Entry, len(decoded.Catalog)),
	}
	for _, e := range decoded.Catalog {
		if _, dup := cat.byID[e.ID]; dup {
			return nil, fmt.Errorf("manifest lists rule %q twice", e.ID)
		}
		cat.byID[e.ID] = e
	}
	return cat, nil
}

// Entry returns the manifest record for a rule ID.
func (c *Catalog) Entry(id string) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Len returns the number of manifest entries.
func (c *Catalog) Len() int { return len(c.Entries) }

// Verify cross-checks the manifest against the registered rule IDs in
// both directions: every registered rule must have a manifest entry and
// every manifest entry must name a registered rule. Either gap is a
// startup-fatal error.
func (c *Catalog) Verify(registeredIDs []string) error {
	registered := make(map[string]bool, len(registeredIDs))
	for _, id := range registeredIDs {
		registered[id] = true
		if _, ok := c.byID[id]; !ok {
			return fmt.Errorf("rule %q is registered but missing from the manifest", id)
		}
	}
	for _, e := range c.Entries {
		if !registered[e.ID] {
			return fmt.Errorf("manifest entry %q does not match any registered rule", e.ID)
		}
	}
	return nil
}
