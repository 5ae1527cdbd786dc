package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Source supplies the bulk snapshot the index is built from.
// Implemented by sqlitesource (production) and by in-memory snapshots
// in tests and harness scenarios.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}

// AimBundle is the full record family for one learning-aim reference.
// Slices are never nil after Build, so callers range without guards.
type AimBundle struct {
	Aim              Aim
	AnnualValues     []AnnualValue
	FrameworkAims    []FrameworkAim
	CommonComponents []CommonComponent
	Categories       []Category
	Validities       []Validity
}

// StandardBundle is the full record family for one standard code.
type StandardBundle struct {
	Standard   Standard
	Fundings   []StandardFunding
	Validities []StandardValidity
}

// Index is the frozen temporal reference index.
//
// INVARIANTS:
//   - Never mutated after Build returns.
//   - Safe for unbounded concurrent reads.
//   - Every operation is total: unknown keys answer "absent", never panic.
type Index struct {
	aims      map[string]*AimBundle
	standards map[int]*StandardBundle
}

// normalizeAimRef canonicalizes aim-reference keys. Aim references are
// case-insensitive in the source data.
func normalizeAimRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// Build constructs a frozen index from a snapshot.
//
// Duplicate primary keys are a fatal BuildError - uniqueness is assumed
// by every downstream predicate, so a duplicate must stop the run rather
// than silently shadow a record. Child records for unknown parents are
// tolerated and indexed under their own key; the original source carries
// such rows and the rules treat them as ordinary bundle members.
func Build(snap Snapshot) (*Index, error) {
	idx := &Index{
		aims:      make(map[string]*AimBundle, len(snap.Aims)),
		standards: make(map[int]*StandardBundle, len(snap.Standards)),
	}

	for _, aim := range snap.Aims {
		key := normalizeAimRef(aim.LearnAimRef)
		if _, exists := idx.aims[key]; exists {
			return nil, newDuplicateAimError(aim.LearnAimRef)
		}
		if aim.StartDate.IsZero() {
			return nil, &BuildError{
				Code:    ErrCodeMissingStartDate,
				Message: "aim record has no start date",
				Key:     aim.LearnAimRef,
			}
		}
		idx.aims[key] = &AimBundle{
			Aim:              aim,
			AnnualValues:     []AnnualValue{},
			FrameworkAims:    []FrameworkAim{},
			CommonComponents: []CommonComponent{},
			Categories:       []Category{},
			Validities:       []Validity{},
		}
	}

	for _, std := range snap.Standards {
		if _, exists := idx.standards[std.StdCode]; exists {
			return nil, newDuplicateStandardError(std.StdCode)
		}
		if std.StartDate.IsZero() {
			return nil, &BuildError{
				Code:    ErrCodeMissingStartDate,
				Message: "standard record has no start date",
				Key:     fmt.Sprintf("%d", std.StdCode),
			}
		}
		idx.standards[std.StdCode] = &StandardBundle{
			Standard:   std,
			Fundings:   []StandardFunding{},
			Validities: []StandardValidity{},
		}
	}

	for _, av := range snap.AnnualValues {
		if b := idx.aimBundle(av.LearnAimRef); b != nil {
			b.AnnualValues = append(b.AnnualValues, av)
		}
	}
	for _, fa := range snap.FrameworkAims {
		if b := idx.aimBundle(fa.LearnAimRef); b != nil {
			b.FrameworkAims = append(b.FrameworkAims, fa)
		}
	}
	for _, cc := range snap.CommonComponents {
		if b := idx.aimBundle(cc.LearnAimRef); b != nil {
			b.CommonComponents = append(b.CommonComponents, cc)
		}
	}
	for _, cat := range snap.Categories {
		if b := idx.aimBundle(cat.LearnAimRef); b != nil {
			b.Categories = append(b.Categories, cat)
		}
	}
	for _, v := range snap.Validities {
		if b := idx.aimBundle(v.LearnAimRef); b != nil {
			b.Validities = append(b.Validities, v)
		}
	}
	for _, sf := range snap.StandardFundings {
		if b, ok := idx.standards[sf.StdCode]; ok {
			b.Fundings = append(b.Fundings, sf)
		}
	}
	for _, sv := range snap.StandardValidities {
		if b, ok := idx.standards[sv.StdCode]; ok {
			b.Validities = append(b.Validities, sv)
		}
	}

	slog.Info("reference index built",
		"aims", len(idx.aims),
		"standards", len(idx.standards),
	)

	return idx, nil
}

// BuildFromSource loads a snapshot from src and builds the index.
func BuildFromSource(ctx context.Context, src Source) (*Index, error) {
	snap, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference snapshot: %w", err)
	}
	return Build(snap)
}

// aimBundle returns the mutable bundle during Build. Never used after
// Build returns.
func (ix *Index) aimBundle(ref string) *AimBundle {
	return ix.aims[normalizeAimRef(ref)]
}

// Lookup returns the record bundle for an aim reference.
// Unknown references return (nil, false); callers that only need
// predicate answers should prefer the derived operations, which are
// total over unknown keys.
func (ix *Index) Lookup(learnAimRef string) (*AimBundle, bool) {
	b, ok := ix.aims[normalizeAimRef(learnAimRef)]
	return b, ok
}

// StandardLookup returns the record bundle for a standard code.
func (ix *Index) StandardLookup(stdCode int) (*StandardBundle, bool) {
	b, ok := ix.standards[stdCode]
	return b, ok
}

// AimCount returns the number of indexed aim references.
func (ix *Index) AimCount() int { return len(ix.aims) }

// StandardCount returns the number of indexed standards.
func (ix *Index) StandardCount() int { return len(ix.standards) }
