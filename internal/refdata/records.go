// Package refdata implements the temporal reference index queried by
// validation rules.
//
// The index is built once per run from a bulk snapshot of LARS-style
// qualification and funding metadata, then frozen. After Build returns,
// the index is immutable and safe for unbounded concurrent reads with no
// synchronization. Every lookup and predicate is total: unknown keys
// yield the "absent" answer (false, empty), never nil and never a panic.
//
// TEMPORAL MODEL:
//
// Every record family member is bounded by a Period. A record whose
// EndDate precedes its StartDate is WITHDRAWN - a deliberate soft-delete
// signal in the source data - and is never current for any query date,
// including its own StartDate. A non-withdrawn record with a nil EndDate
// is open-ended: current for any date on or after StartDate.
package refdata

import "time"

// Period bounds a reference record in time.
// StartDate is required; a nil EndDate means open-ended.
type Period struct {
	StartDate time.Time
	EndDate   *time.Time
}

// Withdrawn reports whether the record was soft-deleted at source.
// A withdrawn record is never current for any query date.
func (p Period) Withdrawn() bool {
	return p.EndDate != nil && p.EndDate.Before(p.StartDate)
}

// Contains reports whether on falls within [StartDate, EndDate],
// honouring the withdrawal convention. EndDate is inclusive.
func (p Period) Contains(on time.Time) bool {
	if p.Withdrawn() {
		return false
	}
	if on.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !on.After(*p.EndDate)
}

// ContainsUntil is Contains with the end bound replaced by endOverride
// when endOverride is non-nil. Withdrawal still dominates: a withdrawn
// record is false regardless of the override.
func (p Period) ContainsUntil(on time.Time, endOverride *time.Time) bool {
	if endOverride == nil {
		return p.Contains(on)
	}
	if p.Withdrawn() {
		return false
	}
	if on.Before(p.StartDate) {
		return false
	}
	return !on.After(*endOverride)
}

// Aim is the learning-delivery metadata record for one aim reference.
// Effective bounds live in Period; the remaining fields are queried by
// the derived predicates.
type Aim struct {
	Period
	LearnAimRef              string
	LearnAimRefTitle         string
	LearnAimRefType          string
	NotionalNVQLevel         string
	NotionalNVQLevelV2       string
	LearnDirectClassSystemCode1 string
	LearnDirectClassSystemCode2 string
	LearnDirectClassSystemCode3 string
	FrameworkCommonComponent *int
	EnglPrscID               *int
	SectorSubjectAreaTier1   *float64
	SectorSubjectAreaTier2   *float64
}

// AnnualValue carries year-banded funding attributes for an aim.
type AnnualValue struct {
	Period
	LearnAimRef                string
	BasicSkills                *int
	BasicSkillsType            *int
	FullLevel2EntitlementCategory *int
	FullLevel3EntitlementCategory *int
	FullLevel3Percent          *int
}

// FrameworkAim links an aim into an apprenticeship framework.
// The composite key is (LearnAimRef, ProgType, FworkCode, PwayCode).
type FrameworkAim struct {
	Period
	LearnAimRef            string
	ProgType               int
	FworkCode              int
	PwayCode               int
	FrameworkComponentType *int
}

// CommonComponent is a framework common component entry for an aim.
type CommonComponent struct {
	Period
	LearnAimRef     string
	CommonComponent int
	ProgType        int
	FworkCode       int
	PwayCode        int
}

// Category tags an aim with a learning category reference.
type Category struct {
	Period
	LearnAimRef string
	CategoryRef int
}

// Validity is a delivery-validity period for an aim under one funding
// category. LastNewStart, when set, caps the date from which new starts
// are accepted.
type Validity struct {
	Period
	LearnAimRef      string
	ValidityCategory string
	LastNewStartDate *time.Time
}

// Standard is an apprenticeship standard record keyed by StdCode.
type Standard struct {
	Period
	StdCode             int
	StandardSectorCode  string
	NotionalEndLevel    string
}

// StandardFunding is a funding band for a standard.
type StandardFunding struct {
	Period
	StdCode                int
	FundableWithoutEmployer string
	CoreGovContributionCap  *int
}

// StandardValidity is a validity period for a standard under one category.
type StandardValidity struct {
	Period
	StdCode          int
	ValidityCategory string
	LastNewStartDate *time.Time
}

// Snapshot is the bulk input to Build: the full record family as
// retrieved from the source-of-record. Retrieval itself is an external
// collaborator behind the Source interface.
type Snapshot struct {
	Aims               []Aim
	AnnualValues       []AnnualValue
	FrameworkAims      []FrameworkAim
	CommonComponents   []CommonComponent
	Categories         []Category
	Validities         []Validity
	Standards          []Standard
	StandardFundings   []StandardFunding
	StandardValidities []StandardValidity
}
