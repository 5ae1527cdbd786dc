package refdata

import "time"

// Derived predicate operations over the standard side of the index.

// ContainsStandardFor reports whether the standard code is known to the
// index. A nil code is a definite false.
func (ix *Index) ContainsStandardFor(stdCode *int) bool {
	if stdCode == nil {
		return false
	}
	_, ok := ix.standards[*stdCode]
	return ok
}

// StandardExistsOn reports whether the standard is current on the given
// date. Withdrawn standards are never current.
func (ix *Index) StandardExistsOn(stdCode *int, on time.Time) bool {
	if stdCode == nil {
		return false
	}
	b, ok := ix.standards[*stdCode]
	return ok && b.Standard.Contains(on)
}

// StartAfterStandardEffectiveTo reports whether start falls strictly
// after the standard's effective end. Open-ended or unknown standards
// answer false.
func (ix *Index) StartAfterStandardEffectiveTo(stdCode *int, start time.Time) bool {
	if stdCode == nil {
		return false
	}
	b, ok := ix.standards[*stdCode]
	if !ok || b.Standard.EndDate == nil || b.Standard.Withdrawn() {
		return false
	}
	return start.After(*b.Standard.EndDate)
}

// StandardFundingOn returns the funding band current on the given date,
// if any. At most one band is current per standard per date in source
// data; the first current match wins.
func (ix *Index) StandardFundingOn(stdCode *int, on time.Time) (StandardFunding, bool) {
	if stdCode == nil {
		return StandardFunding{}, false
	}
	b, ok := ix.standards[*stdCode]
	if !ok {
		return StandardFunding{}, false
	}
	for _, sf := range b.Fundings {
		if sf.Contains(on) {
			return sf, true
		}
	}
	return StandardFunding{}, false
}

// StandardValidityCategoryCurrentOn reports whether a standard validity
// record with the given category is current on the given date.
func (ix *Index) StandardValidityCategoryCurrentOn(stdCode *int, category string, on time.Time) bool {
	if stdCode == nil {
		return false
	}
	b, ok := ix.standards[*stdCode]
	if !ok {
		return false
	}
	for _, sv := range b.Validities {
		if sv.ValidityCategory == category && sv.Contains(on) {
			return true
		}
	}
	return false
}

// StandardLastNewStartBefore reports whether every current standard
// validity for the category closed to new starts before start.
// Answers false when no validity carries the category.
func (ix *Index) StandardLastNewStartBefore(stdCode *int, category string, start time.Time) bool {
	if stdCode == nil {
		return false
	}
	b, ok := ix.standards[*stdCode]
	if !ok {
		return false
	}
	found := false
	for _, sv := range b.Validities {
		if sv.ValidityCategory != category || sv.Withdrawn() {
			continue
		}
		found = true
		if sv.LastNewStartDate == nil || !sv.LastNewStartDate.Before(start) {
			return false
		}
	}
	return found
}

// NotionalEndLevelMatches reports whether the standard's notional end
// level equals level exactly.
func (ix *Index) NotionalEndLevelMatches(stdCode *int, level string) bool {
	if stdCode == nil {
		return false
	}
	b, ok := ix.standards[*stdCode]
	return ok && b.Standard.NotionalEndLevel == level
}
