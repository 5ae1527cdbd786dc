package refdata

import "time"

// Derived predicate operations over the aim side of the index.
//
// All operations are total and side-effect-free. Composite-key
// predicates AND independent equality tests on every supplied key
// component, then apply the currency check to the matched records; a
// mismatch on any component is a definite false, never a skip.
//
// Optional entity fields arrive as pointers: a nil component means the
// entity did not supply it, and predicates that require the component
// answer false for nil (absent is not a match).

// AimExists reports whether the aim reference is known to the index.
func (ix *Index) AimExists(learnAimRef string) bool {
	_, ok := ix.Lookup(learnAimRef)
	return ok
}

// AimType returns the aim-reference type for a known aim, or "" when the
// aim is unknown.
func (ix *Index) AimType(learnAimRef string) string {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return ""
	}
	return b.Aim.LearnAimRefType
}

// AimCurrentOn reports whether the aim's own effective period covers on.
func (ix *Index) AimCurrentOn(learnAimRef string, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	return ok && b.Aim.Contains(on)
}

// StartAfterAimEffectiveTo reports whether start falls strictly after
// the aim's effective end. An open-ended or unknown aim answers false.
func (ix *Index) StartAfterAimEffectiveTo(learnAimRef string, start time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok || b.Aim.EndDate == nil || b.Aim.Withdrawn() {
		return false
	}
	return start.After(*b.Aim.EndDate)
}

// HasAnyCategory reports whether the aim carries the category reference,
// regardless of the category record's currency.
func (ix *Index) HasAnyCategory(learnAimRef string, categoryRef int) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, c := range b.Categories {
		if c.CategoryRef == categoryRef {
			return true
		}
	}
	return false
}

// HasCategoryOn reports whether the aim carries the category reference
// with a category record current on the given date.
func (ix *Index) HasCategoryOn(learnAimRef string, categoryRef int, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, c := range b.Categories {
		if c.CategoryRef == categoryRef && c.Contains(on) {
			return true
		}
	}
	return false
}

// HasValidityCategory reports whether any validity record for the aim
// carries the given category, current or not.
func (ix *Index) HasValidityCategory(learnAimRef, category string) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, v := range b.Validities {
		if v.ValidityCategory == category {
			return true
		}
	}
	return false
}

// ValidityCategoryCurrentOn reports whether a validity record with the
// given category is current on the given date. Withdrawn validities are
// never current.
func (ix *Index) ValidityCategoryCurrentOn(learnAimRef, category string, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, v := range b.Validities {
		if v.ValidityCategory == category && v.Contains(on) {
			return true
		}
	}
	return false
}

// LastNewStartBefore reports whether every current validity record for
// the category closed to new starts before the given start date.
// Answers false when no validity record carries the category.
func (ix *Index) LastNewStartBefore(learnAimRef, category string, start time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	found := false
	for _, v := range b.Validities {
		if v.ValidityCategory != category || v.Withdrawn() {
			continue
		}
		found = true
		if v.LastNewStartDate == nil || !v.LastNewStartDate.Before(start) {
			return false
		}
	}
	return found
}

// OrigStartWithinValidity reports whether origStart falls inside a
// current validity period for the category. A nil origStart answers
// false: absent is not a match.
func (ix *Index) OrigStartWithinValidity(learnAimRef, category string, origStart *time.Time) bool {
	if origStart == nil {
		return false
	}
	return ix.ValidityCategoryCurrentOn(learnAimRef, category, *origStart)
}

// HasFrameworkCode reports whether a framework aim exists matching the
// full composite key (progType, fworkCode, pwayCode) AND is current on
// the given date. A nil key component is a definite false.
func (ix *Index) HasFrameworkCode(learnAimRef string, progType, fworkCode, pwayCode *int, on time.Time) bool {
	if progType == nil || fworkCode == nil || pwayCode == nil {
		return false
	}
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, fa := range b.FrameworkAims {
		if fa.ProgType == *progType && fa.FworkCode == *fworkCode && fa.PwayCode == *pwayCode && fa.Contains(on) {
			return true
		}
	}
	return false
}

// FrameworkAimsFor returns every framework-aim record matching the
// composite key, current or not. Unknown keys return an empty slice.
func (ix *Index) FrameworkAimsFor(learnAimRef string, progType, fworkCode, pwayCode *int) []FrameworkAim {
	matched := []FrameworkAim{}
	if progType == nil || fworkCode == nil || pwayCode == nil {
		return matched
	}
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return matched
	}
	for _, fa := range b.FrameworkAims {
		if fa.ProgType == *progType && fa.FworkCode == *fworkCode && fa.PwayCode == *pwayCode {
			matched = append(matched, fa)
		}
	}
	return matched
}

// StartAfterFrameworkEffectiveTo reports whether start falls strictly
// after the effective end of EVERY framework aim matching the composite
// key. Answers false when no framework aim matches or any match is
// open-ended.
func (ix *Index) StartAfterFrameworkEffectiveTo(learnAimRef string, progType, fworkCode, pwayCode *int, start time.Time) bool {
	matched := ix.FrameworkAimsFor(learnAimRef, progType, fworkCode, pwayCode)
	if len(matched) == 0 {
		return false
	}
	for _, fa := range matched {
		if fa.Withdrawn() {
			continue
		}
		if fa.EndDate == nil || !start.After(*fa.EndDate) {
			return false
		}
	}
	return true
}

// HasCommonComponent reports whether the aim's framework common
// component appears as a common-component record under the composite
// framework key, current on the given date.
func (ix *Index) HasCommonComponent(learnAimRef string, progType, fworkCode, pwayCode *int, on time.Time) bool {
	if progType == nil || fworkCode == nil || pwayCode == nil {
		return false
	}
	b, ok := ix.Lookup(learnAimRef)
	if !ok || b.Aim.FrameworkCommonComponent == nil {
		return false
	}
	want := *b.Aim.FrameworkCommonComponent
	for _, cc := range b.CommonComponents {
		if cc.CommonComponent == want &&
			cc.ProgType == *progType && cc.FworkCode == *fworkCode && cc.PwayCode == *pwayCode &&
			cc.Contains(on) {
			return true
		}
	}
	return false
}

// NotionalLevelMatches reports whether the aim's notional NVQ level
// equals level exactly.
func (ix *Index) NotionalLevelMatches(learnAimRef, level string) bool {
	b, ok := ix.Lookup(learnAimRef)
	return ok && b.Aim.NotionalNVQLevel == level
}

// NotionalLevelV2In reports whether the aim's v2 notional NVQ level is
// one of levels.
func (ix *Index) NotionalLevelV2In(learnAimRef string, levels ...string) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, lv := range levels {
		if b.Aim.NotionalNVQLevelV2 == lv {
			return true
		}
	}
	return false
}

// LearnDirectClassCode2Match reports whether the aim's learn-direct
// class system code 2 equals code.
func (ix *Index) LearnDirectClassCode2Match(learnAimRef, code string) bool {
	b, ok := ix.Lookup(learnAimRef)
	return ok && b.Aim.LearnDirectClassSystemCode2 == code
}

// HasKnownLearnDirectClassCode3 reports whether the aim carries a
// non-empty, non-placeholder learn-direct class system code 3.
func (ix *Index) HasKnownLearnDirectClassCode3(learnAimRef string) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	c := b.Aim.LearnDirectClassSystemCode3
	return c != "" && c != "NUL"
}

// EnglishPrescribedIDIn reports whether the aim's English prescribed ID
// is one of ids. An absent ID answers false.
func (ix *Index) EnglishPrescribedIDIn(learnAimRef string, ids ...int) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok || b.Aim.EnglPrscID == nil {
		return false
	}
	for _, id := range ids {
		if *b.Aim.EnglPrscID == id {
			return true
		}
	}
	return false
}

// SectorSubjectAreaTier2Is reports whether the aim's tier-2 sector
// subject area equals tier exactly. An absent tier answers false.
func (ix *Index) SectorSubjectAreaTier2Is(learnAimRef string, tier float64) bool {
	b, ok := ix.Lookup(learnAimRef)
	return ok && b.Aim.SectorSubjectAreaTier2 != nil && *b.Aim.SectorSubjectAreaTier2 == tier
}

// BasicSkillsMatchOn reports whether an annual-value record current on
// the given date carries the basic-skills marker.
func (ix *Index) BasicSkillsMatchOn(learnAimRef string, basicSkills int, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, av := range b.AnnualValues {
		if av.BasicSkills != nil && *av.BasicSkills == basicSkills && av.Contains(on) {
			return true
		}
	}
	return false
}

// BasicSkillsTypeInOn reports whether an annual-value record current on
// the given date carries one of the basic-skills types.
func (ix *Index) BasicSkillsTypeInOn(learnAimRef string, types []int, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, av := range b.AnnualValues {
		if av.BasicSkillsType == nil || !av.Contains(on) {
			continue
		}
		for _, t := range types {
			if *av.BasicSkillsType == t {
				return true
			}
		}
	}
	return false
}

// FullLevel2EntitlementOn reports whether an annual-value record current
// on the given date carries the full level 2 entitlement category.
func (ix *Index) FullLevel2EntitlementOn(learnAimRef string, category int, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, av := range b.AnnualValues {
		if av.FullLevel2EntitlementCategory != nil && *av.FullLevel2EntitlementCategory == category && av.Contains(on) {
			return true
		}
	}
	return false
}

// FullLevel3EntitlementOn reports whether an annual-value record current
// on the given date carries the full level 3 entitlement category.
func (ix *Index) FullLevel3EntitlementOn(learnAimRef string, category int, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, av := range b.AnnualValues {
		if av.FullLevel3EntitlementCategory != nil && *av.FullLevel3EntitlementCategory == category && av.Contains(on) {
			return true
		}
	}
	return false
}

// FullLevel3PercentOn reports whether an annual-value record current on
// the given date carries exactly the full level 3 percent value.
func (ix *Index) FullLevel3PercentOn(learnAimRef string, percent int, on time.Time) bool {
	b, ok := ix.Lookup(learnAimRef)
	if !ok {
		return false
	}
	for _, av := range b.AnnualValues {
		if av.FullLevel3Percent != nil && *av.FullLevel3Percent == percent && av.Contains(on) {
			return true
		}
	}
	return false
}
