package sqlitesource

import (
	"context"
	"fmt"
	"time"

	"github.com/larkhall/sift/internal/refdata"
)

// Seed writes a snapshot into the database, replacing any existing
// rows. Used by fixture tooling and tests; the production snapshot is
// produced by the upstream bulk-retrieval job against the same schema.
func (s *Source) Seed(ctx context.Context, snap refdata.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{
		"lars_aim", "lars_annual_value", "lars_framework_aim",
		"lars_common_component", "lars_category", "lars_validity",
		"lars_standard", "lars_standard_funding", "lars_standard_validity",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, a := range snap.Aims {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_aim (learn_aim_ref, title, aim_type,
				notional_nvq_level, notional_nvq_level_v2,
				learn_direct_1, learn_direct_2, learn_direct_3,
				framework_common_component, engl_prsc_id,
				sector_subject_tier1, sector_subject_tier2,
				start_date, end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.LearnAimRef, a.LearnAimRefTitle, a.LearnAimRefType,
			a.NotionalNVQLevel, a.NotionalNVQLevelV2,
			a.LearnDirectClassSystemCode1, a.LearnDirectClassSystemCode2,
			a.LearnDirectClassSystemCode3,
			nullableInt(a.FrameworkCommonComponent), nullableInt(a.EnglPrscID),
			nullableFloat(a.SectorSubjectAreaTier1), nullableFloat(a.SectorSubjectAreaTier2),
			formatDate(a.StartDate), nullableDate(a.EndDate)); err != nil {
			return fmt.Errorf("seed aim %s: %w", a.LearnAimRef, err)
		}
	}

	for _, av := range snap.AnnualValues {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_annual_value (learn_aim_ref, basic_skills,
				basic_skills_type, full_level2_entitlement,
				full_level3_entitlement, full_level3_percent,
				start_date, end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			av.LearnAimRef, nullableInt(av.BasicSkills), nullableInt(av.BasicSkillsType),
			nullableInt(av.FullLevel2EntitlementCategory),
			nullableInt(av.FullLevel3EntitlementCategory),
			nullableInt(av.FullLevel3Percent),
			formatDate(av.StartDate), nullableDate(av.EndDate)); err != nil {
			return fmt.Errorf("seed annual value %s: %w", av.LearnAimRef, err)
		}
	}

	for _, fa := range snap.FrameworkAims {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_framework_aim (learn_aim_ref, prog_type,
				fwork_code, pway_code, component_type, start_date, end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fa.LearnAimRef, fa.ProgType, fa.FworkCode, fa.PwayCode,
			nullableInt(fa.FrameworkComponentType),
			formatDate(fa.StartDate), nullableDate(fa.EndDate)); err != nil {
			return fmt.Errorf("seed framework aim %s: %w", fa.LearnAimRef, err)
		}
	}

	for _, cc := range snap.CommonComponents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_common_component (learn_aim_ref, common_component,
				prog_type, fwork_code, pway_code, start_date, end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			cc.LearnAimRef, cc.CommonComponent, cc.ProgType, cc.FworkCode,
			cc.PwayCode, formatDate(cc.StartDate), nullableDate(cc.EndDate)); err != nil {
			return fmt.Errorf("seed common component %s: %w", cc.LearnAimRef, err)
		}
	}

	for _, c := range snap.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_category (learn_aim_ref, category_ref, start_date, end_date)
			VALUES (?, ?, ?, ?)`,
			c.LearnAimRef, c.CategoryRef, formatDate(c.StartDate), nullableDate(c.EndDate)); err != nil {
			return fmt.Errorf("seed category %s: %w", c.LearnAimRef, err)
		}
	}

	for _, v := range snap.Validities {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_validity (learn_aim_ref, validity_category,
				last_new_start_date, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`,
			v.LearnAimRef, v.ValidityCategory, nullableDate(v.LastNewStartDate),
			formatDate(v.StartDate), nullableDate(v.EndDate)); err != nil {
			return fmt.Errorf("seed validity %s: %w", v.LearnAimRef, err)
		}
	}

	for _, std := range snap.Standards {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_standard (std_code, sector_code,
				notional_end_level, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`,
			std.StdCode, std.StandardSectorCode, std.NotionalEndLevel,
			formatDate(std.StartDate), nullableDate(std.EndDate)); err != nil {
			return fmt.Errorf("seed standard %d: %w", std.StdCode, err)
		}
	}

	for _, sf := range snap.StandardFundings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_standard_funding (std_code, fundable_without_employer,
				core_gov_contribution_cap, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`,
			sf.StdCode, sf.FundableWithoutEmployer, nullableInt(sf.CoreGovContributionCap),
			formatDate(sf.StartDate), nullableDate(sf.EndDate)); err != nil {
			return fmt.Errorf("seed standard funding %d: %w", sf.StdCode, err)
		}
	}

	for _, sv := range snap.StandardValidities {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lars_standard_validity (std_code, validity_category,
				last_new_start_date, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`,
			sv.StdCode, sv.ValidityCategory, nullableDate(sv.LastNewStartDate),
			formatDate(sv.StartDate), nullableDate(sv.EndDate)); err != nil {
			return fmt.Errorf("seed standard validity %d: %w", sv.StdCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
