// Package sqlitesource reads a reference snapshot from a SQLite file.
//
// The snapshot database is produced upstream by the bulk-retrieval job;
// this package is the read side only. It implements refdata.Source, so
// a run does Open -> refdata.BuildFromSource -> Close and never touches
// the file again.
package sqlitesource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/larkhall/sift/internal/refdata"
)

//go:embed schema.sql
var schemaSQL string

// Source is a SQLite-backed reference snapshot.
type Source struct {
	db *sql.DB
}

// Open opens a snapshot database at the given path, creating the
// schema if absent. The file is read once per run, so the connection
// pool is kept at a single connection.
func Open(path string) (*Source, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to snapshot database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}

	return &Source{db: db}, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the full record family into a refdata.Snapshot.
func (s *Source) Load(ctx context.Context) (refdata.Snapshot, error) {
	var snap refdata.Snapshot
	var err error

	if snap.Aims, err = s.loadAims(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load aims: %w", err)
	}
	if snap.AnnualValues, err = s.loadAnnualValues(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load annual values: %w", err)
	}
	if snap.FrameworkAims, err = s.loadFrameworkAims(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load framework aims: %w", err)
	}
	if snap.CommonComponents, err = s.loadCommonComponents(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load common components: %w", err)
	}
	if snap.Categories, err = s.loadCategories(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load categories: %w", err)
	}
	if snap.Validities, err = s.loadValidities(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load validities: %w", err)
	}
	if snap.Standards, err = s.loadStandards(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load standards: %w", err)
	}
	if snap.StandardFundings, err = s.loadStandardFundings(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load standard fundings: %w", err)
	}
	if snap.StandardValidities, err = s.loadStandardValidities(ctx); err != nil {
		return refdata.Snapshot{}, fmt.Errorf("load standard validities: %w", err)
	}

	return snap, nil
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseOptDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func optFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func scanPeriod(start string, end sql.NullString) (refdata.Period, error) {
	sd, err := parseDate(start)
	if err != nil {
		return refdata.Period{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	ed, err := parseOptDate(end)
	if err != nil {
		return refdata.Period{}, fmt.Errorf("parse end date: %w", err)
	}
	return refdata.Period{StartDate: sd, EndDate: ed}, nil
}

func (s *Source) loadAims(ctx context.Context) ([]refdata.Aim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learn_aim_ref, title, aim_type, notional_nvq_level,
		       notional_nvq_level_v2, learn_direct_1, learn_direct_2,
		       learn_direct_3, framework_common_component, engl_prsc_id,
		       sector_subject_tier1, sector_subject_tier2,
		       start_date, end_date
		FROM lars_aim`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aims []refdata.Aim
	for rows.Next() {
		var (
			a          refdata.Aim
			fcc, engl  sql.NullInt64
			t1, t2     sql.NullFloat64
			start      string
			end        sql.NullString
		)
		if err := rows.Scan(&a.LearnAimRef, &a.LearnAimRefTitle, &a.LearnAimRefType,
			&a.NotionalNVQLevel, &a.NotionalNVQLevelV2,
			&a.LearnDirectClassSystemCode1, &a.LearnDirectClassSystemCode2,
			&a.LearnDirectClassSystemCode3, &fcc, &engl, &t1, &t2,
			&start, &end); err != nil {
			return nil, err
		}
		if a.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("aim %s: %w", a.LearnAimRef, err)
		}
		a.FrameworkCommonComponent = optInt(fcc)
		a.EnglPrscID = optInt(engl)
		a.SectorSubjectAreaTier1 = optFloat(t1)
		a.SectorSubjectAreaTier2 = optFloat(t2)
		aims = append(aims, a)
	}
	return aims, rows.Err()
}

func (s *Source) loadAnnualValues(ctx context.Context) ([]refdata.AnnualValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learn_aim_ref, basic_skills, basic_skills_type,
		       full_level2_entitlement, full_level3_entitlement,
		       full_level3_percent, start_date, end_date
		FROM lars_annual_value`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []refdata.AnnualValue
	for rows.Next() {
		var (
			av                 refdata.AnnualValue
			bs, bst, l2, l3, p sql.NullInt64
			start              string
			end                sql.NullString
		)
		if err := rows.Scan(&av.LearnAimRef, &bs, &bst, &l2, &l3, &p, &start, &end); err != nil {
			return nil, err
		}
		if av.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("annual value %s: %w", av.LearnAimRef, err)
		}
		av.BasicSkills = optInt(bs)
		av.BasicSkillsType = optInt(bst)
		av.FullLevel2EntitlementCategory = optInt(l2)
		av.FullLevel3EntitlementCategory = optInt(l3)
		av.FullLevel3Percent = optInt(p)
		values = append(values, av)
	}
	return values, rows.Err()
}

func (s *Source) loadFrameworkAims(ctx context.Context) ([]refdata.FrameworkAim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learn_aim_ref, prog_type, fwork_code, pway_code,
		       component_type, start_date, end_date
		FROM lars_framework_aim`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fas []refdata.FrameworkAim
	for rows.Next() {
		var (
			fa    refdata.FrameworkAim
			ct    sql.NullInt64
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&fa.LearnAimRef, &fa.ProgType, &fa.FworkCode, &fa.PwayCode,
			&ct, &start, &end); err != nil {
			return nil, err
		}
		if fa.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("framework aim %s: %w", fa.LearnAimRef, err)
		}
		fa.FrameworkComponentType = optInt(ct)
		fas = append(fas, fa)
	}
	return fas, rows.Err()
}

func (s *Source) loadCommonComponents(ctx context.Context) ([]refdata.CommonComponent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learn_aim_ref, common_component, prog_type, fwork_code,
		       pway_code, start_date, end_date
		FROM lars_common_component`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ccs []refdata.CommonComponent
	for rows.Next() {
		var (
			cc    refdata.CommonComponent
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&cc.LearnAimRef, &cc.CommonComponent, &cc.ProgType,
			&cc.FworkCode, &cc.PwayCode, &start, &end); err != nil {
			return nil, err
		}
		if cc.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("common component %s: %w", cc.LearnAimRef, err)
		}
		ccs = append(ccs, cc)
	}
	return ccs, rows.Err()
}

func (s *Source) loadCategories(ctx context.Context) ([]refdata.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learn_aim_ref, category_ref, start_date, end_date
		FROM lars_category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []refdata.Category
	for rows.Next() {
		var (
			c     refdata.Category
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&c.LearnAimRef, &c.CategoryRef, &start, &end); err != nil {
			return nil, err
		}
		if c.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("category %s: %w", c.LearnAimRef, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Source) loadValidities(ctx context.Context) ([]refdata.Validity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learn_aim_ref, validity_category, last_new_start_date,
		       start_date, end_date
		FROM lars_validity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vs []refdata.Validity
	for rows.Next() {
		var (
			v     refdata.Validity
			lns   sql.NullString
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&v.LearnAimRef, &v.ValidityCategory, &lns, &start, &end); err != nil {
			return nil, err
		}
		if v.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("validity %s: %w", v.LearnAimRef, err)
		}
		if v.LastNewStartDate, err = parseOptDate(lns); err != nil {
			return nil, fmt.Errorf("validity %s last new start: %w", v.LearnAimRef, err)
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func (s *Source) loadStandards(ctx context.Context) ([]refdata.Standard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT std_code, sector_code, notional_end_level, start_date, end_date
		FROM lars_standard`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stds []refdata.Standard
	for rows.Next() {
		var (
			std   refdata.Standard
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&std.StdCode, &std.StandardSectorCode,
			&std.NotionalEndLevel, &start, &end); err != nil {
			return nil, err
		}
		if std.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("standard %d: %w", std.StdCode, err)
		}
		stds = append(stds, std)
	}
	return stds, rows.Err()
}

func (s *Source) loadStandardFundings(ctx context.Context) ([]refdata.StandardFunding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT std_code, fundable_without_employer, core_gov_contribution_cap,
		       start_date, end_date
		FROM lars_standard_funding`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sfs []refdata.StandardFunding
	for rows.Next() {
		var (
			sf     refdata.StandardFunding
			govCap sql.NullInt64
			start  string
			end    sql.NullString
		)
		if err := rows.Scan(&sf.StdCode, &sf.FundableWithoutEmployer, &govCap, &start, &end); err != nil {
			return nil, err
		}
		if sf.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("standard funding %d: %w", sf.StdCode, err)
		}
		sf.CoreGovContributionCap = optInt(govCap)
		sfs = append(sfs, sf)
	}
	return sfs, rows.Err()
}

func (s *Source) loadStandardValidities(ctx context.Context) ([]refdata.StandardValidity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT std_code, validity_category, last_new_start_date,
		       start_date, end_date
		FROM lars_standard_validity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var svs []refdata.StandardValidity
	for rows.Next() {
		var (
			sv    refdata.StandardValidity
			lns   sql.NullString
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&sv.StdCode, &sv.ValidityCategory, &lns, &start, &end); err != nil {
			return nil, err
		}
		if sv.Period, err = scanPeriod(start, end); err != nil {
			return nil, fmt.Errorf("standard validity %d: %w", sv.StdCode, err)
		}
		if sv.LastNewStartDate, err = parseOptDate(lns); err != nil {
			return nil, fmt.Errorf("standard validity %d last new start: %w", sv.StdCode, err)
		}
		svs = append(svs, sv)
	}
	return svs, rows.Err()
}
