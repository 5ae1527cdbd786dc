package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/larkhall/sift/internal/model"
	"github.com/larkhall/sift/internal/refdata"
)

// Scenario defines a conformance scenario: an inline reference snapshot,
// a set of learners, and the profile to run them under. Scenarios live
// in YAML files next to their golden finding traces.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Profile selects the rule set ("actor" or "console").
	Profile string `yaml:"profile"`

	// RefData is the inline reference snapshot the index is built from.
	RefData RefDataFixture `yaml:"refdata"`

	// Learners are the entities to validate.
	Learners []LearnerFixture `yaml:"learners"`
}

// Date is a YAML-friendly calendar date (YYYY-MM-DD).
type Date struct {
	time.Time
}

// UnmarshalYAML parses a YYYY-MM-DD scalar.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}

// RefDataFixture is the YAML shape of a reference snapshot.
type RefDataFixture struct {
	Aims          []AimFixture          `yaml:"aims,omitempty"`
	Validities    []ValidityFixture     `yaml:"validities,omitempty"`
	FrameworkAims []FrameworkAimFixture `yaml:"framework_aims,omitempty"`
	Categories    []CategoryFixture     `yaml:"categories,omitempty"`
	AnnualValues  []AnnualValueFixture  `yaml:"annual_values,omitempty"`
	Standards     []StandardFixture     `yaml:"standards,omitempty"`
}

// AimFixture declares one aim record.
type AimFixture struct {
	Ref        string `yaml:"ref"`
	Start      Date   `yaml:"start"`
	End        *Date  `yaml:"end,omitempty"`
	EnglPrscID *int   `yaml:"engl_prsc_id,omitempty"`
}

// ValidityFixture declares one delivery-validity record.
type ValidityFixture struct {
	Ref      string `yaml:"ref"`
	Category string `yaml:"category"`
	Start    Date   `yaml:"start"`
	End      *Date  `yaml:"end,omitempty"`
}

// FrameworkAimFixture declares one framework-aim record.
type FrameworkAimFixture struct {
	Ref       string `yaml:"ref"`
	ProgType  int    `yaml:"prog_type"`
	FworkCode int    `yaml:"fwork_code"`
	PwayCode  int    `yaml:"pway_code"`
	Start     Date   `yaml:"start"`
	End       *Date  `yaml:"end,omitempty"`
}

// CategoryFixture declares one category record.
type CategoryFixture struct {
	Ref      string `yaml:"ref"`
	Category int    `yaml:"category"`
	Start    Date   `yaml:"start"`
	End      *Date  `yaml:"end,omitempty"`
}

// AnnualValueFixture declares one annual-value record.
type AnnualValueFixture struct {
	Ref         string `yaml:"ref"`
	BasicSkills *int   `yaml:"basic_skills,omitempty"`
	Start       Date   `yaml:"start"`
	End         *Date  `yaml:"end,omitempty"`
}

// StandardFixture declares one standard record.
type StandardFixture struct {
	Code  int   `yaml:"code"`
	Start Date  `yaml:"start"`
	End   *Date `yaml:"end,omitempty"`
}

// LearnerFixture is the YAML shape of a learner entity.
type LearnerFixture struct {
	LearnRefNumber string            `yaml:"learn_ref"`
	ULN            *int64            `yaml:"uln,omitempty"`
	DateOfBirth    *Date             `yaml:"date_of_birth,omitempty"`
	Deliveries     []DeliveryFixture `yaml:"deliveries"`
}

// DeliveryFixture is the YAML shape of a learning delivery.
type DeliveryFixture struct {
	AimSeq         int          `yaml:"aim_seq"`
	LearnAimRef    string       `yaml:"learn_aim_ref"`
	FundModel      int          `yaml:"fund_model"`
	LearnStartDate Date         `yaml:"learn_start_date"`
	OrigStartDate  *Date        `yaml:"orig_start_date,omitempty"`
	ProgType       *int         `yaml:"prog_type,omitempty"`
	FworkCode      *int         `yaml:"fwork_code,omitempty"`
	PwayCode       *int         `yaml:"pway_code,omitempty"`
	StdCode        *int         `yaml:"std_code,omitempty"`
	FAMs           []FAMFixture `yaml:"fams,omitempty"`
}

// FAMFixture is one monitoring attribute.
type FAMFixture struct {
	Type string `yaml:"type"`
	Code string `yaml:"code"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario has no name")
	}
	if s.Profile == "" {
		s.Profile = "console"
	}
	return &s, nil
}

func optDate(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// Snapshot converts the fixture to a refdata snapshot.
func (f RefDataFixture) Snapshot() refdata.Snapshot {
	snap := refdata.Snapshot{}
	for _, a := range f.Aims {
		snap.Aims = append(snap.Aims, refdata.Aim{
			Period:      refdata.Period{StartDate: a.Start.Time, EndDate: optDate(a.End)},
			LearnAimRef: a.Ref,
			EnglPrscID:  a.EnglPrscID,
		})
	}
	for _, v := range f.Validities {
		snap.Validities = append(snap.Validities, refdata.Validity{
			Period:           refdata.Period{StartDate: v.Start.Time, EndDate: optDate(v.End)},
			LearnAimRef:      v.Ref,
			ValidityCategory: v.Category,
		})
	}
	for _, fa := range f.FrameworkAims {
		snap.FrameworkAims = append(snap.FrameworkAims, refdata.FrameworkAim{
			Period:      refdata.Period{StartDate: fa.Start.Time, EndDate: optDate(fa.End)},
			LearnAimRef: fa.Ref,
			ProgType:    fa.ProgType,
			FworkCode:   fa.FworkCode,
			PwayCode:    fa.PwayCode,
		})
	}
	for _, c := range f.Categories {
		snap.Categories = append(snap.Categories, refdata.Category{
			Period:      refdata.Period{StartDate: c.Start.Time, EndDate: optDate(c.End)},
			LearnAimRef: c.Ref,
			CategoryRef: c.Category,
		})
	}
	for _, av := range f.AnnualValues {
		snap.AnnualValues = append(snap.AnnualValues, refdata.AnnualValue{
			Period:      refdata.Period{StartDate: av.Start.Time, EndDate: optDate(av.End)},
			LearnAimRef: av.Ref,
			BasicSkills: av.BasicSkills,
		})
	}
	for _, st := range f.Standards {
		snap.Standards = append(snap.Standards, refdata.Standard{
			Period:  refdata.Period{StartDate: st.Start.Time, EndDate: optDate(st.End)},
			StdCode: st.Code,
		})
	}
	return snap
}

// Entities converts the learner fixtures to model entities.
func (s *Scenario) Entities() []*model.Learner {
	learners := make([]*model.Learner, len(s.Learners))
	for i, lf := range s.Learners {
		l := &model.Learner{
			LearnRefNumber: lf.LearnRefNumber,
			ULN:            lf.ULN,
		}
		if lf.DateOfBirth != nil {
			dob := lf.DateOfBirth.Time
			l.DateOfBirth = &dob
		}
		for _, df := range lf.Deliveries {
			d := model.LearningDelivery{
				AimSeqNumber:       df.AimSeq,
				LearnAimRef:        df.LearnAimRef,
				FundModel:          df.FundModel,
				LearnStartDate:     df.LearnStartDate.Time,
				OrigLearnStartDate: optDate(df.OrigStartDate),
				ProgType:           df.ProgType,
				FworkCode:          df.FworkCode,
				PwayCode:           df.PwayCode,
				StdCode:            df.StdCode,
			}
			for _, ff := range df.FAMs {
				d.FAMs = append(d.FAMs, model.DeliveryFAM{Type: ff.Type, Code: ff.Code})
			}
			l.LearningDeliveries = append(l.LearningDeliveries, d)
		}
		learners[i] = l
	}
	return learners
}
