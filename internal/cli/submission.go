package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/larkhall/sift/internal/model"
)

// Submission is the YAML shape of a learner batch handed to `sift run`.
// Production pipelines hand entities over already deserialized; the
// YAML form exists for local runs and fixtures.
type Submission struct {
	Learners []submissionLearner `yaml:"learners"`
}

type submissionLearner struct {
	LearnRefNumber string               `yaml:"learn_ref"`
	ULN            *int64               `yaml:"uln,omitempty"`
	DateOfBirth    *submissionDate      `yaml:"date_of_birth,omitempty"`
	Deliveries     []submissionDelivery `yaml:"deliveries"`
}

type submissionDelivery struct {
	AimSeq         int             `yaml:"aim_seq"`
	LearnAimRef    string          `yaml:"learn_aim_ref"`
	FundModel      int             `yaml:"fund_model"`
	LearnStartDate submissionDate  `yaml:"learn_start_date"`
	OrigStartDate  *submissionDate `yaml:"orig_start_date,omitempty"`
	ProgType       *int            `yaml:"prog_type,omitempty"`
	FworkCode      *int            `yaml:"fwork_code,omitempty"`
	PwayCode       *int            `yaml:"pway_code,omitempty"`
	StdCode        *int            `yaml:"std_code,omitempty"`
	FAMs           []submissionFAM `yaml:"fams,omitempty"`
}

type submissionFAM struct {
	Type string `yaml:"type"`
	Code string `yaml:"code"`
}

type submissionDate struct {
	time.Time
}

func (d *submissionDate) UnmarshalYAML(value *yaml.Node) error {
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

// LoadSubmission reads a learner batch from a YAML file.
func LoadSubmission(path string) ([]*model.Learner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	var sub Submission
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	if len(sub.Learners) == 0 {
		return nil, fmt.Errorf("submission contains no learners")
	}

	learners := make([]*model.Learner, len(sub.Learners))
	for i, sl := range sub.Learners {
		l := &model.Learner{
			LearnRefNumber: sl.LearnRefNumber,
			ULN:            sl.ULN,
		}
		if sl.DateOfBirth != nil {
			dob := sl.DateOfBirth.Time
			l.DateOfBirth = &dob
		}
		for _, sd := range sl.Deliveries {
			d := model.LearningDelivery{
				AimSeqNumber:   sd.AimSeq,
				LearnAimRef:    sd.LearnAimRef,
				FundModel:      sd.FundModel,
				LearnStartDate: sd.LearnStartDate.Time,
				ProgType:       sd.ProgType,
				FworkCode:      sd.FworkCode,
				PwayCode:       sd.PwayCode,
				StdCode:        sd.StdCode,
			}
			if sd.OrigStartDate != nil {
				orig := sd.OrigStartDate.Time
				d.OrigLearnStartDate = &orig
			}
			for _, sf := range sd.FAMs {
				d.FAMs = append(d.FAMs, model.DeliveryFAM{Type: sf.Type, Code: sf.Code})
			}
			l.LearningDeliveries = append(l.LearningDeliveries, d)
		}
		learners[i] = l
	}
	return learners, nil
}
