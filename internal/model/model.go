// Package model defines the ILR entity graph consumed by validation rules.
//
// The graph is read-only input to the validation pipeline: a root Learner
// (or Message) with nested collections of learning deliveries and their
// monitoring, financial, and HE sub-records. Rules never mutate it.
//
// Optional fields are pointers. Rules distinguish "absent" from
// "present but non-matching" everywhere, so sentinel values are never used.
package model

import "time"

// Learner is the root entity for learner-scoped validation.
// LearnRefNumber is the unique reference key within a submission.
type Learner struct {
	LearnRefNumber     string
	ULN                *int64
	DateOfBirth        *time.Time
	PriorAttain        *int
	PostcodePrior      string
	NINumber           string
	LearningDeliveries []LearningDelivery
}

// Key returns the learner's unique reference key.
func (l *Learner) Key() string { return l.LearnRefNumber }

// LearningDelivery is one course aim within a learner's submission,
// ordered by AimSeqNumber.
type LearningDelivery struct {
	AimSeqNumber       int
	LearnAimRef        string
	AimType            int
	FundModel          int
	LearnStartDate     time.Time
	OrigLearnStartDate *time.Time
	LearnPlanEndDate   time.Time
	LearnActEndDate    *time.Time
	ProgType           *int
	FworkCode          *int
	PwayCode           *int
	StdCode            *int
	CompStatus         *int
	Outcome            *int

	FAMs          []DeliveryFAM
	AppFinRecords []AppFinRecord
	WorkPlacements []WorkPlacement
	HE            *DeliveryHE
}

// DeliveryFAM is a (type, code) monitoring attribute attached to a
// learning delivery. Many rules gate on the presence of a specific pair.
type DeliveryFAM struct {
	Type     string
	Code     string
	DateFrom *time.Time
	DateTo   *time.Time
}

// AppFinRecord is an apprenticeship financial record.
type AppFinRecord struct {
	Type   string
	Code   int
	Date   time.Time
	Amount int
}

// WorkPlacement records a period of employer placement for an aim.
type WorkPlacement struct {
	StartDate time.Time
	EndDate   *time.Time
	Hours     *int
	EmpID     *int
}

// DeliveryHE carries higher-education sub-record fields for an aim.
type DeliveryHE struct {
	QualEntry  string
	ModeStud   *int
	TypeYr     *int
	StuLoad    *float64
	NetFee     *int
	GrossFee   *int
}

// Message is the root entity for message-scoped validation. It wraps the
// submission header and the learners it contains.
type Message struct {
	UKPRN          int
	PreparationDate time.Time
	CollectionYear string
	Learners       []Learner
}

// Key returns the message's reference key for finding attribution.
func (m *Message) Key() string { return m.CollectionYear }

// FAM returns the first monitoring attribute of the given type, if any.
func (d *LearningDelivery) FAM(famType string) (DeliveryFAM, bool) {
	for _, f := range d.FAMs {
		if f.Type == famType {
			return f, true
		}
	}
	return DeliveryFAM{}, false
}

// HasFAM reports whether the delivery carries the exact (type, code) pair.
func (d *LearningDelivery) HasFAM(famType, code string) bool {
	for _, f := range d.FAMs {
		if f.Type == famType && f.Code == code {
			return true
		}
	}
	return false
}
