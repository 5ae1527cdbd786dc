package rules

import (
	"fmt"
	"log/slog"
	"slices"
)

// Profile selects which registered subset of rules a run uses.
// Different hosting profiles register different, overlapping subsets.
type Profile string

const (
	// ProfileActor is the full distributed-hosting rule set.
	ProfileActor Profile = "actor"

	// ProfileConsole is the constrained local-run rule set.
	ProfileConsole Profile = "console"

	// ProfileMessage is the message-rooted rule set, disjoint from the
	// learner-rooted profiles.
	ProfileMessage Profile = "message"
)

// Registration is one entry in the compile-time rule table: the single
// source of truth for which rules exist and which profiles carry them.
// The table replaces the original reflection-over-assembly discovery.
type Registration[E Entity] struct {
	// ID is the rule's catalogue identifier. Unique within the table.
	ID string

	// Profiles lists the run profiles this rule is registered for.
	Profiles []Profile

	// New constructs the rule from its collaborators. A returned error
	// is fatal at resolution time.
	New func(deps Deps) (Rule[E], error)
}

// RuleSet is the resolved set of rule instances for one (entity type,
// profile) combination. Built once per run and treated as immutable.
type RuleSet[E Entity] struct {
	Profile Profile
	Rules   []Rule[E]
}

// IDs returns the resolved rule IDs in registration order.
func (rs RuleSet[E]) IDs() []string {
	ids := make([]string, len(rs.Rules))
	for i, r := range rs.Rules {
		ids[i] = r.ID()
	}
	return ids
}

// Resolve builds the exact rule set registered for the profile.
//
// Membership equals the registration table filtered by profile: no
// duplicates, no omissions. Any construction failure or duplicate ID is
// fatal - resolution defects must stop the run before any entity is
// processed, and must never surface as a per-entity finding.
func Resolve[E Entity](regs []Registration[E], profile Profile, deps Deps) (RuleSet[E], error) {
	set := RuleSet[E]{Profile: profile}
	seen := make(map[string]bool, len(regs))

	for _, reg := range regs {
		if seen[reg.ID] {
			return RuleSet[E]{}, &DefectError{
				Code:    ErrCodeDuplicateRule,
				Message: "rule registered twice",
				RuleID:  reg.ID,
			}
		}
		seen[reg.ID] = true

		if !slices.Contains(reg.Profiles, profile) {
			continue
		}

		rule, err := reg.New(deps)
		if err != nil {
			return RuleSet[E]{}, &DefectError{
				Code:    ErrCodeRuleConstruct,
				Message: fmt.Sprintf("construct rule: %v", err),
				RuleID:  reg.ID,
			}
		}
		if rule.ID() != reg.ID {
			return RuleSet[E]{}, &DefectError{
				Code:    ErrCodeRuleConstruct,
				Message: fmt.Sprintf("constructed rule reports ID %q", rule.ID()),
				RuleID:  reg.ID,
			}
		}
		set.Rules = append(set.Rules, rule)
	}

	slog.Info("rule set resolved",
		"profile", string(profile),
		"rules", len(set.Rules),
	)

	return set, nil
}
