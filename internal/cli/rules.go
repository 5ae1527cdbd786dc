package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/larkhall/sift/internal/catalog"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/rulepack"
	"github.com/larkhall/sift/internal/rules"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the resolved rule set for a profile",
		Long: `List every rule the requested profile resolves, with the manifest
metadata for each. The listing is the exact set a run with the same
profile would execute.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd, rootOpts, rules.Profile(profile))
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "console", "run profile (actor|console|message)")
	return cmd
}

type ruleListing struct {
	ID       string   `json:"id"`
	Severity string   `json:"severity"`
	Category string   `json:"category"`
	Profiles []string `json:"profiles"`
}

func listRules(cmd *cobra.Command, rootOpts *RootOptions, profile rules.Profile) error {
	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load rule catalog: %w", err)
	}

	// Rule constructors require an index; an empty one suffices for
	// listing since no rule runs.
	index, err := refdata.Build(refdata.Snapshot{})
	if err != nil {
		return err
	}
	deps := rules.Deps{Index: index}

	var ids []string
	if profile == rules.ProfileMessage {
		set, err := rules.Resolve(rulepack.MessageRegistrations(), profile, deps)
		if err != nil {
			return fmt.Errorf("resolve rule set: %w", err)
		}
		ids = set.IDs()
	} else {
		set, err := rules.Resolve(rulepack.Registrations(), profile, deps)
		if err != nil {
			return fmt.Errorf("resolve rule set: %w", err)
		}
		ids = set.IDs()
	}

	listings := make([]ruleListing, 0, len(ids))
	for _, id := range ids {
		entry, ok := cat.Entry(id)
		if !ok {
			return fmt.Errorf("rule %q is registered but missing from the manifest", id)
		}
		listings = append(listings, ruleListing{
			ID:       entry.ID,
			Severity: string(entry.Severity),
			Category: entry.Category,
			Profiles: entry.Profiles,
		})
	}

	w := cmd.OutOrStdout()
	if rootOpts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	fmt.Fprintf(w, "%d rule(s) resolved for profile %s\n", len(listings), profile)
	for _, l := range listings {
		fmt.Fprintf(w, "  %-24s %-8s %s\n", l.ID, l.Severity, l.Category)
	}
	return nil
}
