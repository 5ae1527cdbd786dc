package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/larkhall/sift/internal/catalog"
	"github.com/larkhall/sift/internal/rulepack"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate a rule-catalog manifest",
		Long: `Validate a catalog manifest against the schema and cross-check it
against the compiled registration table. With no --manifest flag the
embedded default manifest is checked, which is the same validation a
run performs at startup.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCatalog(cmd, manifest)
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "path to a manifest file (default: embedded manifest)")
	return cmd
}

func checkCatalog(cmd *cobra.Command, manifest string) error {
	var (
		cat *catalog.Catalog
		err error
	)
	if manifest == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(manifest)
	}
	if err != nil {
		return err
	}

	registered := append(rulepack.LearnerRuleIDs(), rulepack.MessageRuleIDs()...)
	if err := cat.Verify(registered); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d entries, %d registered rules\n", cat.Len(), len(registered))
	return nil
}
