package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/larkhall/sift/internal/catalog"
	"github.com/larkhall/sift/internal/engine"
	"github.com/larkhall/sift/internal/refdata"
	"github.com/larkhall/sift/internal/refdata/sqlitesource"
	"github.com/larkhall/sift/internal/rulepack"
	"github.com/larkhall/sift/internal/rules"
)

// RunFlags holds flags for the run command.
type RunFlags struct {
	RefData    string
	Submission string
	Profile    string
	Workers    int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate a submission against a reference snapshot",
		Long: `Validate a learner submission against the compiled rule catalogue.

Builds the temporal reference index from the snapshot database, resolves
the rule set for the requested profile, executes every rule against
every learner, and prints the findings. Exit status is 0 when the batch
ran (findings are expected output, not errors) and 1 on a pipeline
defect or cancellation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, rootOpts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.RefData, "refdata", "", "path to the reference snapshot database (required)")
	cmd.Flags().StringVar(&flags.Submission, "submission", "", "path to the submission YAML (required)")
	cmd.Flags().StringVar(&flags.Profile, "profile", "console", "run profile (actor|console)")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "worker pool size (default GOMAXPROCS)")
	cmd.MarkFlagRequired("refdata")
	cmd.MarkFlagRequired("submission")

	return cmd
}

func runValidation(cmd *cobra.Command, rootOpts *RootOptions, flags *RunFlags) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	// Startup validation is fail-fast: a catalog mismatch, snapshot
	// defect, or resolution failure stops the run before any learner
	// is processed.
	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load rule catalog: %w", err)
	}
	registered := append(rulepack.LearnerRuleIDs(), rulepack.MessageRuleIDs()...)
	if err := cat.Verify(registered); err != nil {
		return fmt.Errorf("catalog cross-check: %w", err)
	}

	src, err := sqlitesource.Open(flags.RefData)
	if err != nil {
		return err
	}
	defer src.Close()

	index, err := refdata.BuildFromSource(cmd.Context(), src)
	if err != nil {
		return fmt.Errorf("build reference index: %w", err)
	}
	formatter.VerboseLog("reference index built: %d aims, %d standards", index.AimCount(), index.StandardCount())

	set, err := rules.Resolve(rulepack.Registrations(), rules.Profile(flags.Profile), rules.Deps{Index: index})
	if err != nil {
		return fmt.Errorf("resolve rule set: %w", err)
	}
	formatter.VerboseLog("resolved %d rule(s) for profile %s", len(set.Rules), flags.Profile)

	learners, err := LoadSubmission(flags.Submission)
	if err != nil {
		return err
	}

	sink := rules.NewSink()
	opts := []engine.Option{}
	if flags.Workers > 0 {
		opts = append(opts, engine.WithWorkers(flags.Workers))
	}
	if err := engine.Execute(cmd.Context(), set, learners, sink, opts...); err != nil {
		return fmt.Errorf("execute batch: %w", err)
	}

	findings := sink.Findings()
	rules.SortCanonical(findings)
	return formatter.PrintFindings(findings, sink.Defects())
}
