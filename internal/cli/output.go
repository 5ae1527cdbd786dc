package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/larkhall/sift/internal/rules"
)

// OutputFormatter renders findings and diagnostics in the selected
// format. Verbose logs go to ErrWriter so JSON on stdout stays parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// VerboseLog prints a diagnostic line when verbose mode is on.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.ErrWriter, format+"\n", args...)
	}
}

// PrintFindings renders a finding batch.
func (f *OutputFormatter) PrintFindings(findings []rules.Finding, defects []rules.Defect) error {
	if f.Format == "json" {
		return f.printJSON(findings, defects)
	}
	return f.printText(findings, defects)
}

func (f *OutputFormatter) printJSON(findings []rules.Finding, defects []rules.Defect) error {
	canonical, err := rules.MarshalCanonical(findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}

	type defectOut struct {
		RuleID    string `json:"rule_id"`
		EntityKey string `json:"entity_key"`
		Error     string `json:"error"`
	}
	out := struct {
		Findings json.RawMessage `json:"findings"`
		Defects  []defectOut     `json:"defects"`
	}{
		Findings: canonical,
		Defects:  make([]defectOut, len(defects)),
	}
	for i, d := range defects {
		out.Defects[i] = defectOut{RuleID: d.RuleID, EntityKey: d.EntityKey, Error: d.Err.Error()}
	}

	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (f *OutputFormatter) printText(findings []rules.Finding, defects []rules.Defect) error {
	for _, finding := range findings {
		if finding.AimSeqNumber != nil {
			fmt.Fprintf(f.Writer, "%s  learner=%s aim=%d", finding.RuleID, finding.EntityKey, *finding.AimSeqNumber)
		} else {
			fmt.Fprintf(f.Writer, "%s  learner=%s", finding.RuleID, finding.EntityKey)
		}
		for _, p := range finding.Params {
			fmt.Fprintf(f.Writer, " %s=%s", p.Name, p.Value)
		}
		fmt.Fprintln(f.Writer)
	}
	for _, d := range defects {
		fmt.Fprintf(f.ErrWriter, "DEFECT %s learner=%s: %v\n", d.RuleID, d.EntityKey, d.Err)
	}
	fmt.Fprintf(f.Writer, "%d finding(s), %d defect(s)\n", len(findings), len(defects))
	return nil
}
