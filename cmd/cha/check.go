package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cha/internal/diag"
)

var checkCmd = &cobra.Command{
	Use:   "check [manifest...]",
	Short: "Resolve manifests and report hierarchy problems",
	Long: `Load the given manifests (or the nearest cha.toml), resolve the class
hierarchy, run the instantiation fixpoint and report every problem found.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("unused", false, "report classes and interfaces without instances")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
}

var errCheckFailed = errors.New("check failed")

type checkSummary struct {
	Program      string           `json:"program,omitempty"`
	Classes      int              `json:"classes"`
	Instantiated int              `json:"instantiated"`
	Errors       int              `json:"errors"`
	Warnings     int              `json:"warnings"`
	Dropped      int              `json:"dropped,omitempty"`
	Diagnostics  []jsonDiagnostic `json:"diagnostics"`
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	File     string `json:"file,omitempty"`
	Class    string `json:"class,omitempty"`
	Message  string `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	unused, err := cmd.Flags().GetBool("unused")
	if err != nil {
		return fmt.Errorf("failed to get unused flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	minStr, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSeverity, err := diag.ParseSeverity(minStr)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, args, sessionOptions{reportUnused: unused})
	if err != nil {
		return err
	}
	s.bag.Sort()
	s.bag.Dedup()
	summary := summarize(s)
	s.bag.Filter(minSeverity)
	for _, d := range s.bag.Items() {
		summary.Diagnostics = append(summary.Diagnostics, toJSONDiagnostic(d))
	}
	defer s.printTimings(cmd)

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		renderCheckPretty(out, s, summary)
	}
	if summary.Errors > 0 || (strict && summary.Warnings > 0) {
		return errCheckFailed
	}
	return nil
}

func summarize(s *session) checkSummary {
	sum := checkSummary{Program: s.set.Name(), Diagnostics: []jsonDiagnostic{}}
	if s.universe != nil {
		sum.Classes = s.universe.Len()
	}
	if s.world != nil {
		sum.Instantiated = len(s.world.InstantiatedClasses())
	}
	sum.Errors = s.bag.Count(diag.SevError)
	sum.Warnings = s.bag.Count(diag.SevWarning)
	sum.Dropped = s.bag.Dropped()
	return sum
}

func toJSONDiagnostic(d diag.Diagnostic) jsonDiagnostic {
	return jsonDiagnostic{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		File:     d.Subject.File,
		Class:    d.Subject.Class,
		Message:  d.Message,
	}
}

func renderCheckPretty(out io.Writer, s *session, sum checkSummary) {
	printDiagnostics(out, s.bag.Items())
	if sum.Dropped > 0 {
		fmt.Fprintln(out, styled(mutedStyle, fmt.Sprintf("... %d more diagnostic(s) not shown (raise --max-diagnostics)", sum.Dropped)))
	}
	name := sum.Program
	if name == "" {
		name = "program"
	}
	status := styled(okStyle, "ok")
	if sum.Errors > 0 {
		status = styled(failStyle, "failed")
	}
	fmt.Fprintf(out, "%s %s: %d classes, %d instantiated, %d error(s), %d warning(s)\n",
		styled(headerStyle, name), status, sum.Classes, sum.Instantiated, sum.Errors, sum.Warnings)
}
