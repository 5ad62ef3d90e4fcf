package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/lifeos/pkg/lifeos/checks"
	"github.com/jamesainslie/lifeos/pkg/lifeos/hygiene"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
	"github.com/jamesainslie/lifeos/pkg/lifeos/output"
)

var errUnknownCheck = errors.New("no check named")

const doctorNotice = "Hygiene checks are report-only; no files are deleted."

func (a *app) doctorCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor [check]",
		Short: "Check system health against the spec",
		Long: `Run the folder checks from the spec's filesystem section followed by the
report-only hygiene checks (Desktop Cleanliness, Downloads Aging, Caches
Reporting, Large Files).

Pass a check name to run only that check; names match case-insensitively.
Exits 1 when any check reports issues.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd, firstArg(args), format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "",
		fmt.Sprintf("output format (%s); default pretty on a terminal, plain otherwise",
			strings.Join(output.Available(), ", ")))
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// doctorChecks lists folder checks in spec order, then the hygiene checks.
func (a *app) doctorChecks() []checks.Check {
	checker := hygiene.NewChecker(a.now, a.verbose)
	list := checks.FolderChecks(a.cfg.FolderSpecs())
	return append(list, checker.Checks(a.cfg.HygieneOptions())...)
}

func (a *app) runDoctor(cmd *cobra.Command, target, format string) error {
	if _, err := a.load(cmd); err != nil {
		return err
	}
	logger := logging.Get("doctor")

	if format == "" {
		format = "plain"
		if isTerminal(cmd.OutOrStdout()) {
			format = "pretty"
		}
	}
	formatter, err := output.Get(format)
	if err != nil {
		return err
	}

	all := a.doctorChecks()
	selected := checks.Filter(all, target)
	if target != "" && len(selected) == 0 {
		return fmt.Errorf("%w %q (available: %s)", errUnknownCheck, target, strings.Join(checkNames(all), ", "))
	}

	outcomes, ok := checks.RunAll(selected)
	rep := &output.Report{
		Command: "doctor",
		Notices: []string{doctorNotice},
		Checks:  outcomes,
		OK:      ok,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, rep); err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return err
	}

	logger.Info("doctor finished", "checks", len(outcomes), "failed", rep.Failed(), "target", target)
	if !ok {
		return errIssuesFound
	}
	return nil
}

func checkNames(list []checks.Check) []string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	return names
}
