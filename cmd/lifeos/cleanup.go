package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/lifeos/pkg/lifeos/config"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
	"github.com/jamesainslie/lifeos/pkg/lifeos/output"
	"github.com/jamesainslie/lifeos/pkg/lifeos/report"
	"github.com/jamesainslie/lifeos/pkg/lifeos/scanner"
	"github.com/jamesainslie/lifeos/pkg/lifeos/trash"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

type cleanupOptions struct {
	dryRun bool
	yes    bool
}

func (a *app) cleanupCmd() *cobra.Command {
	var opts cleanupOptions

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Step-by-step cleanup with confirmations",
		Long: `Walk through the Desktop, Downloads, Caches and Large Files steps. Each step
shows what it found and asks before moving anything:

  y  move every item of the step to the trash directory
  n  skip the step
  s  move only items classified as trash

Items are moved into cleanup.actions.trash_dir; nothing is permanently deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCleanup(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "d", false, "show what would be moved without moving anything")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "run every step without asking")
	return cmd
}

// cleanupStep is one stage of the cleanup walk-through.
type cleanupStep struct {
	label string
	scan  func() []types.Candidate
}

func cleanupSteps(cfg *config.Config, sc *scanner.Scanner) []cleanupStep {
	return []cleanupStep{
		{"Desktop", func() []types.Candidate { return sc.Desktop(cfg.DesktopRule()) }},
		{"Downloads", func() []types.Candidate { return sc.Downloads(cfg.DownloadsRule()) }},
		{"Caches", func() []types.Candidate { return sc.Caches(cfg.CachesRule()) }},
		{"Large Files", func() []types.Candidate { return sc.LargeFiles(cfg.LargeFilesRule()) }},
	}
}

// cleanupRun holds per-invocation state shared by the steps.
type cleanupRun struct {
	opts      cleanupOptions
	verbose   bool
	topN      int
	out       output.Reporter
	prompter  Prompter
	relocator *trash.Relocator
	logger    *logging.Logger

	moved     int
	movedSize int64
}

func (a *app) runCleanup(cmd *cobra.Command, opts cleanupOptions) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}

	run := &cleanupRun{
		opts:      opts,
		verbose:   a.verbose,
		topN:      cfg.Cleanup.TopN,
		out:       a.reporter(cmd),
		relocator: trash.New(cfg.Cleanup.Actions.TrashDir),
		logger:    logging.Get("cleanup").With("run", uuid.NewString()),
	}
	if !opts.yes {
		run.prompter = a.newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	run.out.Heading("lifeos cleanup")
	run.out.Muted("Cleanup moves items to " + cfg.Cleanup.Actions.TrashDir + "; nothing is permanently deleted.")
	if opts.dryRun {
		run.out.Skipped("Dry run: no changes will be made.")
	}
	run.logger.Info("cleanup started", "dry_run", opts.dryRun, "yes", opts.yes, "trash_dir", run.relocator.Dir())

	sc := scanner.New(scanner.Options{Now: a.now})
	for _, step := range cleanupSteps(cfg, sc) {
		if err := run.step(step.label, step.scan()); err != nil {
			return err
		}
	}

	if !opts.dryRun && run.moved > 0 {
		run.out.Blank()
		run.out.Success(fmt.Sprintf("Cleanup complete: %d item(s), %s bytes moved to %s",
			run.moved, humanize.Comma(run.movedSize), run.relocator.Dir()))
	}
	run.logger.Info("cleanup finished", "moved", run.moved, "bytes", run.movedSize)
	return nil
}

func (r *cleanupRun) step(label string, items []types.Candidate) error {
	if len(items) == 0 {
		r.out.Success(label + ": no items")
		return nil
	}

	summary := report.Summarize(items, r.topN)
	r.out.Step(label, summary)
	if r.verbose {
		for _, it := range items {
			r.out.Item(describe(it))
		}
	} else if len(summary.Top) > 0 {
		r.out.Item("Top: " + strings.Join(report.TopLabels(summary.Top), ", "))
	}

	choice := ChoiceAll
	if r.prompter != nil {
		var err error
		if choice, err = r.prompter.Confirm(label); err != nil {
			return err
		}
	}
	r.logger.Debug("step answered", "step", label, "choice", choice, "items", len(items))
	if choice == ChoiceSkip {
		r.out.Skipped("Skipped.")
		return nil
	}

	moved, err := r.relocator.Relocate(items, trash.Options{
		DryRun:    r.opts.dryRun,
		TrashOnly: choice == ChoiceTrashOnly,
	})
	if err != nil {
		return err
	}

	switch {
	case r.opts.dryRun:
		r.out.Skipped("Dry run: no changes made.")
	case len(moved) == 0:
		r.out.Skipped("No changes made.")
	default:
		r.out.Success(fmt.Sprintf("Moved to trash: %d item(s)", len(moved)))
	}

	for _, m := range moved {
		r.moved++
		r.movedSize += m.Size
	}
	return nil
}

func describe(c types.Candidate) string {
	line := fmt.Sprintf("%s (%s) [%s]", c.Path, report.Humanize(c.Size), c.Classification)
	if !c.ModTime.IsZero() {
		line += ", modified " + humanize.Time(c.ModTime)
	}
	return line
}
