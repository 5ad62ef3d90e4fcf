package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/lifeos/pkg/lifeos/checks"
	"github.com/jamesainslie/lifeos/pkg/lifeos/folders"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [folder]",
		Short: "Create the folders the spec requires",
		Long: `Run the folder checks from the spec's filesystem section and create any
missing folders. Existing files and folders are never touched.

Exits 1 when an issue cannot be fixed, for example when a configured
path exists but is not a directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, firstArg(args))
		},
	}
}

func (a *app) runInit(cmd *cobra.Command, target string) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}
	logger := logging.Get("init")
	out := a.reporter(cmd)

	all := checks.FolderChecks(cfg.FolderSpecs())
	selected := checks.Filter(all, target)
	if target != "" && len(selected) == 0 {
		return fmt.Errorf("%w %q (available: %s)", errUnknownCheck, target, strings.Join(checkNames(all), ", "))
	}

	out.Heading("lifeos init")

	var createdAny, unresolved bool
	for _, c := range selected {
		res := c.Run()
		if res.OK {
			out.Success(c.Name)
			continue
		}

		out.Warning(c.Name)
		for _, issue := range res.Issues {
			out.Item(issue)
		}
		if !res.Fixable() {
			unresolved = true
			continue
		}

		created, err := folders.Apply(res.Fix)
		for _, dir := range created {
			out.Success("Created " + dir)
		}
		if len(created) > 0 {
			createdAny = true
		}
		if err != nil {
			logger.Error("fix failed", "check", c.Name, "err", err)
			out.Warning(fmt.Sprintf("Could not fix %s: %v", c.Name, err))
			unresolved = true
			continue
		}
		if len(created) == 0 {
			out.Skipped("No changes needed")
		}
	}

	if unresolved {
		out.Blank()
		out.Warning("Some issues could not be fixed")
		return errIssuesFound
	}
	if createdAny {
		out.Blank()
		out.Success("Initialization complete")
	} else {
		out.Success("Nothing to initialize")
	}
	return nil
}
