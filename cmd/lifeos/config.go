package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/lifeos/pkg/lifeos/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the spec file",
		Long: `Manage the lifeos spec file.

The spec is loaded from the --config flag, or else from:
  1. $XDG_CONFIG_HOME/lifeos/spec.yaml (if set)
  2. ~/.config/lifeos/spec.yaml

Environment variables override spec values using the LIFEOS_ prefix:
  LIFEOS_CLEANUP_DOWNLOADS_RULES_MAX_AGE_DAYS=30
  LIFEOS_LOGGING_LEVEL=debug`,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter spec file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing spec file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the resolved configuration",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the spec file path",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigPath,
		},
		initCmd,
	)
	return cmd
}

// specPath is the file config init writes and config path reports.
func (a *app) specPath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	return config.DefaultSpecPath()
}

func (a *app) runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.File != "" {
		fmt.Fprintf(w, "# Spec file: %s\n", cfg.File)
	} else {
		fmt.Fprintln(w, "# Spec file: (none found, using defaults)")
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (a *app) runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := a.specPath()
	if err != nil {
		return fmt.Errorf("resolving spec path: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if a.verbose {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "exists")
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "does not exist (defaults apply)")
		}
	}
	return nil
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := a.specPath()
	if err != nil {
		return fmt.Errorf("resolving spec path: %w", err)
	}
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}

	out := a.reporter(cmd)
	out.Success("Wrote spec file " + path)
	out.Muted("Run 'lifeos init' to create the folders it lists.")
	return nil
}
