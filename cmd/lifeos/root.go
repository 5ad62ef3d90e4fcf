package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/lifeos/pkg/lifeos/config"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
	"github.com/jamesainslie/lifeos/pkg/lifeos/output"
)

// errIssuesFound makes the process exit 1 without printing an error; the
// command has already reported the problems.
var errIssuesFound = errors.New("issues found")

const (
	exitIssues = 1
	exitError  = 2
)

func exitCode(err error) int {
	if errors.Is(err, errIssuesFound) {
		return exitIssues
	}
	return exitError
}

// app carries global flags and the loaded config across subcommands.
type app struct {
	cfgFile string
	verbose bool
	debug   bool

	now         func() time.Time
	newPrompter func(in io.Reader, out io.Writer) Prompter

	cfg *config.Config
}

func newApp() *app {
	return &app{
		now:         time.Now,
		newPrompter: newPrompter,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lifeos",
		Short: "Keep your home directory in shape",
		Long: `lifeos checks your home directory against a YAML spec and helps you tidy it.

Running lifeos with no command runs doctor.

Examples:
  lifeos doctor                  # Run every check
  lifeos doctor "downloads aging" --verbose
  lifeos doctor -o json          # Machine-readable report
  lifeos init                    # Create missing folders
  lifeos cleanup --dry-run       # Walk through cleanup without moving anything
  lifeos config init             # Write a starter spec`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDoctor(cmd, "", "")
		},
	}

	defaultSpec, err := config.DefaultSpecPath()
	if err != nil {
		defaultSpec = "~/.config/lifeos/" + config.SpecFileName
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "spec file (default: "+defaultSpec+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "include per-item details")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "also write debug logs to stderr")

	root.AddCommand(
		a.doctorCmd(),
		a.initCmd(),
		a.cleanupCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

// load reads the spec and initializes logging once per invocation.
func (a *app) load(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}

	lc, err := cfg.LogConfig()
	if err != nil {
		return nil, err
	}
	if a.debug {
		lc.ConsoleLevel = "debug"
		lc.Console = cmd.ErrOrStderr()
	}
	if err := logging.Init(lc); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	logging.Get("cli").Debug("spec loaded", "file", cfg.File, "command", cmd.Name())
	a.cfg = cfg
	return cfg, nil
}

// reporter returns a Reporter on the command's stdout, styled when it is a
// terminal.
func (a *app) reporter(cmd *cobra.Command) output.Reporter {
	w := cmd.OutOrStdout()
	return output.NewReporter(w, isTerminal(w))
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs the root command.
func Execute() error {
	err := newApp().rootCmd().Execute()
	if closeErr := logging.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil && !errors.Is(err, errIssuesFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
