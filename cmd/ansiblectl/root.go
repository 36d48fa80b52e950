// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for ansiblectl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ansiblectl/internal/config"
	"ansiblectl/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// engineOverride picks a container engine over the configured one
	engineOverride string
	// imageOverride picks a container image over the configured one
	imageOverride string

	// appConfig is the loaded configuration; never nil after initRootConfig.
	appConfig = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "ansiblectl",
		Short: "Run Ansible playbooks inside containers",
		Long: TitleStyle.Render("ansiblectl") + SubtitleStyle.Render(" - Run Ansible playbooks inside containers") + `

ansiblectl runs ansible-playbook and ansible-galaxy inside a container
(Docker or Podman), so nothing but a container engine is required on
the host. Your playbook directory is mounted into the container and
the tools run against it.

` + SubtitleStyle.Render("Quick Start:") + `
  1. cd into the directory holding your playbooks
  2. Install collections: ansiblectl galaxy install
  3. Run a playbook: ansiblectl run site.yml -i hosts.ini

` + SubtitleStyle.Render("Examples:") + `
  ansiblectl run site.yml                      Run a playbook
  ansiblectl run site.yml -e env=prod -t deploy  With variables and tags
  ansiblectl galaxy install -r requirements.yml  Install collections
  ansiblectl debug                             Open a shell in the container
  ansiblectl config show                       Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ansiblectl/config.cue)")
	rootCmd.PersistentFlags().StringVar(&engineOverride, "engine", "", "container engine to use: podman, docker, or auto")
	rootCmd.PersistentFlags().StringVar(&imageOverride, "image", "", "container image to run Ansible tools in")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(galaxyCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file if present.
func initRootConfig() {
	cfg, _, err := config.Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}

	appConfig = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
