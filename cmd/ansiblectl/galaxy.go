// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"ansiblectl/internal/issue"
	"ansiblectl/internal/playbook"
	"ansiblectl/internal/runner"

	"github.com/spf13/cobra"
)

var (
	galaxyDir          string
	galaxyRequirements string
	galaxyKeep         bool

	galaxyCmd = &cobra.Command{
		Use:   "galaxy",
		Short: "Manage Ansible Galaxy collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	galaxyInstallCmd = &cobra.Command{
		Use:   "install",
		Short: "Install collections from a requirements manifest",
		Long: `Install collections from a requirements manifest.

Runs "ansible-galaxy collection install -r <requirements>" inside the
container with the playbook directory mounted. The manifest path is
relative to that directory and defaults to requirements.yml.

With --keep the container is left in place after the install, so the
installed collections can be inspected or committed to a new image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return galaxyInstall(cmd)
		},
	}
)

func init() {
	galaxyInstallCmd.Flags().StringVar(&galaxyDir, "dir", ".", "playbook directory mounted into the container")
	galaxyInstallCmd.Flags().StringVarP(&galaxyRequirements, "requirements", "r", "", "requirements manifest (default requirements.yml)")
	galaxyInstallCmd.Flags().BoolVar(&galaxyKeep, "keep", false, "keep the container after the install finishes")

	galaxyCmd.AddCommand(galaxyInstallCmd)
}

func galaxyInstall(cmd *cobra.Command) error {
	r, err := newRunner()
	if err != nil {
		return err
	}

	result, err := r.GalaxyInstall(cmd.Context(), runner.GalaxySpec{
		Dir:          galaxyDir,
		Requirements: playbook.RequirementsPath(galaxyRequirements),
		Keep:         galaxyKeep,
		Stderr:       os.Stderr,
	})
	if err != nil {
		switch {
		case errors.Is(err, playbook.ErrInvalidCommand):
			renderIssue(issue.InvalidPlaybookArgsId)
			return &ExitError{Code: 2, Err: err}
		case errors.Is(err, runner.ErrDirectoryNotFound), errors.Is(err, runner.ErrMissingDirectory):
			renderIssue(issue.PlaybookDirNotFoundId)
			return &ExitError{Code: 2, Err: err}
		default:
			return err
		}
	}

	fmt.Fprint(os.Stdout, result.Stdout)

	if !result.OK() {
		if verbose {
			renderIssue(issue.GalaxyInstallFailedId)
		}
		return &ExitError{Code: result.ExitCode}
	}

	if galaxyKeep && result.ContainerID != "" {
		fmt.Fprintln(os.Stdout, SuccessStyle.Render("Container kept: ")+CmdStyle.Render(result.ContainerID))
	}

	return nil
}
