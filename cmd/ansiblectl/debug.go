// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"ansiblectl/internal/issue"
	"ansiblectl/internal/runner"

	"github.com/spf13/cobra"
)

var (
	debugDir    string
	debugSSHKey string

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Open an interactive shell in the Ansible container",
		Long: `Open an interactive shell in the Ansible container.

The playbook directory is mounted exactly as it is for 'ansiblectl run',
so ansible-playbook, ansible-galaxy, and the mounted files behave the
same way they do during a normal run. Useful for reproducing failures
with -vvv or inspecting installed collections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return debugShell(cmd)
		},
	}
)

func init() {
	debugCmd.Flags().StringVar(&debugDir, "dir", ".", "playbook directory mounted into the container")
	debugCmd.Flags().StringVar(&debugSSHKey, "ssh-key", "", "SSH private key mounted read-only into the container")
}

func debugShell(cmd *cobra.Command) error {
	r, err := newRunner()
	if err != nil {
		return err
	}

	result, err := r.DebugShell(cmd.Context(), runner.DebugSpec{
		Dir:    debugDir,
		SSHKey: debugSSHKey,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		if errors.Is(err, runner.ErrDirectoryNotFound) || errors.Is(err, runner.ErrMissingDirectory) {
			renderIssue(issue.PlaybookDirNotFoundId)
			return &ExitError{Code: 2, Err: err}
		}
		return err
	}

	// Propagate the shell's exit status.
	if !result.OK() {
		return &ExitError{Code: result.ExitCode}
	}

	return nil
}
