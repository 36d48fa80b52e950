// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"ansiblectl/internal/config"
	"ansiblectl/internal/container"
	"ansiblectl/internal/issue"
	"ansiblectl/internal/playbook"
	"ansiblectl/internal/runner"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	runDir       string
	runInventory string
	runExtraVars  []string
	runTags       []string
	runSSHKey     string
	runKeepOutput string

	runCmd = &cobra.Command{
		Use:   "run <playbook>",
		Short: "Run an Ansible playbook inside a container",
		Long: `Run an Ansible playbook inside a container.

The playbook directory is mounted into the container and ansible-playbook
runs against it. The playbook path, inventory path, and requirements file
are all interpreted relative to that directory.

Examples:
  ansiblectl run site.yml
  ansiblectl run site.yml -i hosts.ini
  ansiblectl run site.yml -e env=production -e version=1.2.3
  ansiblectl run site.yml -t deploy -t config
  ansiblectl run site.yml --ssh-key ~/.ssh/id_ed25519`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlaybook(cmd, args[0])
		},
	}
)

func init() {
	runCmd.Flags().StringVar(&runDir, "dir", ".", "playbook directory mounted into the container")
	runCmd.Flags().StringVarP(&runInventory, "inventory", "i", "", "inventory path relative to the playbook directory")
	runCmd.Flags().StringArrayVarP(&runExtraVars, "extra-var", "e", nil, "extra variable in key=value form (repeatable)")
	runCmd.Flags().StringArrayVarP(&runTags, "tag", "t", nil, "only run plays and tasks tagged with this value (repeatable)")
	runCmd.Flags().StringVar(&runSSHKey, "ssh-key", "", "SSH private key mounted read-only into the container")
	runCmd.Flags().StringVar(&runKeepOutput, "keep-output", "", "also write the captured ansible-playbook stdout to this file")
}

// newPlaybookCommand assembles the typed invocation from CLI flag values.
// Validation happens later, in one place, when the argument vector is built.
func newPlaybookCommand(playbookArg, inventory string, extraVars, tags []string) playbook.Command {
	c := playbook.Command{
		Playbook:  playbook.PlaybookPath(playbookArg),
		Inventory: playbook.InventoryPath(inventory),
	}
	for _, v := range extraVars {
		c.ExtraVars = append(c.ExtraVars, playbook.ExtraVar(v))
	}
	for _, t := range tags {
		c.Tags = append(c.Tags, playbook.Tag(t))
	}
	return c
}

// newRunner builds a Runner from the loaded configuration, with the
// --engine and --image flags taking precedence over the config file.
func newRunner() (*runner.Runner, error) {
	engineName := appConfig.ContainerEngine
	if engineOverride != "" {
		engineName = config.ContainerEngine(engineOverride)
		if valid, errs := engineName.IsValid(); !valid {
			return nil, errs[0]
		}
	}

	engine, err := selectEngine(engineName)
	if err != nil {
		renderIssue(issue.ContainerEngineNotFoundId)
		return nil, err
	}

	image := appConfig.Image.String()
	if imageOverride != "" {
		image = imageOverride
	}

	logger := log.New(io.Discard)
	if verbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	}

	return runner.NewRunner(engine,
		runner.WithImage(image),
		runner.WithMountPath(appConfig.MountPath.String()),
		runner.WithLogger(logger),
	), nil
}

// selectEngine maps the configured engine name to a concrete engine.
func selectEngine(engine config.ContainerEngine) (container.Engine, error) {
	switch engine {
	case config.ContainerEngineDocker:
		return container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		return container.NewEngine(container.EngineTypePodman)
	default:
		return container.AutoDetectEngine()
	}
}

func runPlaybook(cmd *cobra.Command, playbookArg string) error {
	command := newPlaybookCommand(playbookArg, runInventory, runExtraVars, runTags)

	r, err := newRunner()
	if err != nil {
		return err
	}

	result, err := r.RunPlaybook(cmd.Context(), runner.RunSpec{
		Dir:     runDir,
		Command: command,
		SSHKey:  runSSHKey,
		Stderr:  os.Stderr,
	})
	if err != nil {
		return classifyRunError(err)
	}

	fmt.Fprint(os.Stdout, result.Stdout)

	if runKeepOutput != "" {
		if werr := os.WriteFile(runKeepOutput, []byte(result.Stdout), 0o644); werr != nil {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+fmt.Sprintf("could not write output to %s: %v", runKeepOutput, werr))
		}
	}

	if !result.OK() {
		if verbose {
			renderIssue(issue.PlaybookFailedId)
		}
		return &ExitError{Code: result.ExitCode}
	}

	return nil
}

// classifyRunError maps runner failures to the issue catalog and wraps them
// with actionable context for display.
func classifyRunError(err error) error {
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

// renderIssue prints the catalog entry for id to stderr. Rendering failures
// are swallowed: guidance must never mask the original error.
func renderIssue(id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	if rendered, err := entry.Render("dark"); err == nil {
		fmt.Fprintln(os.Stderr, rendered)
	}
}
