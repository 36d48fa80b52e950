// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// VolumeFormatFunc formats a volume mount as a -v flag value.
	// Podman uses this to add SELinux labels (:z) which are required in
	// SELinux-enforcing environments; without them the containerized
	// ansible process cannot read the mounted playbook directory.
	VolumeFormatFunc func(mount VolumeMount) string

	// RunArgsTransformer modifies run arguments after they're built.
	// Used by Podman to inject --userns=keep-id so files written into the
	// mounted directory (retry files, galaxy caches) stay owned by the caller.
	RunArgsTransformer func(args []string) []string

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides the common implementation for CLI-based
	// container engines. Docker and Podman engines embed this struct;
	// only Available, Version, and ImageExists differ between them.
	BaseCLIEngine struct {
		binaryPath         string
		execCommand        ExecCommandFunc
		volumeFormatter    VolumeFormatFunc
		runArgsTransformer RunArgsTransformer
	}

	// RunOptions contains options for running a container.
	RunOptions struct {
		// Image is the image to run.
		Image string
		// Command is the argument vector executed inside the container.
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		// Env contains environment variables.
		Env map[string]string
		// Volumes are the directory and file mounts.
		Volumes []VolumeMount
		// Name is the container name; empty means engine-assigned.
		Name string
		// Remove automatically removes the container after exit.
		Remove bool
		// Interactive keeps stdin open (-i).
		Interactive bool
		// TTY allocates a pseudo-TTY (-t).
		TTY bool
		// Stdin is the standard input.
		Stdin io.Reader
		// Stdout is where to write standard output.
		Stdout io.Writer
		// Stderr is where to write standard error.
		Stderr io.Writer
	}

	// RunResult contains the result of running a container.
	// A non-zero exit code from the containerized command lands in
	// ExitCode; Error is reserved for infrastructure failures.
	RunResult struct {
		ContainerID string
		ExitCode    int
		Error       error
	}
)

var (
	// ErrMissingImage is returned when RunOptions has no image.
	ErrMissingImage = errors.New("run options missing image")
	// ErrMissingCommand is returned when RunOptions has no command.
	ErrMissingCommand = errors.New("run options missing command")
)

// Validate returns an error if the RunOptions are incomplete or carry an
// invalid volume mount. Caught here so a malformed mount fails before the
// engine binary is ever invoked.
func (o RunOptions) Validate() error {
	var errs []error
	if o.Image == "" {
		errs = append(errs, ErrMissingImage)
	}
	if len(o.Command) == 0 {
		errs = append(errs, ErrMissingCommand)
	}
	for _, v := range o.Volumes {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// --- Option Functions ---

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithVolumeFormatter sets a custom volume formatter function.
// This is used by Podman to add SELinux labels on Linux.
func WithVolumeFormatter(fn VolumeFormatFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.volumeFormatter = fn
	}
}

// WithRunArgsTransformer sets a custom run args transformer.
// This is used by Podman to inject --userns=keep-id for rootless compatibility.
func WithRunArgsTransformer(fn RunArgsTransformer) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.runArgsTransformer = fn
	}
}

// --- Constructor ---

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		// Identity functions by default
		volumeFormatter:    FormatVolumeMount,
		runArgsTransformer: func(args []string) []string { return args },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// --- Argument Builders ---

// RunArgs constructs arguments for a container run command.
//
// Generated command: <binary> run [options] <image> <command...>
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}

	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}

	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}

	if opts.Interactive {
		args = append(args, "-i")
	}

	if opts.TTY {
		args = append(args, "-t")
	}

	for k, v := range opts.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}

	for _, v := range opts.Volumes {
		args = append(args, "-v", e.volumeFormatter(v))
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)

	return e.runArgsTransformer(args)
}

// PullArgs constructs arguments for an image pull command.
func (e *BaseCLIEngine) PullArgs(image string) []string {
	return []string{"pull", image}
}

// RemoveArgs constructs arguments for a container remove command.
func (e *BaseCLIEngine) RemoveArgs(containerID string, force bool) []string {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, containerID)
	return args
}

// --- Command Execution ---

// CreateCommand creates an exec.Cmd for the given arguments.
// This is useful when the caller needs to customize stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// RunCommandStatus executes a command and returns only the error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}

	return out.String(), nil
}

// --- Promoted Engine Methods (shared by Docker and Podman) ---

// Run runs a command in a container and returns the result.
// A non-zero exit code is captured in RunResult.ExitCode (not returned as
// error); only infrastructure failures (binary not found, etc.) set
// RunResult.Error. It validates RunOptions before executing so invalid
// mounts fail before a container starts.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	args := e.RunArgs(opts)

	cmd := e.CreateCommand(ctx, args...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()

	result := &RunResult{ContainerID: opts.Name}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Error = err
		}
	}

	return result, nil
}

// Pull pulls an image from a registry.
func (e *BaseCLIEngine) Pull(ctx context.Context, image string) error {
	return e.RunCommandStatus(ctx, e.PullArgs(image)...)
}

// Remove removes a container.
func (e *BaseCLIEngine) Remove(ctx context.Context, containerID string, force bool) error {
	return e.RunCommandStatus(ctx, e.RemoveArgs(containerID, force)...)
}
