// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ansiblectl/internal/container"
	"ansiblectl/internal/playbook"

	"github.com/charmbracelet/log"
)

const (
	// DefaultImage is the Ansible-equipped image used when none is configured.
	DefaultImage = "alpine/ansible:latest"

	// DefaultMountPath is where the playbook directory appears inside the container.
	DefaultMountPath = "/work"

	// sshKeyMountPath is the fixed in-container location of a mounted SSH
	// private key. The key is mounted read-only and exposed to ansible via
	// ANSIBLE_PRIVATE_KEY_FILE, never copied into the image.
	sshKeyMountPath = "/run/ansiblectl/ssh_key"

	maxRunRetries  = 3
	baseRunBackoff = 500 * time.Millisecond

	maxPullRetries  = 3
	basePullBackoff = time.Second
)

var (
	// ErrMissingDirectory is returned when a spec has no playbook directory.
	ErrMissingDirectory = errors.New("playbook directory is required")

	// ErrDirectoryNotFound is the sentinel error wrapped by DirectoryNotFoundError.
	ErrDirectoryNotFound = errors.New("playbook directory not found")
)

type (
	// DirectoryNotFoundError is returned when the playbook directory does not
	// exist or is not a directory. Caught before the engine runs, because
	// mounting a nonexistent host path yields confusing engine errors
	// (Docker silently creates it, Podman refuses).
	DirectoryNotFoundError struct {
		Dir string
	}

	// RunSpec describes one ansible-playbook invocation.
	RunSpec struct {
		// Dir is the host directory mounted into the container.
		Dir string
		// Command is the typed playbook invocation to build and run.
		Command playbook.Command
		// SSHKey is an optional host path to a private key for SSH connections.
		SSHKey string
		// Stderr receives the tool's standard error stream; nil discards it.
		Stderr io.Writer
	}

	// GalaxySpec describes one "ansible-galaxy collection install" invocation.
	GalaxySpec struct {
		// Dir is the host directory mounted into the container.
		Dir string
		// Requirements is the manifest path; empty means requirements.yml.
		Requirements playbook.RequirementsPath
		// Keep leaves the container in place after the install so the
		// installed collections can be inspected or committed.
		Keep bool
		// Stderr receives the tool's standard error stream; nil discards it.
		Stderr io.Writer
	}

	// DebugSpec describes an interactive debug shell in the Ansible container.
	DebugSpec struct {
		// Dir is the host directory mounted into the container.
		Dir string
		// SSHKey is an optional host path to a private key for SSH connections.
		SSHKey string
		// Stdin, Stdout, Stderr attach the caller's terminal.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)

	// Runner executes Ansible tools inside containers through an injected
	// engine. Safe for concurrent use; it holds no mutable state.
	Runner struct {
		engine    container.Engine
		image     string
		mountPath string
		logger    *log.Logger
	}
)

// Error implements the error interface for DirectoryNotFoundError.
func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("playbook directory %q does not exist or is not a directory", e.Dir)
}

// Unwrap returns ErrDirectoryNotFound for errors.Is() compatibility.
func (e *DirectoryNotFoundError) Unwrap() error { return ErrDirectoryNotFound }

// WithImage overrides the container image.
func WithImage(image string) RunnerOption {
	return func(r *Runner) {
		if image != "" {
			r.image = image
		}
	}
}

// WithMountPath overrides where the playbook directory is mounted.
func WithMountPath(path string) RunnerOption {
	return func(r *Runner) {
		if path != "" {
			r.mountPath = path
		}
	}
}

// WithLogger sets the logger for verbose diagnostics.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner backed by the given container engine.
func NewRunner(engine container.Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:    engine,
		image:     DefaultImage,
		mountPath: DefaultMountPath,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Image returns the container image the runner executes in.
func (r *Runner) Image() string { return r.image }

// RunPlaybook builds the ansible-playbook argument vector and executes it
// with the spec's directory mounted at the mount path. Stdout is captured
// and returned; stderr streams to spec.Stderr. Validation failures surface
// before any container is started.
func (r *Runner) RunPlaybook(ctx context.Context, spec RunSpec) (*Result, error) {
	args, err := spec.Command.Args()
	if err != nil {
		return nil, err
	}

	prep, err := r.prepare(spec.Dir, spec.SSHKey)
	if err != nil {
		return nil, err
	}

	if err := r.ensureImage(ctx); err != nil {
		return nil, err
	}

	r.logger.Debug("running playbook",
		"engine", r.engine.Name(), "image", r.image, "args", args)

	var stdout bytes.Buffer
	result, err := r.runWithRetry(ctx, container.RunOptions{
		Image:   r.image,
		Command: args,
		WorkDir: r.mountPath,
		Env:     prep.env,
		Volumes: prep.volumes,
		Remove:  true,
		Stdout:  &stdout,
		Stderr:  spec.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run container: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to run container: %w", result.Error)
	}

	return &Result{Stdout: stdout.String(), ExitCode: result.ExitCode}, nil
}

// GalaxyInstall installs collections from a requirements manifest with the
// spec's directory mounted. With Keep set, the container survives the run
// under a generated name and its ID is reported in the result.
func (r *Runner) GalaxyInstall(ctx context.Context, spec GalaxySpec) (*Result, error) {
	args, err := playbook.NewGalaxyInstallCommand(spec.Requirements).Args()
	if err != nil {
		return nil, err
	}

	prep, err := r.prepare(spec.Dir, "")
	if err != nil {
		return nil, err
	}

	if err := r.ensureImage(ctx); err != nil {
		return nil, err
	}

	name := ""
	if spec.Keep {
		name = fmt.Sprintf("ansiblectl-galaxy-%d", time.Now().UnixNano())
	}

	r.logger.Debug("installing galaxy collections",
		"engine", r.engine.Name(), "image", r.image, "args", args, "keep", spec.Keep)

	var stdout bytes.Buffer
	result, err := r.runWithRetry(ctx, container.RunOptions{
		Image:   r.image,
		Command: args,
		WorkDir: r.mountPath,
		Volumes: prep.volumes,
		Name:    name,
		Remove:  !spec.Keep,
		Stdout:  &stdout,
		Stderr:  spec.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run container: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to run container: %w", result.Error)
	}

	return &Result{
		Stdout:      stdout.String(),
		ExitCode:    result.ExitCode,
		ContainerID: name,
	}, nil
}

// DebugShell starts an interactive /bin/sh in the Ansible container with the
// directory mounted, attaching the caller's terminal. Mirrors a normal run
// except nothing is captured and no retry applies (the user is interactive).
func (r *Runner) DebugShell(ctx context.Context, spec DebugSpec) (*Result, error) {
	prep, err := r.prepare(spec.Dir, spec.SSHKey)
	if err != nil {
		return nil, err
	}

	if err := r.ensureImage(ctx); err != nil {
		return nil, err
	}

	result, err := r.engine.Run(ctx, container.RunOptions{
		Image:       r.image,
		Command:     []string{"/bin/sh"},
		WorkDir:     r.mountPath,
		Env:         prep.env,
		Volumes:     prep.volumes,
		Remove:      true,
		Interactive: true,
		TTY:         true,
		Stdin:       spec.Stdin,
		Stdout:      spec.Stdout,
		Stderr:      spec.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run container: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to run container: %w", result.Error)
	}

	return &Result{ExitCode: result.ExitCode}, nil
}

// runPrep holds mounts and env shared by the run variants.
type runPrep struct {
	volumes []container.VolumeMount
	env     map[string]string
}

// prepare resolves and checks the playbook directory and optional SSH key,
// returning the volume mounts and environment for the container.
// The playbook directory is borrowed: it is mounted, never modified here.
func (r *Runner) prepare(dir, sshKey string) (*runPrep, error) {
	if dir == "" {
		return nil, ErrMissingDirectory
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve playbook directory: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		return nil, &DirectoryNotFoundError{Dir: absDir}
	}

	prep := &runPrep{
		volumes: []container.VolumeMount{
			{
				HostPath:      container.HostFilesystemPath(absDir),
				ContainerPath: container.MountTargetPath(r.mountPath),
			},
		},
	}

	if sshKey != "" {
		absKey, err := filepath.Abs(sshKey)
		if err != nil {
			return nil, fmt.Errorf("resolve ssh key path: %w", err)
		}
		if _, err := os.Stat(absKey); err != nil {
			return nil, fmt.Errorf("ssh key %q not readable: %w", absKey, err)
		}
		prep.volumes = append(prep.volumes, container.VolumeMount{
			HostPath:      container.HostFilesystemPath(absKey),
			ContainerPath: sshKeyMountPath,
			ReadOnly:      true,
		})
		prep.env = map[string]string{"ANSIBLE_PRIVATE_KEY_FILE": sshKeyMountPath}
	}

	return prep, nil
}

// ensureImage pulls the configured image when it is not present locally,
// retrying transient registry failures with backoff.
func (r *Runner) ensureImage(ctx context.Context) error {
	exists, err := r.engine.ImageExists(ctx, r.image)
	if err == nil && exists {
		return nil
	}

	r.logger.Debug("pulling image", "image", r.image)

	return container.RetryWithBackoff(ctx, maxPullRetries, basePullBackoff,
		func(attempt int) (bool, error) {
			pullErr := r.engine.Pull(ctx, r.image)
			if pullErr == nil {
				return false, nil
			}
			if container.IsTransientError(pullErr) {
				r.logger.Debug("transient pull failure, retrying",
					"attempt", attempt+1, "maxRetries", maxPullRetries, "error", pullErr)
				return true, pullErr
			}
			return false, fmt.Errorf("pull image %s: %w", r.image, pullErr)
		})
}

// runWithRetry wraps engine.Run with retry logic for transient engine
// failures. engine.Run absorbs exit codes into the result, so transient OCI
// failures (exit codes 125/126) appear as a non-zero exit with a nil error;
// both surfaces are checked.
//
// Stderr is buffered per attempt so transient engine noise never reaches the
// user when a retry succeeds; the final attempt's buffer is always flushed.
func (r *Runner) runWithRetry(ctx context.Context, opts container.RunOptions) (*container.RunResult, error) {
	originalStderr := opts.Stderr

	var lastErr error
	var lastResult *container.RunResult
	var lastStderrBuf *bytes.Buffer
	for attempt := range maxRunRetries {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled during run retry: %w", err)
			}
			time.Sleep(baseRunBackoff * time.Duration(1<<(attempt-1)))
		}

		var stderrBuf bytes.Buffer
		opts.Stderr = &stderrBuf

		result, err := r.engine.Run(ctx, opts)
		if err != nil {
			if !container.IsTransientError(err) {
				flushStderr(originalStderr, &stderrBuf)
				return nil, err
			}
			r.logger.Debug("transient container error, retrying",
				"attempt", attempt+1, "maxRetries", maxRunRetries, "error", err)
			lastErr = err
			lastStderrBuf = &stderrBuf
			continue
		}

		if result.ExitCode == 0 || !container.IsTransientExitCode(result.ExitCode) {
			flushStderr(originalStderr, &stderrBuf)
			return result, nil
		}

		r.logger.Debug("transient container exit code, retrying",
			"attempt", attempt+1, "maxRetries", maxRunRetries, "exitCode", result.ExitCode)
		lastResult = result
		lastStderrBuf = &stderrBuf
	}

	if lastStderrBuf != nil {
		flushStderr(originalStderr, lastStderrBuf)
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return lastResult, nil
}

// flushStderr writes buffered stderr content to the original writer.
// A nil destination discards the buffer.
func flushStderr(dst io.Writer, src *bytes.Buffer) {
	if dst == nil || src.Len() == 0 {
		return
	}
	_, _ = io.Copy(dst, src)
}
