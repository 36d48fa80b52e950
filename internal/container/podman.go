// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// PodmanEngine implements the Engine interface using the Podman CLI.
// It embeds BaseCLIEngine for common CLI operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
// On Linux with SELinux enforcing, volume mounts are labeled with :z, and
// rootless runs get --userns=keep-id so files ansible writes into the
// mounted playbook directory stay owned by the invoking user.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path, _ := exec.LookPath("podman")

	allOpts := append([]BaseCLIEngineOption{
		WithVolumeFormatter(formatVolumeWithSELinux),
		WithRunArgsTransformer(injectKeepIDUserNS),
	}, opts...)

	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Name returns the engine name.
func (e *PodmanEngine) Name() string {
	return string(EngineTypePodman)
}

// Available checks if Podman is available.
func (e *PodmanEngine) Available() bool {
	if e.BinaryPath() == "" {
		return false
	}
	cmd := e.CreateCommand(context.Background(), "version", "--format", "{{.Version}}")
	return cmd.Run() == nil
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get podman version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageExists checks if an image is present locally.
func (e *PodmanEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "exists", image)
	return err == nil, nil
}

// isSELinuxEnabled checks /sys/fs/selinux/enforce for SELinux status.
func isSELinuxEnabled() bool {
	data, err := os.ReadFile("/sys/fs/selinux/enforce")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}

// formatVolumeWithSELinux formats a volume mount, adding the shared :z
// label when SELinux is enforcing and the mount has no label of its own.
func formatVolumeWithSELinux(mount VolumeMount) string {
	if isSELinuxEnabled() && mount.SELinux == SELinuxLabelNone {
		mount.SELinux = SELinuxLabelShared
	}
	return FormatVolumeMount(mount)
}

// injectKeepIDUserNS inserts --userns=keep-id right after the run token so
// rootless Podman maps the container user to the invoking user.
func injectKeepIDUserNS(args []string) []string {
	if len(args) == 0 || args[0] != "run" {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0], "--userns=keep-id")
	out = append(out, args[1:]...)
	return out
}
