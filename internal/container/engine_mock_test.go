// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"os/exec"
	"slices"
	"testing"
)

// recordingExec returns an ExecCommandFunc that records every invocation
// and substitutes a no-op command so nothing actually runs.
func recordingExec(calls *[][]string) ExecCommandFunc {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		*calls = append(*calls, append([]string{name}, arg...))
		return exec.CommandContext(ctx, "true")
	}
}

func TestBaseCLIEngine_Run_InvokesEngineBinary(t *testing.T) {
	t.Parallel()

	var calls [][]string
	engine := NewBaseCLIEngine("/usr/bin/docker", WithExecCommand(recordingExec(&calls)))

	result, err := engine.Run(t.Context(), RunOptions{
		Image:   "alpine/ansible:latest",
		Command: []string{"ansible-playbook", "site.yml"},
		WorkDir: "/work",
		Remove:  true,
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 engine invocation, got %d", len(calls))
	}
	want := []string{
		"/usr/bin/docker", "run", "--rm", "-w", "/work",
		"alpine/ansible:latest", "ansible-playbook", "site.yml",
	}
	if !slices.Equal(calls[0], want) {
		t.Errorf("engine invocation mismatch\ngot:  %v\nwant: %v", calls[0], want)
	}
}

func TestBaseCLIEngine_Run_RejectsInvalidOptionsBeforeExec(t *testing.T) {
	t.Parallel()

	var calls [][]string
	engine := NewBaseCLIEngine("/usr/bin/docker", WithExecCommand(recordingExec(&calls)))

	if _, err := engine.Run(t.Context(), RunOptions{Image: "alpine/ansible:latest"}); err == nil {
		t.Fatal("Run() expected validation error")
	}
	if len(calls) != 0 {
		t.Errorf("engine binary invoked despite invalid options: %v", calls)
	}
}

func TestBaseCLIEngine_Pull_UsesPullArgs(t *testing.T) {
	t.Parallel()

	var calls [][]string
	engine := NewBaseCLIEngine("/usr/bin/podman", WithExecCommand(recordingExec(&calls)))

	if err := engine.Pull(t.Context(), "alpine/ansible:latest"); err != nil {
		t.Fatalf("Pull() unexpected error: %v", err)
	}

	want := []string{"/usr/bin/podman", "pull", "alpine/ansible:latest"}
	if len(calls) != 1 || !slices.Equal(calls[0], want) {
		t.Errorf("Pull invocation mismatch\ngot:  %v\nwant: %v", calls, want)
	}
}
