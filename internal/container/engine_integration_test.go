// SPDX-License-Identifier: MPL-2.0

// Integration tests for the container engine abstraction. These run real
// containers and require Docker or Podman to be installed.
package container

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// checkTestcontainersAvailable safely checks if testcontainers can be used.
// Returns true if containers are available, false otherwise.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

func integrationEngine(t *testing.T) Engine {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	engine, err := AutoDetectEngine()
	if err != nil {
		t.Skipf("skipping container integration tests: no container engine available: %v", err)
	}
	if !engine.Available() {
		t.Skip("skipping container integration tests: container engine not available")
	}

	// Double-check via testcontainers; its provider detection catches daemons
	// that are installed but not running.
	if !checkTestcontainersAvailable() {
		t.Skip("skipping container integration tests: testcontainers provider not available")
	}

	return engine
}

func TestEngine_Integration(t *testing.T) {
	engine := integrationEngine(t)

	if err := engine.Pull(t.Context(), "alpine:latest"); err != nil {
		t.Fatalf("Pull(alpine:latest) error: %v", err)
	}

	t.Run("BasicExecution", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		result, err := engine.Run(t.Context(), RunOptions{
			Image:   "alpine:latest",
			Command: []string{"echo", "hello from container"},
			Remove:  true,
			Stdout:  &stdout,
			Stderr:  &stderr,
		})
		if err != nil {
			t.Fatalf("Run() error: %v, stderr: %s", err, stderr.String())
		}
		if result.ExitCode != 0 {
			t.Errorf("Run() exit code = %d, want 0, stderr: %s", result.ExitCode, stderr.String())
		}
		if got := strings.TrimSpace(stdout.String()); got != "hello from container" {
			t.Errorf("Run() output = %q, want %q", got, "hello from container")
		}
	})

	t.Run("ExitCode", func(t *testing.T) {
		var stderr bytes.Buffer
		result, err := engine.Run(t.Context(), RunOptions{
			Image:   "alpine:latest",
			Command: []string{"sh", "-c", "exit 42"},
			Remove:  true,
			Stderr:  &stderr,
		})
		if err != nil {
			t.Fatalf("Run() error: %v, stderr: %s", err, stderr.String())
		}
		if result.ExitCode != 42 {
			t.Errorf("Run() exit code = %d, want 42", result.ExitCode)
		}
	})

	t.Run("WorkingDirectory", func(t *testing.T) {
		var stdout bytes.Buffer
		result, err := engine.Run(t.Context(), RunOptions{
			Image:   "alpine:latest",
			Command: []string{"pwd"},
			WorkDir: "/work",
			Remove:  true,
			Stdout:  &stdout,
		})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if result.ExitCode != 0 {
			t.Errorf("Run() exit code = %d, want 0", result.ExitCode)
		}
		if got := strings.TrimSpace(stdout.String()); got != "/work" {
			t.Errorf("pwd inside container = %q, want /work", got)
		}
	})

	t.Run("ReadOnlyVolumeMount", func(t *testing.T) {
		tmpDir := t.TempDir()
		hostFile := filepath.Join(tmpDir, "inventory.ini")
		if err := os.WriteFile(hostFile, []byte("[web]\nhost1\n"), 0o644); err != nil {
			t.Fatalf("failed to write host file: %v", err)
		}

		var stdout bytes.Buffer
		result, err := engine.Run(t.Context(), RunOptions{
			Image:   "alpine:latest",
			Command: []string{"cat", "/work/inventory.ini"},
			Volumes: []VolumeMount{
				{
					HostPath:      HostFilesystemPath(tmpDir),
					ContainerPath: "/work",
					ReadOnly:      true,
				},
			},
			Remove: true,
			Stdout: &stdout,
		})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if result.ExitCode != 0 {
			t.Errorf("Run() exit code = %d, want 0", result.ExitCode)
		}
		if !strings.Contains(stdout.String(), "[web]") {
			t.Errorf("Run() output missing mounted file content, got: %q", stdout.String())
		}
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		var stdout bytes.Buffer
		result, err := engine.Run(t.Context(), RunOptions{
			Image:   "alpine:latest",
			Command: []string{"sh", "-c", `echo "KEY=$ANSIBLE_PRIVATE_KEY_FILE"`},
			Env:     map[string]string{"ANSIBLE_PRIVATE_KEY_FILE": "/run/ansiblectl/ssh_key"},
			Remove:  true,
			Stdout:  &stdout,
		})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if result.ExitCode != 0 {
			t.Errorf("Run() exit code = %d, want 0", result.ExitCode)
		}
		if !strings.Contains(stdout.String(), "KEY=/run/ansiblectl/ssh_key") {
			t.Errorf("Run() output missing env var, got: %q", stdout.String())
		}
	})
}

func TestEngine_Integration_ImageLifecycle(t *testing.T) {
	engine := integrationEngine(t)

	exists, err := engine.ImageExists(t.Context(), "alpine:latest")
	if err != nil {
		t.Fatalf("ImageExists() error: %v", err)
	}
	if !exists {
		if err := engine.Pull(t.Context(), "alpine:latest"); err != nil {
			t.Fatalf("Pull() error: %v", err)
		}
		exists, err = engine.ImageExists(t.Context(), "alpine:latest")
		if err != nil || !exists {
			t.Fatalf("ImageExists() after pull = %v, %v, want true", exists, err)
		}
	}

	version, err := engine.Version(t.Context())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if version == "" {
		t.Error("Version() returned empty string")
	}
}
