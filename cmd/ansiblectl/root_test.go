// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"ansiblectl/internal/issue"
	"ansiblectl/internal/playbook"
	"ansiblectl/internal/runner"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestNewPlaybookCommand(t *testing.T) {
	t.Parallel()

	command := newPlaybookCommand(
		"site.yml",
		"hosts.ini",
		[]string{"env=production", "version=1.2.3"},
		[]string{"deploy", "config"},
	)

	args, err := command.Args()
	if err != nil {
		t.Fatalf("Args() unexpected error: %v", err)
	}

	want := []string{
		"ansible-playbook",
		"-i", "hosts.ini",
		"--extra-vars", "env=production",
		"--extra-vars", "version=1.2.3",
		"--tags", "deploy,config",
		"site.yml",
	}
	if !slices.Equal(args, want) {
		t.Errorf("Args() = %v, want %v", args, want)
	}
}

func TestNewPlaybookCommand_EmptyOptionals(t *testing.T) {
	t.Parallel()

	command := newPlaybookCommand("site.yml", "", nil, nil)
	if command.Inventory != "" || command.ExtraVars != nil || command.Tags != nil {
		t.Errorf("optional fields should stay zero, got %+v", command)
	}
}

func TestClassifyRunError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		passThru bool
	}{
		{
			name:     "invalid command",
			err:      &playbook.InvalidCommandError{FieldErrs: []error{playbook.ErrInvalidExtraVar}},
			wantCode: 2,
		},
		{
			name:     "directory not found",
			err:      &runner.DirectoryNotFoundError{Dir: "/nope"},
			wantCode: 2,
		},
		{
			name:     "missing directory",
			err:      runner.ErrMissingDirectory,
			wantCode: 2,
		},
		{
			name:     "infrastructure error passes through",
			err:      fmt.Errorf("failed to run container: %w", errors.New("engine exploded")),
			passThru: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyRunError(tt.err)
			if tt.passThru {
				if got != tt.err {
					t.Errorf("classifyRunError() = %v, want original error", got)
				}
				return
			}

			var exitErr *ExitError
			if !errors.As(got, &exitErr) {
				t.Fatalf("classifyRunError() = %T, want *ExitError", got)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", exitErr.Code, tt.wantCode)
			}
			if !errors.Is(got, tt.err) && exitErr.Err == nil {
				t.Error("ExitError should carry the original error")
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: 4}
	if bare.Error() != "exit status 4" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 4")
	}

	cause := errors.New("boom")
	wrapped := &ExitError{Code: 1, Err: cause}
	if wrapped.Error() != "boom" {
		t.Errorf("Error() = %q, want cause message", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
}

func TestClassifiedErrorsHaveCatalogEntries(t *testing.T) {
	t.Parallel()

	for _, id := range []issue.Id{
		issue.ContainerEngineNotFoundId,
		issue.PlaybookDirNotFoundId,
		issue.InvalidPlaybookArgsId,
		issue.PlaybookFailedId,
		issue.GalaxyInstallFailedId,
		issue.ConfigLoadFailedId,
	} {
		if issue.Get(id) == nil {
			t.Errorf("issue %d referenced by the CLI has no catalog entry", id)
		}
	}
}
