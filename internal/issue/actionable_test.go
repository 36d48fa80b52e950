// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "run playbook"},
			want: "failed to run playbook",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "run playbook", Resource: "site.yml"},
			want: "failed to run playbook: site.yml",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "pull image",
				Resource:  "alpine/ansible:latest",
				Cause:     errors.New("connection refused"),
			},
			want: "failed to pull image: alpine/ansible:latest: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := WrapWithOperation(fmt.Errorf("middle: %w", cause), "run playbook")

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should reach the root cause through Unwrap")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Check CUE syntax").
		WithSuggestion("Remove the file to use defaults").
		Wrap(fmt.Errorf("parse: %w", errors.New("unexpected token"))).
		Build()

	compact := err.Format(false)
	if !strings.Contains(compact, "failed to load configuration: config.cue") {
		t.Errorf("Format(false) missing header, got:\n%s", compact)
	}
	if !strings.Contains(compact, "• Check CUE syntax") {
		t.Errorf("Format(false) missing suggestion, got:\n%s", compact)
	}
	if strings.Contains(compact, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) missing error chain, got:\n%s", verbose)
	}
	if !strings.Contains(verbose, "unexpected token") {
		t.Errorf("Format(true) missing root cause, got:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	// Operation is required.
	if err := NewErrorContext().WithResource("x").Build(); err != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().WithResource("x").BuildError(); err != nil {
		t.Error("BuildError() without operation should return nil error")
	}

	built := NewErrorContext().
		WithOperation("install collections").
		WithSuggestions("Check requirements.yml", "Check network access").
		Build()
	if built == nil {
		t.Fatal("Build() returned nil with operation set")
	}
	if len(built.Suggestions) != 2 {
		t.Errorf("Suggestions = %d, want 2", len(built.Suggestions))
	}
	if !built.HasSuggestions() {
		t.Error("HasSuggestions() = false, want true")
	}
}

func TestWrapHelpers_NilError(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "op") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}
