// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestContainerEngine_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine ContainerEngine
		valid  bool
	}{
		{ContainerEnginePodman, true},
		{ContainerEngineDocker, true},
		{ContainerEngineAuto, true},
		{"lxc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.engine), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.engine.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidContainerEngine) {
				t.Errorf("errs[0] = %v, want ErrInvalidContainerEngine", errs[0])
			}
		})
	}
}

func TestImageRef_IsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := ImageRef("alpine/ansible:latest").IsValid(); !valid {
		t.Error("valid image reference rejected")
	}
	for _, bad := range []ImageRef{"", "   "} {
		valid, errs := bad.IsValid()
		if valid {
			t.Errorf("IsValid(%q) = true, want false", bad)
			continue
		}
		if !errors.Is(errs[0], ErrInvalidImageRef) {
			t.Errorf("errs[0] = %v, want ErrInvalidImageRef", errs[0])
		}
	}
}

func TestMountPath_IsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := MountPath("/work").IsValid(); !valid {
		t.Error("absolute mount path rejected")
	}
	for _, bad := range []MountPath{"", "work", "./work"} {
		valid, errs := bad.IsValid()
		if valid {
			t.Errorf("IsValid(%q) = true, want false", bad)
			continue
		}
		if !errors.Is(errs[0], ErrInvalidMountPath) {
			t.Errorf("errs[0] = %v, want ErrInvalidMountPath", errs[0])
		}
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{
		ContainerEngine: "lxc",
		Image:           "",
		MountPath:       "work",
		UI:              UIConfig{ColorScheme: "sepia"},
	}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true for config with four invalid fields")
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want a single wrapping InvalidConfigError", errs)
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("errs[0] = %T, want *InvalidConfigError", errs[0])
	}
	if len(cfgErr.FieldErrors) != 4 {
		t.Errorf("FieldErrors = %d, want 4", len(cfgErr.FieldErrors))
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("InvalidConfigError does not unwrap to ErrInvalidConfig")
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Errorf("DefaultConfig() is invalid: %v", errs)
	}
}
