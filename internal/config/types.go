// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEngineAuto picks whichever engine is available, preferring Podman.
	ContainerEngineAuto ContainerEngine = "auto"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidImageRef is returned when an ImageRef value is empty or whitespace-only.
	ErrInvalidImageRef = errors.New("invalid image reference")
	// ErrInvalidMountPath is returned when a MountPath value is not an absolute path.
	ErrInvalidMountPath = errors.New("invalid mount path")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ImageRef is a container image reference such as "alpine/ansible:latest".
	// A valid reference must be non-empty and not whitespace-only; it is not
	// resolved or pulled here.
	ImageRef string

	// InvalidImageRefError is returned when an ImageRef value is empty or
	// whitespace-only. It wraps ErrInvalidImageRef for errors.Is().
	InvalidImageRefError struct {
		Value ImageRef
	}

	// MountPath is the in-container path where the playbook directory is
	// mounted. A valid path must be absolute (start with "/").
	MountPath string

	// InvalidMountPathError is returned when a MountPath value is not absolute.
	// It wraps ErrInvalidMountPath for errors.Is() compatibility.
	InvalidMountPathError struct {
		Value MountPath
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine specifies whether to use "podman", "docker", or "auto"
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// Image is the Ansible-equipped container image to run tools in
		Image ImageRef `json:"image" mapstructure:"image"`
		// MountPath is where the playbook directory appears inside the container
		MountPath MountPath `json:"mount_path" mapstructure:"mount_path"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEnginePodman, ContainerEngineDocker, ContainerEngineAuto:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker, auto)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ImageRef.
func (r ImageRef) String() string { return string(r) }

// IsValid returns whether the ImageRef is valid.
// A valid reference must be non-empty and not whitespace-only.
func (r ImageRef) IsValid() (bool, []error) {
	if strings.TrimSpace(string(r)) == "" {
		return false, []error{&InvalidImageRefError{Value: r}}
	}
	return true, nil
}

// Error implements the error interface for InvalidImageRefError.
func (e *InvalidImageRefError) Error() string {
	return fmt.Sprintf("invalid image reference %q: must be non-empty", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidImageRefError) Unwrap() error { return ErrInvalidImageRef }

// String returns the string representation of the MountPath.
func (p MountPath) String() string { return string(p) }

// IsValid returns whether the MountPath is valid.
// A valid path must be absolute.
func (p MountPath) IsValid() (bool, []error) {
	if !strings.HasPrefix(string(p), "/") {
		return false, []error{&InvalidMountPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidMountPathError.
func (e *InvalidMountPathError) Error() string {
	return fmt.Sprintf("invalid mount path %q: must be absolute", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidMountPathError) Unwrap() error { return ErrInvalidMountPath }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ContainerEngine.IsValid(), Image.IsValid(),
// MountPath.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Image.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.MountPath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineAuto,
		Image:           "alpine/ansible:latest",
		MountPath:       "/work",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
