// SPDX-License-Identifier: MPL-2.0

package playbook

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// PlaybookBinary is the executable name for playbook runs.
	PlaybookBinary = "ansible-playbook"
	// GalaxyBinary is the executable name for galaxy operations.
	GalaxyBinary = "ansible-galaxy"

	// DefaultRequirementsFile is the requirements manifest used when the
	// caller does not name one.
	DefaultRequirementsFile RequirementsPath = "requirements.yml"
)

var (
	// ErrInvalidPlaybookPath is the sentinel error wrapped by InvalidPlaybookPathError.
	ErrInvalidPlaybookPath = errors.New("invalid playbook path")

	// ErrInvalidInventoryPath is the sentinel error wrapped by InvalidInventoryPathError.
	ErrInvalidInventoryPath = errors.New("invalid inventory path")

	// ErrInvalidExtraVar is the sentinel error wrapped by InvalidExtraVarError.
	ErrInvalidExtraVar = errors.New("invalid extra var")

	// ErrInvalidTag is the sentinel error wrapped by InvalidTagError.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidRequirementsPath is the sentinel error wrapped by InvalidRequirementsPathError.
	ErrInvalidRequirementsPath = errors.New("invalid requirements path")

	// ErrInvalidCommand is the sentinel error wrapped by InvalidCommandError.
	ErrInvalidCommand = errors.New("invalid playbook command")
)

type (
	// PlaybookPath identifies the playbook file, relative to the mounted
	// working directory. A valid path is non-empty, not whitespace-only,
	// and does not begin with '-' (which ansible-playbook would parse as
	// a flag instead of a positional argument).
	PlaybookPath string

	// InvalidPlaybookPathError is returned when a PlaybookPath is empty,
	// whitespace-only, or would be misread as a flag.
	InvalidPlaybookPathError struct {
		Value PlaybookPath
	}

	// InventoryPath identifies the inventory file, relative to the mounted
	// working directory. The zero value ("") is valid and means "no -i flag".
	InventoryPath string

	// InvalidInventoryPathError is returned when an InventoryPath is
	// non-empty but whitespace-only.
	InvalidInventoryPathError struct {
		Value InventoryPath
	}

	// ExtraVar is a single "key=value" variable assignment. The key must be
	// non-empty; the value may be empty. Everything after the first '=' is
	// the value, verbatim, matching ansible's own parsing of key=value pairs.
	ExtraVar string

	// InvalidExtraVarError is returned when an ExtraVar does not have the
	// key=value shape. Value carries the offending entry verbatim.
	InvalidExtraVarError struct {
		Value ExtraVar
	}

	// Tag filters which plays and tasks run. Tags are comma-joined into a
	// single --tags flag, so a valid Tag is non-empty, not whitespace-only,
	// and contains no comma (a comma would silently split it into two tags).
	Tag string

	// InvalidTagError is returned when a Tag is empty, whitespace-only,
	// or contains a comma.
	InvalidTagError struct {
		Value Tag
	}

	// RequirementsPath identifies a galaxy requirements manifest, relative
	// to the mounted working directory. A valid path is non-empty, not
	// whitespace-only, and does not begin with '-'.
	RequirementsPath string

	// InvalidRequirementsPathError is returned when a RequirementsPath is
	// empty, whitespace-only, or would be misread as a flag.
	InvalidRequirementsPathError struct {
		Value RequirementsPath
	}

	// Command is a fully typed ansible-playbook invocation. The zero value
	// is invalid (Playbook is required); all other fields are optional.
	// ExtraVars and Tags preserve caller order.
	Command struct {
		Playbook  PlaybookPath
		Inventory InventoryPath
		ExtraVars []ExtraVar
		Tags      []Tag
	}

	// InvalidCommandError is returned when a Command has one or more
	// invalid fields. It wraps the individual field validation errors
	// for inspection via errors.Is/As.
	InvalidCommandError struct {
		FieldErrs []error
	}

	// GalaxyInstallCommand is a typed "ansible-galaxy collection install"
	// invocation. The zero value of Requirements is invalid; use
	// NewGalaxyInstallCommand to get the default manifest name.
	GalaxyInstallCommand struct {
		Requirements RequirementsPath
	}
)

// Error implements the error interface.
func (e *InvalidPlaybookPathError) Error() string {
	if strings.HasPrefix(string(e.Value), "-") {
		return fmt.Sprintf("invalid playbook path %q: must not begin with '-'", e.Value)
	}
	return fmt.Sprintf("invalid playbook path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidPlaybookPath for errors.Is() compatibility.
func (e *InvalidPlaybookPathError) Unwrap() error { return ErrInvalidPlaybookPath }

// String returns the string representation of the PlaybookPath.
func (p PlaybookPath) String() string { return string(p) }

// Validate returns an error if the PlaybookPath is invalid.
func (p PlaybookPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" || strings.HasPrefix(string(p), "-") {
		return &InvalidPlaybookPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidInventoryPathError) Error() string {
	return fmt.Sprintf("invalid inventory path %q: must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidInventoryPath for errors.Is() compatibility.
func (e *InvalidInventoryPathError) Unwrap() error { return ErrInvalidInventoryPath }

// String returns the string representation of the InventoryPath.
func (p InventoryPath) String() string { return string(p) }

// Validate returns an error if the InventoryPath is invalid.
// The zero value ("") is valid and suppresses the -i flag.
func (p InventoryPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidInventoryPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidExtraVarError) Error() string {
	return fmt.Sprintf("invalid extra var %q: must be in key=value form with a non-empty key", e.Value)
}

// Unwrap returns ErrInvalidExtraVar for errors.Is() compatibility.
func (e *InvalidExtraVarError) Unwrap() error { return ErrInvalidExtraVar }

// String returns the string representation of the ExtraVar.
func (v ExtraVar) String() string { return string(v) }

// Validate returns an error if the ExtraVar does not match key=value.
// The value part may be empty ("key=" is valid); the key must not be.
func (v ExtraVar) Validate() error {
	key, _, found := strings.Cut(string(v), "=")
	if !found || key == "" {
		return &InvalidExtraVarError{Value: v}
	}
	return nil
}

// Key returns the variable name (everything before the first '=').
func (v ExtraVar) Key() string {
	key, _, _ := strings.Cut(string(v), "=")
	return key
}

// Error implements the error interface.
func (e *InvalidTagError) Error() string {
	if strings.Contains(string(e.Value), ",") {
		return fmt.Sprintf("invalid tag %q: must not contain ','", e.Value)
	}
	return fmt.Sprintf("invalid tag %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidTag for errors.Is() compatibility.
func (e *InvalidTagError) Unwrap() error { return ErrInvalidTag }

// String returns the string representation of the Tag.
func (t Tag) String() string { return string(t) }

// Validate returns an error if the Tag is invalid.
func (t Tag) Validate() error {
	if strings.TrimSpace(string(t)) == "" || strings.Contains(string(t), ",") {
		return &InvalidTagError{Value: t}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidRequirementsPathError) Error() string {
	if strings.HasPrefix(string(e.Value), "-") {
		return fmt.Sprintf("invalid requirements path %q: must not begin with '-'", e.Value)
	}
	return fmt.Sprintf("invalid requirements path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidRequirementsPath for errors.Is() compatibility.
func (e *InvalidRequirementsPathError) Unwrap() error { return ErrInvalidRequirementsPath }

// String returns the string representation of the RequirementsPath.
func (p RequirementsPath) String() string { return string(p) }

// Validate returns an error if the RequirementsPath is invalid.
func (p RequirementsPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" || strings.HasPrefix(string(p), "-") {
		return &InvalidRequirementsPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidCommandError.
func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid playbook command: %d field error(s): %v",
		len(e.FieldErrs), errors.Join(e.FieldErrs...))
}

// Unwrap returns the field errors joined with ErrInvalidCommand so callers
// can match both the sentinel and the individual typed errors.
func (e *InvalidCommandError) Unwrap() []error {
	return append([]error{ErrInvalidCommand}, e.FieldErrs...)
}

// Validate returns an error if any field of the Command is invalid.
// Every invalid field is reported, not just the first one found.
func (c Command) Validate() error {
	var errs []error
	if err := c.Playbook.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Inventory.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, v := range c.ExtraVars {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range c.Tags {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidCommandError{FieldErrs: errs}
	}
	return nil
}

// Args builds the ansible-playbook argument vector. The result is
// deterministic for equal commands: flag order is fixed, extra vars keep
// their input order as repeated --extra-vars pairs, tags collapse into a
// single comma-joined --tags flag, and the playbook path is always the
// last token.
//
// On validation failure no partial vector is returned.
func (c Command) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	args := []string{PlaybookBinary}

	if c.Inventory != "" {
		args = append(args, "-i", string(c.Inventory))
	}

	for _, v := range c.ExtraVars {
		args = append(args, "--extra-vars", string(v))
	}

	if len(c.Tags) > 0 {
		args = append(args, "--tags", joinTags(c.Tags))
	}

	args = append(args, string(c.Playbook))

	return args, nil
}

// NewGalaxyInstallCommand returns a GalaxyInstallCommand for the given
// requirements manifest, defaulting to requirements.yml when empty.
func NewGalaxyInstallCommand(requirements RequirementsPath) GalaxyInstallCommand {
	if requirements == "" {
		requirements = DefaultRequirementsFile
	}
	return GalaxyInstallCommand{Requirements: requirements}
}

// Validate returns an error if the Requirements path is invalid.
func (c GalaxyInstallCommand) Validate() error {
	return c.Requirements.Validate()
}

// Args builds the ansible-galaxy argument vector:
//
//	ansible-galaxy collection install -r <requirements>
func (c GalaxyInstallCommand) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []string{GalaxyBinary, "collection", "install", "-r", string(c.Requirements)}, nil
}

// joinTags joins tags with a single comma, no spaces.
func joinTags(tags []Tag) string {
	var b strings.Builder
	for i, t := range tags {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(string(t))
	}
	return b.String()
}
