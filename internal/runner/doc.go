// SPDX-License-Identifier: MPL-2.0

// Package runner executes built Ansible argument vectors inside containers.
// It owns everything the pure builder (internal/playbook) refuses to touch:
// mounting the playbook directory, ensuring the image is present, retrying
// transient engine failures, and capturing output.
//
// The container engine is an injected collaborator; the runner keeps no
// package-level state and can run concurrently from any number of goroutines.
package runner
