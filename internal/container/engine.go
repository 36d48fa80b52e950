// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
)

const (
	// EngineTypePodman selects the Podman CLI engine.
	EngineTypePodman EngineType = "podman"
	// EngineTypeDocker selects the Docker CLI engine.
	EngineTypeDocker EngineType = "docker"
)

type (
	// EngineType identifies the container engine type.
	EngineType string

	// Engine defines the container operations ansiblectl needs. Anything
	// richer (builds, networks, port publishing) is deliberately absent:
	// playbook runs only ever mount a directory and execute one argv.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks if the engine is installed and responding.
		Available() bool
		// Version returns the engine version.
		Version(ctx context.Context) (string, error)

		// Run runs a command in a container.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
		// Pull pulls an image from a registry.
		Pull(ctx context.Context, image string) error
		// ImageExists checks if an image is present locally.
		ImageExists(ctx context.Context, image string) (bool, error)
		// Remove removes a container.
		Remove(ctx context.Context, containerID string, force bool) error
	}

	// ErrEngineNotAvailable is returned when a container engine is not available.
	ErrEngineNotAvailable struct {
		Engine string
		Reason string
	}
)

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a container engine of the preferred type, falling back
// to the other engine when the preferred one is not installed.
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypePodman:
		engine := NewPodmanEngine()
		if engine.Available() {
			return engine, nil
		}
		dockerEngine := NewDockerEngine()
		if dockerEngine.Available() {
			return dockerEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	case EngineTypeDocker:
		engine := NewDockerEngine()
		if engine.Available() {
			return engine, nil
		}
		podmanEngine := NewPodmanEngine()
		if podmanEngine.Available() {
			return podmanEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine.
// Podman is tried first since it is more common in rootless setups.
func AutoDetectEngine() (Engine, error) {
	podman := NewPodmanEngine()
	if podman.Available() {
		return podman, nil
	}

	docker := NewDockerEngine()
	if docker.Available() {
		return docker, nil
	}

	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (podman or docker) is available on this system",
	}
}
