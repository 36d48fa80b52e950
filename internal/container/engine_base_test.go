// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"slices"
	"testing"
)

func TestBaseCLIEngine_RunArgs(t *testing.T) {
	t.Parallel()
	engine := NewBaseCLIEngine("/usr/bin/docker")

	tests := []struct {
		name     string
		opts     RunOptions
		expected []string
	}{
		{
			name: "minimal run",
			opts: RunOptions{
				Image:   "alpine/ansible:latest",
				Command: []string{"ansible-playbook", "site.yml"},
			},
			expected: []string{"run", "alpine/ansible:latest", "ansible-playbook", "site.yml"},
		},
		{
			name: "run with rm and workdir",
			opts: RunOptions{
				Image:   "alpine/ansible:latest",
				Command: []string{"ansible-playbook", "site.yml"},
				WorkDir: "/work",
				Remove:  true,
			},
			expected: []string{"run", "--rm", "-w", "/work", "alpine/ansible:latest", "ansible-playbook", "site.yml"},
		},
		{
			name: "run with name",
			opts: RunOptions{
				Image:   "alpine/ansible:latest",
				Command: []string{"ansible-galaxy", "collection", "install", "-r", "requirements.yml"},
				Name:    "ansiblectl-galaxy",
			},
			expected: []string{
				"run", "--name", "ansiblectl-galaxy",
				"alpine/ansible:latest",
				"ansible-galaxy", "collection", "install", "-r", "requirements.yml",
			},
		},
		{
			name: "run interactive with tty",
			opts: RunOptions{
				Image:       "alpine/ansible:latest",
				Command:     []string{"/bin/sh"},
				Interactive: true,
				TTY:         true,
			},
			expected: []string{"run", "-i", "-t", "alpine/ansible:latest", "/bin/sh"},
		},
		{
			name: "run with volume",
			opts: RunOptions{
				Image:   "alpine/ansible:latest",
				Command: []string{"ansible-playbook", "site.yml"},
				Volumes: []VolumeMount{
					{HostPath: "/home/user/playbooks", ContainerPath: "/work"},
				},
			},
			expected: []string{
				"run", "-v", "/home/user/playbooks:/work",
				"alpine/ansible:latest", "ansible-playbook", "site.yml",
			},
		},
		{
			name: "run with read-only volume",
			opts: RunOptions{
				Image:   "alpine/ansible:latest",
				Command: []string{"ansible-playbook", "site.yml"},
				Volumes: []VolumeMount{
					{HostPath: "/home/user/.ssh/id_ecdsa", ContainerPath: "/run/ansiblectl/ssh_key", ReadOnly: true},
				},
			},
			expected: []string{
				"run", "-v", "/home/user/.ssh/id_ecdsa:/run/ansiblectl/ssh_key:ro",
				"alpine/ansible:latest", "ansible-playbook", "site.yml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := engine.RunArgs(tt.opts)
			if !slices.Equal(args, tt.expected) {
				t.Errorf("RunArgs() mismatch\ngot:  %v\nwant: %v", args, tt.expected)
			}
		})
	}
}

func TestBaseCLIEngine_RunArgsWithEnv(t *testing.T) {
	t.Parallel()
	engine := NewBaseCLIEngine("/usr/bin/docker")

	args := engine.RunArgs(RunOptions{
		Image:   "alpine/ansible:latest",
		Command: []string{"ansible-playbook", "site.yml"},
		Env: map[string]string{
			"ANSIBLE_PRIVATE_KEY_FILE": "/run/ansiblectl/ssh_key",
			"ANSIBLE_FORCE_COLOR":      "1",
		},
	})

	// Map iteration order is non-deterministic; just check both pairs exist.
	keyFound := false
	colorFound := false
	for i, arg := range args {
		if arg == "-e" && i+1 < len(args) {
			if args[i+1] == "ANSIBLE_PRIVATE_KEY_FILE=/run/ansiblectl/ssh_key" {
				keyFound = true
			}
			if args[i+1] == "ANSIBLE_FORCE_COLOR=1" {
				colorFound = true
			}
		}
	}

	if !keyFound {
		t.Errorf("missing ANSIBLE_PRIVATE_KEY_FILE env var\nargs: %v", args)
	}
	if !colorFound {
		t.Errorf("missing ANSIBLE_FORCE_COLOR env var\nargs: %v", args)
	}
}

func TestBaseCLIEngine_PullAndRemoveArgs(t *testing.T) {
	t.Parallel()
	engine := NewBaseCLIEngine("/usr/bin/docker")

	if got, want := engine.PullArgs("alpine/ansible:latest"), []string{"pull", "alpine/ansible:latest"}; !slices.Equal(got, want) {
		t.Errorf("PullArgs() = %v, want %v", got, want)
	}
	if got, want := engine.RemoveArgs("abc123", false), []string{"rm", "abc123"}; !slices.Equal(got, want) {
		t.Errorf("RemoveArgs() = %v, want %v", got, want)
	}
	if got, want := engine.RemoveArgs("abc123", true), []string{"rm", "-f", "abc123"}; !slices.Equal(got, want) {
		t.Errorf("RemoveArgs(force) = %v, want %v", got, want)
	}
}

func TestRunOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     RunOptions
		sentinel error
	}{
		{
			name:     "missing image",
			opts:     RunOptions{Command: []string{"ansible-playbook", "site.yml"}},
			sentinel: ErrMissingImage,
		},
		{
			name:     "missing command",
			opts:     RunOptions{Image: "alpine/ansible:latest"},
			sentinel: ErrMissingCommand,
		},
		{
			name: "invalid volume",
			opts: RunOptions{
				Image:   "alpine/ansible:latest",
				Command: []string{"ansible-playbook", "site.yml"},
				Volumes: []VolumeMount{{HostPath: "", ContainerPath: "/work"}},
			},
			sentinel: ErrInvalidVolumeMount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.Validate()
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Validate() = %v, want errors.Is(%v)", err, tt.sentinel)
			}
		})
	}

	t.Run("valid options", func(t *testing.T) {
		t.Parallel()
		opts := RunOptions{
			Image:   "alpine/ansible:latest",
			Command: []string{"ansible-playbook", "site.yml"},
			Volumes: []VolumeMount{{HostPath: "/tmp/playbooks", ContainerPath: "/work"}},
		}
		if err := opts.Validate(); err != nil {
			t.Errorf("Validate() unexpected error: %v", err)
		}
	})
}
