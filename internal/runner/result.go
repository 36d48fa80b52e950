// SPDX-License-Identifier: MPL-2.0

package runner

// Result is the outcome of a container-backed Ansible invocation.
// A non-zero ExitCode is ansible's own verdict (failed hosts, unreachable
// hosts, parse errors); it is not an infrastructure failure and is never
// folded into an error return.
type Result struct {
	// Stdout is the captured standard output of the tool.
	Stdout string

	// ExitCode is the exit code of the containerized process.
	ExitCode int

	// ContainerID names the container when it was kept alive
	// (galaxy installs with Keep set); empty otherwise.
	ContainerID string
}

// OK reports whether the invocation exited cleanly.
func (r *Result) OK() bool {
	return r.ExitCode == 0
}
