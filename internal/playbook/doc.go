// SPDX-License-Identifier: MPL-2.0

// Package playbook translates typed invocation parameters into argument
// vectors for the Ansible command-line tools (ansible-playbook and
// ansible-galaxy).
//
// The package is purely data-oriented: building an argument vector never
// touches the filesystem, starts a process, or mutates shared state.
// Validation happens before any token is emitted, so an invalid request
// fails fast with an error naming the offending input and no partial
// vector escapes to a container engine.
//
// Flag ordering is fixed and part of the contract, because Ansible applies
// later flags over earlier ones for the same key:
//
//	ansible-playbook [-i <inventory>] [--extra-vars <k=v>]... [--tags <a,b>] <playbook>
package playbook
