// SPDX-License-Identifier: MPL-2.0

// Package container abstracts the container engines (Docker/Podman) that
// ansiblectl shells out to. Engines are thin wrappers over the docker and
// podman binaries: they assemble run/pull/rm argument lists, execute them
// with an injectable exec function (mocked in tests), and translate exit
// codes into results.
//
// The package never decides what runs inside a container; callers hand it
// a ready argument vector and a set of mounts.
package container
