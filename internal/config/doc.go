// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the ansiblectl configuration.
// Configuration lives in a CUE file validated against an embedded schema;
// Viper layers file values over built-in defaults so a missing or partial
// config is never an error.
package config
