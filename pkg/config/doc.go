// Package config provides application configuration management.
//
// # Overview
//
// Configuration is loaded from BINDLE_* environment variables with sensible
// defaults, validated once at startup. The bearer credential for the commit
// query additionally falls back to GITHUB_TOKEN, matching how CI jobs carry
// it.
//
// Workbook lists live in a small YAML manifest (bindle.yaml) rather than the
// environment, so a consuming repository can check in what it installs;
// command-line flags override manifest values.
package config
