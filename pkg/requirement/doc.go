// Package requirement provides the package requirement value type shared by
// the resolver, artifact inspector, and installer.
//
// # Overview
//
// A Requirement is an immutable (name, optional version) pair rendered in pip
// form ("name==version", or just "name" when unconstrained). Equality and
// ordering are defined by that rendering.
//
// The package also hosts the two parsers for the textual shapes requirements
// appear in ("pkg==version" on the command line and in pip output,
// "pkg (==version)" in built-artifact metadata) and the internal/external
// classifier used to split a resolved set before installation.
package requirement
