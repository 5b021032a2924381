// Package resolver implements dependency resolution for workbook packages on
// the private index.
//
// # Overview
//
// A resolution run is sequential and stateless: one batched remote query for
// the latest commit on the primary branch of every requested workbook
// (falling back to the fallback branch), seed requirements encoded from
// those commits, a worklist expansion over the declared dependencies of the
// already-built artifacts, classification into internal and external
// requirements, and a heuristic one-version-per-package conflict resolution.
//
// # Conflict policy
//
// The resolver is not a general dependency solver. When one internal package
// is required at several branch-derived versions it prefers the version
// whose embedded branch matches the caller's primary branch, and otherwise
// degrades to the lexicographically first candidate with a warning. That
// degradation is the only recoverable condition in the pipeline; every other
// failure aborts the run, because proceeding would install a workbook at a
// wrong or absent version.
package resolver
