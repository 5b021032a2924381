// Package artifact locates built workbook wheels in the local package index
// and reads the dependency requirements they declare.
//
// # Overview
//
// A pinned internal requirement maps deterministically to a wheel filename
// ("-" in the package name becomes "_", version appended verbatim). The Store
// opens that wheel, finds its dist-info METADATA file, and parses the
// Requires-Dist entries into requirement values, caching per-artifact results
// for the duration of a resolution run.
//
// The Syncer mirrors the remote index (an S3 prefix) into the local wheel
// directory before resolution starts. The Store itself never fetches: a
// missing wheel after sync is a hard failure of the resolution run.
package artifact
