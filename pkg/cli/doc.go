// Package cli implements the bindle command line interface.
//
// # Overview
//
// The CLI is a small set of subcommands over the resolution engine:
//
//	resolve   resolve workbooks into pinned requirements
//	install   sync the index, resolve, and install with pip
//	sync      mirror the remote package index locally
//	list      report installed internal packages
//	serve     run the resolution API server
//
// Configuration comes from BINDLE_* environment variables; workbooks
// come from positional arguments or a YAML manifest.
package cli
