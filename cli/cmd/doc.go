// Package cmd implements the messageformat subcommands.
//
// Each command is a kong command struct with a Run method. Commands find
// the parsed [kong.Context] in their [context.Context] (see [WithContext])
// and write results to its standard output, leaving diagnostics to the
// package-level logger.
package cmd

const (
	// CacheIdentifier is the kong variable holding the path of the runtime
	// cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the
	// configuration file.
	ConfigIdentifier = "config"
)
