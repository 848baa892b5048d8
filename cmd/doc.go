// Package cmd implements the command-line interface of the bridge. It
// provides a hierarchical command structure for interacting with a
// database through the asynchronous client.
//
// The package is organized into several subpackages:
//
//   - db: Commands for database operations (query, insert, update, remove,
//     command) and a performance testing tool, running against the
//     in-process storage engine
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See mongobridge -help for a list of all commands.
package cmd
