// Package memory implements the driver interface with an in-process
// storage engine. It exists for local development and for the CLI: the
// bridge can run against it without any server, and its state can be
// saved to and loaded from a file in any of the supported serialization
// formats.
//
// The engine keeps one document list per collection. Filters match by
// exact equality on every filter field; documents without an _id field
// get a generated one on insert.
package memory
