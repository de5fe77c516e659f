// Package cmd implements the command-line interface for drivepush.
//
// The root command takes exactly one path and uploads it to Google Drive:
// a regular file is uploaded on its own, a directory is recreated as a
// folder tree. The only subcommand is:
//   - version: Display version information
//
// Settings come from compiled-in defaults, an optional TOML config file and
// DRIVEPUSH_* environment variables, in that order.
package cmd
