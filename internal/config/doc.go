// Package config resolves drivepush settings.
//
// Settings come from three layers, later layers winning:
//
//  1. compiled-in defaults (credential file, Drive scope, root parent)
//  2. an optional TOML file
//  3. DRIVEPUSH_* environment variables
//
// The credential path, scopes and root parent are deliberately not exposed
// as command-line flags.
package config
