// Package apperr defines the error taxonomy shared by drivepush components.
//
// Every failure that reaches the command line is one of four kinds:
//   - CredentialError: the service-account credential could not be loaded or was rejected
//   - RemoteAPIError: a Google Drive call failed (network, permission, quota)
//   - LocalIOError: a local file or directory could not be read
//   - UsageError: the command was invoked incorrectly
//
// Each kind wraps its cause, so errors.Is and errors.As see through them.
// None of them are recovered from locally; the first one aborts the run.
package apperr
