package apperr

import (
	"errors"
	"fmt"
)

// CredentialError reports a failure to load or authorize the credential.
type CredentialError struct {
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("credential %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("credential: %v", e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// RemoteAPIError reports a failed call against the remote storage service.
type RemoteAPIError struct {
	// Op is the remote operation, e.g. "create_folder" or "upload_file".
	Op string

	// Name is the remote object name the call was about, if any.
	Name string

	// StatusCode is the HTTP status returned by the service, or 0 when the
	// request never got a response.
	StatusCode int

	Err error
}

func (e *RemoteAPIError) Error() string {
	target := e.Op
	if e.Name != "" {
		target = fmt.Sprintf("%s %q", e.Op, e.Name)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s: HTTP %d: %v", target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", target, e.Err)
}

func (e *RemoteAPIError) Unwrap() error {
	return e.Err
}

// LocalIOError reports a local file or directory that could not be read.
type LocalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error {
	return e.Err
}

// UsageError reports a bad command-line invocation.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// IsCredential reports whether err is or wraps a CredentialError.
func IsCredential(err error) bool {
	var target *CredentialError
	return errors.As(err, &target)
}

// IsRemote reports whether err is or wraps a RemoteAPIError.
func IsRemote(err error) bool {
	var target *RemoteAPIError
	return errors.As(err, &target)
}

// IsLocalIO reports whether err is or wraps a LocalIOError.
func IsLocalIO(err error) bool {
	var target *LocalIOError
	return errors.As(err, &target)
}

// IsUsage reports whether err is or wraps a UsageError.
func IsUsage(err error) bool {
	var target *UsageError
	return errors.As(err, &target)
}
