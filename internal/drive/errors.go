package drive

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/teemow/drivepush/internal/apperr"
)

// Sentinel errors for classifying remote failures.
// Use errors.Is(err, drive.ErrForbidden) to check.
var (
	ErrBadRequest    = errors.New("drive: bad request")
	ErrUnauthorized  = errors.New("drive: unauthorized")
	ErrForbidden     = errors.New("drive: permission denied")
	ErrNotFound      = errors.New("drive: not found")
	ErrQuotaExceeded = errors.New("drive: storage quota exceeded")
	ErrRateLimited   = errors.New("drive: rate limited")
	ErrServerError   = errors.New("drive: server error")
	ErrNetwork       = errors.New("drive: network failure")
	ErrUnexpected    = errors.New("drive: unexpected response")
)

// Reasons Drive reports in the error body for quota and rate problems.
var (
	quotaReasons = map[string]bool{
		"storageQuotaExceeded":       true,
		"quotaExceeded":              true,
		"teamDriveFileLimitExceeded": true,
	}
	rateReasons = map[string]bool{
		"rateLimitExceeded":     true,
		"userRateLimitExceeded": true,
	}
)

// classifiedError joins the sentinel with the SDK error so both stay
// reachable through errors.Is / errors.As.
type classifiedError struct {
	sentinel error
	cause    error
}

func (e *classifiedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *classifiedError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}

// remoteError wraps err from a Drive call as an *apperr.RemoteAPIError.
// Context cancellation is passed through unclassified.
func remoteError(op, name string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &apperr.RemoteAPIError{Op: op, Name: name, Err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &apperr.RemoteAPIError{
			Op:         op,
			Name:       name,
			StatusCode: gerr.Code,
			Err:        &classifiedError{sentinel: classify(gerr), cause: err},
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &apperr.RemoteAPIError{Op: op, Name: name, Err: &classifiedError{sentinel: ErrNetwork, cause: err}}
	}

	return &apperr.RemoteAPIError{Op: op, Name: name, Err: &classifiedError{sentinel: ErrUnexpected, cause: err}}
}

// classify maps a Drive API error to a sentinel.
func classify(gerr *googleapi.Error) error {
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return ErrQuotaExceeded
		}
		if rateReasons[item.Reason] {
			return ErrRateLimited
		}
	}

	switch {
	case gerr.Code == http.StatusBadRequest:
		return ErrBadRequest
	case gerr.Code == http.StatusUnauthorized:
		return ErrUnauthorized
	case gerr.Code == http.StatusForbidden:
		return ErrForbidden
	case gerr.Code == http.StatusNotFound:
		return ErrNotFound
	case gerr.Code == http.StatusTooManyRequests:
		return ErrRateLimited
	case gerr.Code >= http.StatusInternalServerError:
		return ErrServerError
	default:
		return ErrUnexpected
	}
}
