// Package logging provides structured logging utilities for drivepush.
//
// Logs go to stderr through log/slog; console progress lines are written
// separately by the uploader. This package keeps attribute names consistent
// across components.
//
// # Usage Patterns
//
// Build the process logger once:
//
//	logger := logging.New(os.Stderr, "info")
//
// Attach standard attributes:
//
//	logger = logging.WithOperation(logger, "upload_file")
//	logger.Info("uploaded",
//	    logging.Path(localPath),
//	    logging.RemoteID(id),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Access tokens and private keys are never logged; use SanitizeToken when a
// token has to be mentioned at all.
package logging
