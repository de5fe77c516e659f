package instrumentation

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/teemow/drivepush/internal/logging"
)

// Kinds of remote objects recorded in the audit log.
const (
	KindFolder = "folder"
	KindFile   = "file"
)

// RemoteOperation captures one remote create call for audit logging: which
// local entry it came from, where it went on Drive and how it ended.
type RemoteOperation struct {
	Kind      string // folder or file
	Operation string // create_folder, upload_file

	Name      string
	LocalPath string
	ParentID  string
	RemoteID  string
	Bytes     int64

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewRemoteOperation creates a RemoteOperation with timing started.
// Call Complete when the call returns.
func NewRemoteOperation(kind, operation string) *RemoteOperation {
	return &RemoteOperation{
		Kind:      kind,
		Operation: operation,
		StartTime: time.Now(),
	}
}

// WithName sets the remote object name.
func (ro *RemoteOperation) WithName(name string) *RemoteOperation {
	ro.Name = name
	return ro
}

// WithTarget sets the local source and the remote parent.
func (ro *RemoteOperation) WithTarget(localPath, parentID string) *RemoteOperation {
	ro.LocalPath = localPath
	ro.ParentID = parentID
	return ro
}

// WithBytes sets the number of bytes sent.
func (ro *RemoteOperation) WithBytes(n int64) *RemoteOperation {
	ro.Bytes = n
	return ro
}

// WithSpanContext extracts trace context from the current span.
func (ro *RemoteOperation) WithSpanContext(ctx context.Context) *RemoteOperation {
	ro.TraceID = GetTraceID(ctx)
	ro.SpanID = GetSpanID(ctx)
	return ro
}

// Complete marks the operation as finished and calculates its duration.
func (ro *RemoteOperation) Complete(remoteID string, err error) *RemoteOperation {
	ro.Duration = time.Since(ro.StartTime)
	ro.RemoteID = remoteID
	ro.Success = err == nil
	if err != nil {
		ro.Error = err.Error()
	}
	return ro
}

// Status returns "success" or "error" based on the Success field.
func (ro *RemoteOperation) Status() string {
	if ro.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for the record. localPath replaces the
// full path when the logger is configured to hide it.
func (ro *RemoteOperation) LogAttrs(localPath string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("kind", ro.Kind),
		logging.Operation(ro.Operation),
		logging.ParentID(ro.ParentID),
		logging.Duration(ro.Duration),
		logging.Status(ro.Status()),
	}

	if ro.Name != "" {
		attrs = append(attrs, slog.String("name", ro.Name))
	}
	if localPath != "" {
		attrs = append(attrs, logging.Path(localPath))
	}
	if ro.RemoteID != "" {
		attrs = append(attrs, logging.RemoteID(ro.RemoteID))
	}
	if ro.Kind == KindFile {
		attrs = append(attrs, logging.Size(ro.Bytes))
	}
	if ro.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ro.TraceID))
	}
	if ro.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ro.SpanID))
	}
	if ro.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, ro.Error))
	}

	return attrs
}

// AuditLogger writes one structured record per remote create call.
type AuditLogger struct {
	logger       *slog.Logger
	enabled      bool
	includePaths bool
	root         string
	account      string
}

// NewAuditLogger creates an AuditLogger that logs full paths.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludePaths: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:       logger,
		enabled:      config.Enabled,
		includePaths: config.IncludePaths,
	}
}

// SetRoot sets the upload root that paths are trimmed against when full
// paths are not logged.
func (al *AuditLogger) SetRoot(root string) {
	al.root = root
}

// SetAccount records the service-account identity. Only its domain is logged.
func (al *AuditLogger) SetAccount(email string) {
	al.account = email
}

// LogRemoteOperation logs ro at info level on success and warn level on failure.
func (al *AuditLogger) LogRemoteOperation(ro *RemoteOperation) {
	if al == nil || !al.enabled {
		return
	}

	attrs := ro.LogAttrs(al.displayPath(ro.LocalPath))
	if al.account != "" {
		attrs = append(attrs, slog.String("account_domain", ExtractUserDomain(al.account)))
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ro.Success {
		al.logger.Info("remote_object_created", args...)
	} else {
		al.logger.Warn("remote_operation_failed", args...)
	}
}

func (al *AuditLogger) displayPath(p string) string {
	if p == "" || al.includePaths || al.root == "" {
		return p
	}
	rel, err := filepath.Rel(al.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}

// ExtractUserDomain extracts the domain part from an email address.
//
// Example:
//
//	ExtractUserDomain("uploader@project.iam.gserviceaccount.com")  // "project.iam.gserviceaccount.com"
//	ExtractUserDomain("invalid")                                   // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}
