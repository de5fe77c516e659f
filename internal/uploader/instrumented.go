package uploader

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/drivepush/internal/drive"
	"github.com/teemow/drivepush/internal/instrumentation"
)

// Instrumented wraps remote so every call gets a span, metrics and an audit
// record. metrics and audit may be nil.
//
// Usage:
//
//	remote = uploader.Instrumented(remote, provider.Metrics(), auditLogger)
func Instrumented(remote RemoteClient, metrics *instrumentation.Metrics, audit *instrumentation.AuditLogger) RemoteClient {
	return &instrumentedRemote{next: remote, metrics: metrics, audit: audit}
}

type instrumentedRemote struct {
	next    RemoteClient
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
}

func (r *instrumentedRemote) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, drive.OpCreateFolder,
		attribute.String(instrumentation.SpanAttrName, name),
		attribute.String(instrumentation.SpanAttrParentID, parentID),
	)
	defer span.End()

	op := instrumentation.NewRemoteOperation(instrumentation.KindFolder, drive.OpCreateFolder).
		WithName(name).
		WithTarget("", parentID).
		WithSpanContext(ctx)

	start := time.Now()
	id, err := r.next.CreateFolder(ctx, name, parentID)
	r.finish(ctx, span, op, start, id, err)

	return id, err
}

func (r *instrumentedRemote) UploadFile(ctx context.Context, localPath, parentID string) (string, error) {
	var size int64
	if fi, err := os.Stat(localPath); err == nil {
		size = fi.Size()
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, drive.OpUploadFile,
		attribute.String(instrumentation.SpanAttrName, filepath.Base(localPath)),
		attribute.String(instrumentation.SpanAttrParentID, parentID),
		attribute.String(instrumentation.SpanAttrLocalPath, localPath),
		attribute.Int64(instrumentation.SpanAttrBytes, size),
	)
	defer span.End()

	op := instrumentation.NewRemoteOperation(instrumentation.KindFile, drive.OpUploadFile).
		WithName(filepath.Base(localPath)).
		WithTarget(localPath, parentID).
		WithBytes(size).
		WithSpanContext(ctx)

	start := time.Now()
	id, err := r.next.UploadFile(ctx, localPath, parentID)
	r.finish(ctx, span, op, start, id, err)
	if err == nil {
		r.metrics.RecordBytesUploaded(ctx, size)
	}

	return id, err
}

func (r *instrumentedRemote) finish(ctx context.Context, span trace.Span, op *instrumentation.RemoteOperation, start time.Time, id string, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		span.SetAttributes(attribute.String(instrumentation.SpanAttrFileID, id))
		instrumentation.SetSpanSuccess(span)
	}

	r.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, op.Operation, status, time.Since(start))
	r.audit.LogRemoteOperation(op.Complete(id, err))
}
