package uploader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/teemow/drivepush/internal/apperr"
	"github.com/teemow/drivepush/internal/drive"
	"github.com/teemow/drivepush/internal/logging"
	"github.com/teemow/drivepush/internal/walker"
)

// ErrUnsupportedPath is wrapped by the UsageError returned for a path that
// is neither a regular file nor a directory.
var ErrUnsupportedPath = errors.New("path is neither a regular file nor a directory")

// State is the lifecycle of a run.
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result summarizes a run. After an abort the counters describe what was
// created before the error; those objects stay on Drive.
type Result struct {
	State          State
	FoldersCreated int
	FilesUploaded  int
	BytesUploaded  int64

	// RootID is the remote id of the top-level object: the root folder for
	// a directory upload or the file itself for a single-file upload.
	RootID string

	Err      error
	Duration time.Duration
}

// Uploader runs one upload against a RemoteClient.
type Uploader struct {
	remote       RemoteClient
	rootParentID string
	reporter     Reporter
	logger       *slog.Logger
	skipHidden   bool
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithReporter sets where human-readable progress goes.
func WithReporter(r Reporter) Option {
	return func(u *Uploader) { u.reporter = r }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) { u.logger = logger }
}

// WithSkipHidden leaves out dot-files and dot-directories below the root.
func WithSkipHidden(skip bool) Option {
	return func(u *Uploader) { u.skipHidden = skip }
}

// New returns an Uploader that creates top-level objects under
// rootParentID. An empty rootParentID means the Drive root.
func New(remote RemoteClient, rootParentID string, opts ...Option) *Uploader {
	u := &Uploader{
		remote:       remote,
		rootParentID: rootParentID,
		reporter:     NopReporter{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run uploads localPath: a regular file as a single upload, a directory as
// a tree. The returned Result is never nil; its Err equals the returned error.
func (u *Uploader) Run(ctx context.Context, localPath string) (*Result, error) {
	fi, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return u.reject(fmt.Errorf("%w: %w", ErrUnsupportedPath, err))
		}
		return u.reject(&apperr.LocalIOError{Op: "stat", Path: localPath, Err: err})
	}

	switch {
	case fi.Mode().IsRegular():
		return u.UploadFile(ctx, localPath)
	case fi.IsDir():
		return u.UploadTree(ctx, localPath)
	default:
		return u.reject(fmt.Errorf("%w: %s is a %s", ErrUnsupportedPath, localPath, describeMode(fi.Mode())))
	}
}

func (u *Uploader) reject(err error) (*Result, error) {
	if errors.Is(err, ErrUnsupportedPath) {
		err = &apperr.UsageError{Err: err}
	}
	return &Result{State: StateAborted, Err: err}, err
}

func describeMode(m fs.FileMode) string {
	switch {
	case m&fs.ModeNamedPipe != 0:
		return "named pipe"
	case m&fs.ModeSocket != 0:
		return "socket"
	case m&fs.ModeCharDevice != 0:
		return "character device"
	case m&fs.ModeDevice != 0:
		return "device"
	default:
		return "special file"
	}
}

// UploadFile uploads a single file directly under the root parent.
func (u *Uploader) UploadFile(ctx context.Context, localPath string) (*Result, error) {
	run := u.start()

	var size int64
	if fi, err := os.Stat(localPath); err == nil {
		size = fi.Size()
	}

	id, err := u.uploadFile(ctx, localPath, filepath.Base(localPath), size, u.rootParentID, run.res)
	if err != nil {
		return run.abort(err)
	}
	run.res.RootID = id

	return run.complete()
}

// UploadTree recreates dir and everything below it under the root parent.
func (u *Uploader) UploadTree(ctx context.Context, dir string) (*Result, error) {
	run := u.start()

	// Remote folder id per walker RelPath.
	folders := make(map[string]string)

	w := walker.New(dir, walker.WithSkipHidden(u.skipHidden))
	for intent, err := range w.All() {
		if err != nil {
			return run.abort(err)
		}
		if err := ctx.Err(); err != nil {
			return run.abort(err)
		}

		parentID := u.rootParentID
		if intent.RelPath != walker.RootRel {
			id, ok := folders[intent.ParentRel]
			if !ok {
				return run.abort(fmt.Errorf("no remote folder for %q", intent.ParentRel))
			}
			parentID = id
		}

		switch intent.Kind {
		case walker.KindFolder:
			id, err := u.remote.CreateFolder(ctx, intent.Name, parentID)
			if err != nil {
				return run.abort(err)
			}
			folders[intent.RelPath] = id
			run.res.FoldersCreated++
			if intent.RelPath == walker.RootRel {
				run.res.RootID = id
			}

			u.logger.Debug("folder created",
				logging.Operation(drive.OpCreateFolder),
				logging.Path(intent.Path),
				logging.ParentID(parentID),
				logging.RemoteID(id))
			u.reporter.FolderCreated(intent.RelPath, intent.Name, id)

		case walker.KindFile:
			if _, err := u.uploadFile(ctx, intent.Path, intent.RelPath, intent.Size, parentID, run.res); err != nil {
				return run.abort(err)
			}
		}
	}

	return run.complete()
}

func (u *Uploader) uploadFile(ctx context.Context, localPath, display string, size int64, parentID string, res *Result) (string, error) {
	u.reporter.FileStarted(display, size)

	id, err := u.remote.UploadFile(ctx, localPath, parentID)
	if err != nil {
		return "", err
	}
	res.FilesUploaded++
	res.BytesUploaded += size

	u.logger.Debug("file uploaded",
		logging.Operation(drive.OpUploadFile),
		logging.Path(localPath),
		logging.ParentID(parentID),
		logging.RemoteID(id),
		logging.Size(size))
	u.reporter.FileUploaded(display, id)

	return id, nil
}

// run tracks one Running -> Completed|Aborted transition.
type run struct {
	u     *Uploader
	res   *Result
	start time.Time
}

func (u *Uploader) start() *run {
	return &run{u: u, res: &Result{State: StateRunning}, start: time.Now()}
}

func (r *run) complete() (*Result, error) {
	r.res.State = StateCompleted
	r.res.Duration = time.Since(r.start)

	r.u.logger.Info("upload completed",
		slog.Int("folders", r.res.FoldersCreated),
		slog.Int("files", r.res.FilesUploaded),
		logging.Size(r.res.BytesUploaded),
		logging.Duration(r.res.Duration),
		logging.Status(logging.StatusSuccess))
	r.u.reporter.Summary(r.res)

	return r.res, nil
}

func (r *run) abort(err error) (*Result, error) {
	r.res.State = StateAborted
	r.res.Err = err
	r.res.Duration = time.Since(r.start)

	r.u.logger.Error("upload aborted",
		slog.Int("folders", r.res.FoldersCreated),
		slog.Int("files", r.res.FilesUploaded),
		logging.Size(r.res.BytesUploaded),
		logging.Duration(r.res.Duration),
		logging.Status(logging.StatusError),
		logging.Err(err))
	r.u.reporter.Summary(r.res)

	return r.res, err
}
