package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/drivepush/internal/apperr"
	"github.com/teemow/drivepush/internal/logging"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// DefaultChunkSize is used when no chunk size option is given.
	DefaultChunkSize = googleapi.DefaultUploadChunkSize
)

// Remote operation names, used in errors, logs and metrics.
const (
	OpCreateFolder = "create_folder"
	OpUploadFile   = "upload_file"
)

const (
	folderFields = "id, name, mimeType, createdTime, modifiedTime, webViewLink, parents"
	fileFields   = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents"
)

// Client wraps the Google Drive API service
type Client struct {
	service   *drive.Service
	chunkSize int
	logger    *slog.Logger
}

type clientOptions struct {
	endpoint  string
	chunkSize int
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithEndpoint overrides the Drive API base URL.
func WithEndpoint(url string) Option {
	return func(o *clientOptions) { o.endpoint = url }
}

// WithChunkSize sets the resumable upload chunk size in bytes. Files no
// larger than one chunk are sent in a single request.
func WithChunkSize(n int) Option {
	return func(o *clientOptions) { o.chunkSize = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// NewClient creates a Drive client that sends requests through httpClient,
// which must already carry authorization.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("an authorized HTTP client is required")
	}

	o := clientOptions{
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	svcOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(o.endpoint))
	}

	// Create Drive service
	driveService, err := drive.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service:   driveService,
		chunkSize: o.chunkSize,
		logger:    o.logger,
	}, nil
}

// CreateFolder creates a new folder named name under parentID. An empty
// parentID creates it in the Drive root. Every call creates a new folder,
// even when one with the same name already exists.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		SupportsAllDrives(true).
		Fields(folderFields).
		Do()
	if err != nil {
		return nil, remoteError(OpCreateFolder, name, err)
	}

	logging.WithOperation(c.logger, OpCreateFolder).Debug("folder created",
		slog.String("name", name),
		logging.ParentID(parentID),
		logging.RemoteID(driveFile.Id))

	return convertToFileInfo(driveFile), nil
}

// UploadReader uploads content as a new file called name.
func (c *Client) UploadReader(ctx context.Context, name string, content io.Reader, opts *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}
	if opts == nil {
		opts = &UploadOptions{}
	}

	file := &drive.File{
		Name: name,
	}
	if opts.ParentID != "" {
		file.Parents = []string{opts.ParentID}
	}
	if opts.MimeType != "" {
		file.MimeType = opts.MimeType
	}
	if opts.ModifiedTime != nil {
		file.ModifiedTime = opts.ModifiedTime.UTC().Format(time.RFC3339)
	}

	mediaOpts := []googleapi.MediaOption{googleapi.ChunkSize(c.chunkSize)}
	if opts.MimeType != "" {
		mediaOpts = append(mediaOpts, googleapi.ContentType(opts.MimeType))
	}

	call := c.service.Files.Create(file).
		Context(ctx).
		SupportsAllDrives(true).
		Media(content, mediaOpts...).
		Fields(fileFields)
	if opts.Progress != nil {
		call = call.ProgressUpdater(googleapi.ProgressUpdater(opts.Progress))
	}

	driveFile, err := call.Do()
	if err != nil {
		return nil, remoteError(OpUploadFile, name, err)
	}

	return convertToFileInfo(driveFile), nil
}

// UploadFile uploads the local file at localPath into parentID, keeping its
// base name and modification time. progress may be nil.
func (c *Client) UploadFile(ctx context.Context, localPath, parentID string, progress ProgressFunc) (*FileInfo, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, &apperr.LocalIOError{Op: "open", Path: localPath, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, &apperr.LocalIOError{Op: "stat", Path: localPath, Err: err}
	}
	if fi.IsDir() {
		return nil, &apperr.LocalIOError{Op: "open", Path: localPath, Err: errors.New("is a directory")}
	}

	size := fi.Size()
	modTime := fi.ModTime()
	opts := &UploadOptions{
		ParentID:     parentID,
		MimeType:     mimeTypeFor(localPath),
		ModifiedTime: &modTime,
	}
	if progress != nil {
		// The SDK does not know the total for a streamed body
		opts.Progress = func(sent, _ int64) { progress(sent, size) }
	}

	reader := &trackingReader{r: f}
	start := time.Now()

	info, err := c.UploadReader(ctx, filepath.Base(localPath), reader, opts)
	if reader.err != nil {
		return nil, &apperr.LocalIOError{Op: "read", Path: localPath, Err: reader.err}
	}
	if err != nil {
		return nil, err
	}

	logging.WithOperation(c.logger, OpUploadFile).Debug("file uploaded",
		logging.Path(localPath),
		logging.ParentID(parentID),
		logging.RemoteID(info.ID),
		logging.Size(size),
		logging.Duration(time.Since(start)))

	return info, nil
}

// mimeTypeFor guesses the content type from the file extension. Empty
// leaves detection to Drive.
func mimeTypeFor(localPath string) string {
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(localPath)))
	if err != nil {
		return ""
	}
	return mediaType
}

// trackingReader remembers the first read error so local failures can be
// told apart from remote ones after the SDK returns.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
