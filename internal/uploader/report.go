package uploader

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// Reporter receives human-readable progress events. Calls arrive in walk
// order from a single goroutine.
type Reporter interface {
	FolderCreated(relPath, name, id string)
	FileStarted(relPath string, size int64)
	Progress(localPath string, sent, total int64)
	FileUploaded(relPath, id string)
	Summary(res *Result)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) FolderCreated(string, string, string) {}
func (NopReporter) FileStarted(string, int64)            {}
func (NopReporter) Progress(string, int64, int64)        {}
func (NopReporter) FileUploaded(string, string)          {}
func (NopReporter) Summary(*Result)                      {}

// ConsoleReporter prints one line per created object and a final summary.
type ConsoleReporter struct {
	w            io.Writer
	showProgress bool

	// inProgress is set while a percentage line is open.
	inProgress bool
}

var _ Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter writes to w. With showProgress, resumable uploads also
// redraw a percentage line; only useful on a terminal.
func NewConsoleReporter(w io.Writer, showProgress bool) *ConsoleReporter {
	return &ConsoleReporter{w: w, showProgress: showProgress}
}

// FolderCreated prints the folder's path relative to the upload root. The
// root itself is shown by name.
func (c *ConsoleReporter) FolderCreated(relPath, name, id string) {
	if relPath == "" || relPath == "." {
		relPath = name
	}
	fmt.Fprintf(c.w, "Created folder '%s' on Google Drive with ID: %s\n", relPath, id)
}

func (c *ConsoleReporter) FileStarted(relPath string, size int64) {
	fmt.Fprintf(c.w, "Uploading file '%s' (%s)...\n", relPath, humanize.Bytes(uint64(size)))
}

func (c *ConsoleReporter) Progress(localPath string, sent, total int64) {
	if !c.showProgress || total <= 0 {
		return
	}

	pct := sent * 100 / total
	fmt.Fprintf(c.w, "\r  %s: %s / %s (%d%%)", filepath.Base(localPath),
		humanize.Bytes(uint64(sent)), humanize.Bytes(uint64(total)), pct)
	c.inProgress = true

	if sent >= total {
		c.endProgress()
	}
}

func (c *ConsoleReporter) endProgress() {
	if c.inProgress {
		fmt.Fprintln(c.w)
		c.inProgress = false
	}
}

func (c *ConsoleReporter) FileUploaded(relPath, id string) {
	c.endProgress()
	fmt.Fprintf(c.w, "File uploaded successfully: %s, File ID: %s\n", relPath, id)
}

func (c *ConsoleReporter) Summary(res *Result) {
	c.endProgress()

	counts := fmt.Sprintf("%s %s, %s %s, %s",
		humanize.Comma(int64(res.FoldersCreated)), plural(res.FoldersCreated, "folder", "folders"),
		humanize.Comma(int64(res.FilesUploaded)), plural(res.FilesUploaded, "file", "files"),
		humanize.Bytes(uint64(res.BytesUploaded)))
	elapsed := res.Duration.Round(10 * time.Millisecond)

	switch res.State {
	case StateCompleted:
		fmt.Fprintf(c.w, "Done: %s in %s\n", counts, elapsed)
	case StateAborted:
		fmt.Fprintf(c.w, "Aborted after %s: %s created before the error remain on Google Drive\n", elapsed, counts)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
