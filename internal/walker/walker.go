package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/teemow/drivepush/internal/apperr"
)

// ErrConsumed is yielded when a Walker is ranged over more than once.
var ErrConsumed = errors.New("walker: sequence already consumed")

// Kind says what the uploader should do with an intent.
type Kind int

const (
	KindFolder Kind = iota
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RootRel is the RelPath of the walk root.
const RootRel = "."

// Intent is a single create-folder or upload-file step.
type Intent struct {
	Kind Kind

	// Path is the absolute local path.
	Path string

	// RelPath is slash-separated and relative to the walk root.
	RelPath string

	// ParentRel is the RelPath of the containing directory, empty for the root.
	ParentRel string

	// Name is the base name, used as the remote name.
	Name string

	// Size is the file size in bytes. Zero for folders.
	Size int64
}

// Option configures a Walker.
type Option func(*Walker)

// WithSkipHidden skips entries whose name starts with a dot. The walk root
// itself is never skipped.
func WithSkipHidden(skip bool) Option {
	return func(w *Walker) { w.skipHidden = skip }
}

// Walker produces the intents for one directory tree. It is single-use.
type Walker struct {
	root       string
	skipHidden bool
	used       atomic.Bool
}

// New returns a Walker rooted at root.
func New(root string, opts ...Option) *Walker {
	w := &Walker{root: root}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk is shorthand for New(root).All().
func Walk(root string, opts ...Option) iter.Seq2[Intent, error] {
	return New(root, opts...).All()
}

// All returns the intent sequence. The first read error is yielded once as
// an *apperr.LocalIOError and ends the sequence.
func (w *Walker) All() iter.Seq2[Intent, error] {
	return func(yield func(Intent, error) bool) {
		if w.used.Swap(true) {
			yield(Intent{}, ErrConsumed)
			return
		}

		root, err := filepath.Abs(w.root)
		if err != nil {
			yield(Intent{}, &apperr.LocalIOError{Op: "walk", Path: w.root, Err: err})
			return
		}

		fi, err := os.Stat(root)
		if err != nil {
			yield(Intent{}, &apperr.LocalIOError{Op: "stat", Path: root, Err: err})
			return
		}
		if !fi.IsDir() {
			yield(Intent{}, &apperr.LocalIOError{Op: "walk", Path: root, Err: errors.New("not a directory")})
			return
		}

		rootIntent := Intent{
			Kind:    KindFolder,
			Path:    root,
			RelPath: RootRel,
			Name:    filepath.Base(root),
		}
		if !yield(rootIntent, nil) {
			return
		}

		w.walkDir(root, RootRel, yield)
	}
}

// walkDir yields the entries of dir and then recurses into its
// subdirectories. It returns false once the sequence must stop.
func (w *Walker) walkDir(dir, rel string, yield func(Intent, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		yield(Intent{}, &apperr.LocalIOError{Op: "readdir", Path: dir, Err: err})
		return false
	}

	var subdirs []Intent
	for _, entry := range entries {
		if w.skipHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		intent, descend, err := w.intentFor(dir, rel, entry)
		if err != nil {
			yield(Intent{}, err)
			return false
		}
		if !yield(intent, nil) {
			return false
		}
		if descend {
			subdirs = append(subdirs, intent)
		}
	}

	for _, sub := range subdirs {
		if !w.walkDir(sub.Path, sub.RelPath, yield) {
			return false
		}
	}
	return true
}

// intentFor builds the intent for one directory entry and reports whether
// the walk should descend into it.
func (w *Walker) intentFor(dir, parentRel string, entry fs.DirEntry) (Intent, bool, error) {
	intent := Intent{
		Path:      filepath.Join(dir, entry.Name()),
		RelPath:   childRel(parentRel, entry.Name()),
		ParentRel: parentRel,
		Name:      entry.Name(),
	}

	switch {
	case entry.IsDir():
		intent.Kind = KindFolder
		return intent, true, nil

	case entry.Type()&fs.ModeSymlink != 0:
		fi, err := os.Stat(intent.Path)
		switch {
		case err != nil:
			// Dangling link; the upload reports the failure.
			intent.Kind = KindFile
		case fi.IsDir():
			intent.Kind = KindFolder
		default:
			intent.Kind = KindFile
			intent.Size = fi.Size()
		}
		return intent, false, nil

	default:
		fi, err := entry.Info()
		if err != nil {
			return Intent{}, false, &apperr.LocalIOError{Op: "stat", Path: intent.Path, Err: err}
		}
		intent.Kind = KindFile
		intent.Size = fi.Size()
		return intent, false, nil
	}
}

func childRel(parentRel, name string) string {
	if parentRel == RootRel {
		return name
	}
	return path.Join(parentRel, name)
}
