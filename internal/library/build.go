package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	ErrNotFound     = errors.New("library directory not found")
	ErrAccessDenied = errors.New("library directory not readable")
	ErrNotDirectory = errors.New("library path is not a directory")
	ErrSuperseded   = errors.New("scan superseded by a newer scan")
)

// DefaultExtensions are the file types the audio engine can decode.
var DefaultExtensions = []string{".mp3", ".flac", ".wav", ".ogg"}

type options struct {
	extensions []string
}

// Option configures Build.
type Option func(*options)

// WithExtensions sets the accepted audio file extensions (case-insensitive,
// leading dot optional).
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = lo.Map(exts, func(e string, _ int) string {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" && !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			return e
		})
	}
}

func (o *options) accepts(name string) bool {
	return lo.Contains(o.extensions, strings.ToLower(path.Ext(name)))
}

// BuildDir scans dir on the local filesystem.
func BuildDir(ctx context.Context, dir string, opts ...Option) (*Tree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, classify(abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}
	return Build(ctx, os.DirFS(abs), abs, opts...)
}

// Build scans fsys from its root and returns the library tree. base is the
// absolute path fsys is rooted at; it becomes the tree's Base and the root
// label. Children keep the order the listing reports. Subdirectories without
// any accepted file below them are left out, and unreadable subdirectories
// are skipped with a warning.
func Build(ctx context.Context, fsys fs.FS, base string, opts ...Option) (*Tree, error) {
	o := &options{}
	WithExtensions(DefaultExtensions...)(o)
	for _, opt := range opts {
		opt(o)
	}

	t := Empty(base)
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, classify(base, err)
	}
	if err := scanEntries(ctx, fsys, ".", entries, t, t.Root(), o); err != nil {
		return nil, err
	}
	log.Debug().Str("base", base).Int("tracks", len(t.Leaves())).Msg("library scanned")
	return t, nil
}

func scanEntries(ctx context.Context, fsys fs.FS, dir string, entries []fs.DirEntry, t *Tree, parent NodeID, o *options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if entry.Type().IsRegular() && o.accepts(name) {
				t.add(name, parent)
			}
			continue
		}

		sub := path.Join(dir, name)
		children, err := fs.ReadDir(fsys, sub)
		if err != nil {
			log.Warn().Err(err).Str("dir", sub).Msg("skipping unreadable directory")
			continue
		}
		if len(children) == 0 {
			continue
		}

		mark := len(t.nodes)
		id := t.add(name, parent)
		if err := scanEntries(ctx, fsys, sub, children, t, id, o); err != nil {
			return err
		}
		if len(t.nodes[id].Children) == 0 {
			// nothing playable below: drop the directory again
			t.nodes = t.nodes[:mark]
			siblings := t.nodes[parent].Children
			t.nodes[parent].Children = siblings[:len(siblings)-1]
		}
	}
	return nil
}

func classify(p string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w", p, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s: %w", p, ErrAccessDenied)
	default:
		return fmt.Errorf("failed to read %s: %w", p, err)
	}
}
