// Package storage abstracts the map library's file store: a local
// directory or a WebDAV share. Paths handed to callers are either
// library-relative (slash-separated) or backend file paths as recorded on
// catalog rows.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roamly/roamly/pkg/types"
)

// ReservedDir holds Roamly's own files inside a library. Scans skip it.
const ReservedDir = ".roamly"

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".tif": true, ".tiff": true, ".bmp": true, ".gif": true,
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(path.Ext(name))]
}

// FileInfo describes one image found by a scan.
type FileInfo struct {
	RelPath     string
	FilePath    string
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// MtimeMillis returns the modification time in milliseconds, or nil when
// the backend did not report one.
func (f FileInfo) MtimeMillis() *int64 {
	if f.ModTime.IsZero() {
		return nil
	}
	ms := f.ModTime.UnixMilli()
	return &ms
}

// Description is what can be learned from a file's content.
type Description struct {
	Mime   string
	Width  *int
	Height *int
}

// Backend is a library file store.
type Backend interface {
	// Source names the driver, as recorded on catalog rows.
	Source() string
	// Root is the library root in backend terms.
	Root() string
	// Scan lists every image under the root, skipping hidden entries and
	// the reserved directory.
	Scan(ctx context.Context) ([]FileInfo, error)
	// Describe reads what it can about a scanned file.
	Describe(ctx context.Context, fi FileInfo) Description
	// Open streams a file by its backend file path.
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
	// ReadFile reads a library-relative file. A missing file yields an
	// error matching fs.ErrNotExist.
	ReadFile(ctx context.Context, rel string) ([]byte, error)
	// WriteFile replaces a library-relative file, creating parents.
	WriteFile(ctx context.Context, rel string, data []byte) error
	// Put streams r into a library-relative file, creating parents.
	Put(ctx context.Context, rel string, r io.Reader) error
	// Exists reports whether a library-relative path exists.
	Exists(ctx context.Context, rel string) (bool, error)
	// ListDirs lists library-relative directories up to maxDepth levels.
	ListDirs(ctx context.Context, maxDepth int) ([]string, error)
	// FilePath maps a library-relative path to a backend file path.
	FilePath(rel string) string
	// RelPath maps a backend file path to a library-relative path.
	RelPath(filePath string) (string, error)
}

// Open returns the backend for cfg.
func Open(cfg types.StorageConfig, logger *zap.Logger) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Driver == types.DriverWebDAV {
		return NewWebDAV(cfg.WebDAV, logger), nil
	}
	return NewLocal(cfg.MapLibraryDir, logger), nil
}

// CleanRelative normalizes a library-relative path: backslashes become
// slashes and leading slashes are dropped.
func CleanRelative(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	return strings.TrimLeft(rel, "/")
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
