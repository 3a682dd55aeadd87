package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/roamly/roamly/pkg/types"
)

// Local is a library in a directory on this machine.
type Local struct {
	root   string
	logger *zap.Logger
}

// NewLocal returns a backend rooted at dir.
func NewLocal(dir string, logger *zap.Logger) *Local {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	return &Local{root: abs, logger: logger}
}

func (l *Local) Source() string { return types.DriverLocal }

func (l *Local) Root() string { return l.root }

// CheckRoot verifies that the root exists and is a directory.
func (l *Local) CheckRoot() error {
	info, err := os.Stat(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", types.ErrRootMissing, l.root)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", l.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", types.ErrRootNotDirectory, l.root)
	}
	return nil
}

func (l *Local) Scan(ctx context.Context) ([]FileInfo, error) {
	if err := l.CheckRoot(); err != nil {
		return nil, err
	}
	var out []FileInfo
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == l.root {
				return err
			}
			l.logger.Warn("skipping unreadable path", zap.String("path", p), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == l.root {
			return nil
		}
		if hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsImage(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			l.logger.Warn("skipping file that cannot be stat'ed", zap.String("path", p), zap.Error(err))
			return nil
		}
		rel, err := l.RelPath(p)
		if err != nil {
			return err
		}
		out = append(out, FileInfo{
			RelPath:  rel,
			FilePath: p,
			Name:     d.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", l.root, err)
	}
	return out, nil
}

func (l *Local) Describe(ctx context.Context, fi FileInfo) Description {
	d := Description{Mime: DetectMimeFile(fi.FilePath)}
	f, err := os.Open(fi.FilePath)
	if err != nil {
		l.logger.Debug("cannot open image for dimensions", zap.String("path", fi.FilePath), zap.Error(err))
		return d
	}
	defer f.Close()
	d.Width, d.Height = Dimensions(f)
	return d
}

func (l *Local) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if _, err := l.RelPath(filePath); err != nil {
		return nil, err
	}
	return os.Open(filePath)
}

func (l *Local) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	return os.ReadFile(l.FilePath(rel))
}

func (l *Local) WriteFile(ctx context.Context, rel string, data []byte) error {
	return WriteFileAtomic(l.FilePath(rel), bytes.NewReader(data))
}

func (l *Local) Put(ctx context.Context, rel string, r io.Reader) error {
	return WriteFileAtomic(l.FilePath(rel), r)
}

func (l *Local) Exists(ctx context.Context, rel string) (bool, error) {
	_, err := os.Stat(l.FilePath(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *Local) ListDirs(ctx context.Context, maxDepth int) ([]string, error) {
	if err := l.CheckRoot(); err != nil {
		return nil, err
	}
	var out []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == l.root {
				return err
			}
			return fs.SkipDir
		}
		if p == l.root || !d.IsDir() {
			return nil
		}
		if hidden(d.Name()) {
			return fs.SkipDir
		}
		rel, err := l.RelPath(p)
		if err != nil {
			return err
		}
		depth := strings.Count(rel, "/") + 1
		if depth > maxDepth {
			return fs.SkipDir
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing folders under %s: %w", l.root, err)
	}
	sort.Strings(out)
	return out, nil
}

func (l *Local) FilePath(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(CleanRelative(rel)))
}

func (l *Local) RelPath(filePath string) (string, error) {
	rel, err := filepath.Rel(l.root, filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrPathEscape, filePath)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", types.ErrPathEscape, filePath)
	}
	return rel, nil
}
