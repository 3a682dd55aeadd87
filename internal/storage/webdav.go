package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"
	"go.uber.org/zap"

	"github.com/roamly/roamly/pkg/types"
)

const webdavTimeout = 60 * time.Second

// WebDAV is a library on a WebDAV share. File paths are absolute remote
// paths.
type WebDAV struct {
	client *gowebdav.Client
	root   string
	logger *zap.Logger
}

// NewWebDAV returns a backend for cfg. No request is made until first use.
func NewWebDAV(cfg types.WebDAVConfig, logger *zap.Logger) *WebDAV {
	c := gowebdav.NewClient(strings.TrimSpace(cfg.URL), cfg.Username, cfg.Password)
	c.SetTimeout(webdavTimeout)
	return &WebDAV{client: c, root: types.NormalizeRootPath(cfg.RootPath), logger: logger}
}

func (w *WebDAV) Source() string { return types.DriverWebDAV }

func (w *WebDAV) Root() string { return w.root }

func (w *WebDAV) Scan(ctx context.Context) ([]FileInfo, error) {
	var out []FileInfo
	err := w.walk(ctx, w.root, -1, func(remote string, fi os.FileInfo) error {
		if fi.IsDir() || !IsImage(fi.Name()) {
			return nil
		}
		rel, err := w.RelPath(remote)
		if err != nil {
			return err
		}
		var ct string
		if typed, ok := fi.(interface{ ContentType() string }); ok {
			ct = typed.ContentType()
		}
		out = append(out, FileInfo{
			RelPath:     rel,
			FilePath:    remote,
			Name:        fi.Name(),
			Size:        fi.Size(),
			ModTime:     fi.ModTime(),
			ContentType: ct,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning webdav %s: %w", w.root, err)
	}
	return out, nil
}

// walk visits entries below dir breadth-first per directory. depth < 0
// means unlimited.
func (w *WebDAV) walk(ctx context.Context, dir string, depth int, visit func(remote string, fi os.FileInfo) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := w.client.ReadDir(dir)
	if err != nil {
		if dir == w.root {
			return err
		}
		w.logger.Warn("skipping unreadable webdav directory", zap.String("path", dir), zap.Error(err))
		return nil
	}
	for _, fi := range entries {
		if hidden(fi.Name()) {
			continue
		}
		remote := path.Join(dir, fi.Name())
		if err := visit(remote, fi); err != nil {
			return err
		}
		if fi.IsDir() && depth != 1 {
			next := depth - 1
			if depth < 0 {
				next = -1
			}
			if err := w.walk(ctx, remote, next, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *WebDAV) Describe(ctx context.Context, fi FileInfo) Description {
	m := strings.TrimSpace(strings.Split(fi.ContentType, ";")[0])
	if m == "" || m == octetStream {
		m = MimeByName(fi.Name)
	}
	return Description{Mime: m}
}

func (w *WebDAV) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.client.ReadStream(filePath)
}

func (w *WebDAV) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := w.client.Read(w.FilePath(rel))
	if gowebdav.IsErrNotFound(err) {
		return nil, fmt.Errorf("%s: %w", rel, fs.ErrNotExist)
	}
	return data, err
}

func (w *WebDAV) WriteFile(ctx context.Context, rel string, data []byte) error {
	return w.Put(ctx, rel, bytes.NewReader(data))
}

func (w *WebDAV) Put(ctx context.Context, rel string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	remote := w.FilePath(rel)
	if err := w.client.MkdirAll(path.Dir(remote), 0o755); err != nil {
		w.logger.Debug("webdav mkdir failed", zap.String("path", path.Dir(remote)), zap.Error(err))
	}
	return w.client.WriteStream(remote, r, 0o644)
}

func (w *WebDAV) Exists(ctx context.Context, rel string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := w.client.Stat(w.FilePath(rel))
	if gowebdav.IsErrNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *WebDAV) ListDirs(ctx context.Context, maxDepth int) ([]string, error) {
	var out []string
	err := w.walk(ctx, w.root, maxDepth, func(remote string, fi os.FileInfo) error {
		if !fi.IsDir() {
			return nil
		}
		rel, err := w.RelPath(remote)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing webdav folders under %s: %w", w.root, err)
	}
	sort.Strings(out)
	return out, nil
}

// FilePath joins rel onto the remote root.
func (w *WebDAV) FilePath(rel string) string {
	return path.Join(w.root, CleanRelative(rel))
}

// RelPath strips the remote root from an absolute remote path.
func (w *WebDAV) RelPath(filePath string) (string, error) {
	p := path.Clean("/" + strings.ReplaceAll(filePath, "\\", "/"))
	if w.root == "/" {
		return strings.TrimPrefix(p, "/"), nil
	}
	if p == w.root {
		return "", nil
	}
	if !strings.HasPrefix(p, w.root+"/") {
		return "", fmt.Errorf("%w: %s", types.ErrPathEscape, filePath)
	}
	return strings.TrimPrefix(p, w.root+"/"), nil
}
