package storage

import (
	"context"
	"io"
	"io/fs"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/webdav"

	"github.com/roamly/roamly/pkg/types"
)

// newDAVServer serves dir over WebDAV for the duration of the test.
func newDAVServer(t *testing.T, dir string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(&webdav.Handler{
		FileSystem: webdav.Dir(dir),
		LockSystem: webdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)
	return srv
}

func TestWebDAVScan(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t, 2, 2)
	writeFile(t, dir, "maps/international/Japan/Tokyo/Tokyo/1930.png", img)
	writeFile(t, dir, "maps/a.jpg", img)
	writeFile(t, dir, "maps/readme.txt", []byte("x"))
	writeFile(t, dir, "maps/.roamly/project-data.json", []byte("{}"))
	writeFile(t, dir, "other/b.png", img)
	srv := newDAVServer(t, dir)

	b := NewWebDAV(types.WebDAVConfig{URL: srv.URL, RootPath: "/maps/"}, zap.NewNop())
	files, err := b.Scan(context.Background())
	require.NoError(t, err)

	byRel := map[string]FileInfo{}
	for _, f := range files {
		byRel[f.RelPath] = f
	}
	require.Len(t, byRel, 2)
	f, ok := byRel["international/Japan/Tokyo/Tokyo/1930.png"]
	require.True(t, ok)
	assert.Equal(t, "/maps/international/Japan/Tokyo/Tokyo/1930.png", f.FilePath)
	assert.Equal(t, int64(len(img)), f.Size)
	assert.Equal(t, "image/png", b.Describe(context.Background(), f).Mime)

	rc, err := b.Open(context.Background(), f.FilePath)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, img, data)
}

func TestWebDAVReadWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maps"), 0o755))
	srv := newDAVServer(t, dir)
	b := NewWebDAV(types.WebDAVConfig{URL: srv.URL, RootPath: "maps"}, zap.NewNop())
	ctx := context.Background()

	_, err := b.ReadFile(ctx, ".roamly/project-data.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, b.WriteFile(ctx, ".roamly/project-data.json", []byte(`{"version":1}`)))
	data, err := b.ReadFile(ctx, ".roamly/project-data.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(data))

	onDisk, err := os.ReadFile(filepath.Join(dir, "maps", ".roamly", "project-data.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(onDisk))

	ok, err := b.Exists(ctx, ".roamly/project-data.json")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.Exists(ctx, "missing.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWebDAVUploadAndFolders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "photo.jpg", []byte("a"))
	writeFile(t, dir, "a/b/c/x.png", nil)
	srv := newDAVServer(t, dir)
	b := NewWebDAV(types.WebDAVConfig{URL: srv.URL}, zap.NewNop())
	ctx := context.Background()

	rel, err := SaveUpload(ctx, b, "/", "photo.jpg", strings.NewReader("b"))
	require.NoError(t, err)
	assert.Equal(t, "photo_1.jpg", rel)

	data, err := os.ReadFile(filepath.Join(dir, "photo_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	dirs, err := b.ListDirs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a/b"}, dirs)
}

func TestWebDAVRelPath(t *testing.T) {
	b := NewWebDAV(types.WebDAVConfig{URL: "http://dav.invalid", RootPath: "/maps"}, zap.NewNop())

	rel, err := b.RelPath("/maps/a/b.png")
	require.NoError(t, err)
	assert.Equal(t, "a/b.png", rel)
	assert.Equal(t, "/maps/a/b.png", b.FilePath("a/b.png"))

	_, err = b.RelPath("/mapsx/b.png")
	assert.ErrorIs(t, err, types.ErrPathEscape)

	root := NewWebDAV(types.WebDAVConfig{URL: "http://dav.invalid"}, zap.NewNop())
	rel, err = root.RelPath("/a/b.png")
	require.NoError(t, err)
	assert.Equal(t, "a/b.png", rel)
}
