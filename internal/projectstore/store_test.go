package projectstore

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/webdav"

	"github.com/roamly/roamly/internal/storage"
	"github.com/roamly/roamly/pkg/types"
)

type switchableConfig struct {
	mu  sync.Mutex
	cfg types.StorageConfig
}

func (c *switchableConfig) Current() types.StorageConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *switchableConfig) set(cfg types.StorageConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

func openBackend(cfg types.StorageConfig) (storage.Backend, error) {
	return storage.Open(cfg, zap.NewNop())
}

func localConfig(dir string) types.StorageConfig {
	return types.StorageConfig{Driver: types.DriverLocal, MapLibraryDir: dir}
}

func strPtr(s string) *string { return &s }

func newStore(t *testing.T, cfg types.StorageConfig) (*Store, *switchableConfig, string) {
	t.Helper()
	cacheDir := t.TempDir()
	settings := &switchableConfig{cfg: cfg}
	return New(cacheDir, settings, openBackend, zap.NewNop()), settings, cacheDir
}

func TestUpsertWritesSidecarAndCache(t *testing.T) {
	lib := t.TempDir()
	s, _, _ := newStore(t, localConfig(lib))
	ctx := context.Background()

	tags := []string{" 铁路 ", "", "历史"}
	require.NoError(t, s.Upsert(ctx, types.DriverLocal, "/national/广州/old.jpg", types.MetaPatch{
		Title: strPtr("Canton"),
		Tags:  &tags,
	}))

	raw, err := os.ReadFile(filepath.Join(lib, SidecarDir, SidecarFile))
	require.NoError(t, err)
	var f File
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, FileVersion, f.Version)
	assert.Equal(t, "local:"+lib, f.Project.Key)
	rec, ok := f.Maps["national/广州/old.jpg"]
	require.True(t, ok)
	assert.Equal(t, "Canton", rec.Title)
	assert.Equal(t, []string{"铁路", "历史"}, rec.Tags)
	assert.Equal(t, types.DriverLocal, rec.Source)
	assert.False(t, rec.UpdatedAt.IsZero())

	assert.FileExists(t, s.CacheFile("local:"+lib))
}

func TestUpsertIsShallowMerge(t *testing.T) {
	s, _, _ := newStore(t, localConfig(t.TempDir()))
	ctx := context.Background()

	fav := true
	require.NoError(t, s.Upsert(ctx, types.DriverLocal, "a.jpg", types.MetaPatch{Title: strPtr("A")}))
	require.NoError(t, s.Upsert(ctx, types.DriverLocal, "a.jpg", types.MetaPatch{Favorite: &fav}))

	rec, err := s.Get(ctx, "a.jpg")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "A", rec.Title)
	assert.True(t, rec.Favorite)

	missing, err := s.Get(ctx, "b.jpg")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReloadPrefersPrimaryThenCache(t *testing.T) {
	lib := t.TempDir()
	s, _, _ := newStore(t, localConfig(lib))
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, types.DriverLocal, "a.jpg", types.MetaPatch{Title: strPtr("A")}))

	sidecar := filepath.Join(lib, SidecarDir, SidecarFile)
	require.NoError(t, os.Remove(sidecar))
	require.NoError(t, s.Reload(ctx))
	rec, err := s.Get(ctx, "a.jpg")
	require.NoError(t, err)
	require.NotNil(t, rec, "cache copy used when the primary is gone")
	assert.Equal(t, "A", rec.Title)

	require.NoError(t, os.WriteFile(sidecar, []byte("{not json"), 0o644))
	require.NoError(t, s.Reload(ctx))
	rec, err = s.Get(ctx, "a.jpg")
	require.NoError(t, err)
	require.NotNil(t, rec, "cache copy used when the primary is corrupt")

	primary := File{Version: 1, Maps: map[string]types.ProjectMetaRecord{"b.jpg": {Title: "B", Source: types.DriverLocal}}}
	raw, err := json.Marshal(primary)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(sidecar, raw, 0o644))
	require.NoError(t, s.Reload(ctx))
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Maps, 1)
	assert.Equal(t, "B", snap.Maps["b.jpg"].Title)
}

func TestReadsSidecarWrittenElsewhere(t *testing.T) {
	lib := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(lib, SidecarDir), 0o755))
	legacy := `{
  "version": 1,
  "project": {"key": "local:/old", "source": "local", "root": "/old"},
  "maps": {
    "national/中国/广东省/广州市/old.jpg": {
      "title": "Canton", "description": null, "tags": ["铁路"],
      "scope_level": "national", "country_code": "CN", "country_name": "中国",
      "province": "广东", "city": "广州", "district": null,
      "latitude": 23.1291, "longitude": null, "year_label": "1920",
      "favorite": true, "ocr_text": "广州", "ocr_status": "done", "ocr_error": null,
      "ocr_updated_at": "2024-03-01T10:00:00.000Z", "ocr_mtime_ms": 1709287200000.25,
      "source": "local", "updated_at": "2024-03-01T10:00:00.000Z"
    }
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(lib, SidecarDir, SidecarFile), []byte(legacy), 0o644))

	s, _, _ := newStore(t, localConfig(lib))
	rec, err := s.Get(context.Background(), "national/中国/广东省/广州市/old.jpg")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Canton", rec.Title)
	assert.Empty(t, rec.Description)
	require.NotNil(t, rec.Latitude)
	assert.Nil(t, rec.Longitude)
	require.NotNil(t, rec.OCRMtime)
	assert.Equal(t, types.Millis(1709287200000), *rec.OCRMtime)
	require.NotNil(t, rec.OCRUpdatedAt)
}

func TestPruneBySource(t *testing.T) {
	s, _, _ := newStore(t, localConfig(t.TempDir()))
	ctx := context.Background()

	require.NoError(t, s.BatchMerge(ctx, types.DriverLocal, []Entry{
		{RelativePath: "a.jpg", Patch: types.MetaPatch{Title: strPtr("A")}},
		{RelativePath: "b.jpg", Patch: types.MetaPatch{Title: strPtr("B")}},
		{RelativePath: "", Patch: types.MetaPatch{Title: strPtr("skipped")}},
	}))
	require.NoError(t, s.Upsert(ctx, types.DriverWebDAV, "c.jpg", types.MetaPatch{Title: strPtr("C")}))

	removed, err := s.Prune(ctx, types.DriverLocal, []string{"/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Maps, 2)
	assert.Contains(t, snap.Maps, "a.jpg")
	assert.Contains(t, snap.Maps, "c.jpg", "other sources are left alone")

	removed, err = s.Prune(ctx, types.DriverLocal, []string{"a.jpg"})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSwitchingConfigReloads(t *testing.T) {
	libA, libB := t.TempDir(), t.TempDir()
	s, settings, _ := newStore(t, localConfig(libA))
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, types.DriverLocal, "a.jpg", types.MetaPatch{Title: strPtr("A")}))

	settings.set(localConfig(libB))
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Maps)
	assert.Equal(t, "local:"+libB, snap.ProjectKey)

	settings.set(localConfig(libA))
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap.Maps, "a.jpg")
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := newStore(t, localConfig(t.TempDir()))
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, types.DriverLocal, "a.jpg", types.MetaPatch{Title: strPtr("A")}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	delete(snap.Maps, "a.jpg")

	rec, err := s.Get(ctx, "a.jpg")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestWebDAVPrimary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maps"), 0o755))
	srv := httptest.NewServer(&webdav.Handler{FileSystem: webdav.Dir(dir), LockSystem: webdav.NewMemLS()})
	defer srv.Close()

	cfg := types.StorageConfig{Driver: types.DriverWebDAV, WebDAV: types.WebDAVConfig{URL: srv.URL, RootPath: "/maps"}}
	s, _, _ := newStore(t, cfg)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, types.DriverWebDAV, "x/y.png", types.MetaPatch{Title: strPtr("Y")}))
	raw, err := os.ReadFile(filepath.Join(dir, "maps", SidecarDir, SidecarFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"x/y.png"`)

	assert.Equal(t, "x/y.png", s.RelativePath(types.DriverWebDAV, "/maps/x/y.png"))
	st := s.Status()
	assert.Equal(t, types.DriverWebDAV, st.Source)
	assert.Equal(t, "/maps", st.Root)
}

func TestPrimaryWriteFailureKeepsCache(t *testing.T) {
	srv := httptest.NewServer(&webdav.Handler{FileSystem: webdav.Dir(t.TempDir()), LockSystem: webdav.NewMemLS()})
	cfg := types.StorageConfig{Driver: types.DriverWebDAV, WebDAV: types.WebDAVConfig{URL: srv.URL}}
	s, _, _ := newStore(t, cfg)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))

	srv.Close()
	require.NoError(t, s.Upsert(ctx, types.DriverWebDAV, "a.png", types.MetaPatch{Title: strPtr("A")}))

	raw, err := os.ReadFile(s.CacheFile(cfg.ProjectKey()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"a.png"`)
}

func TestNilLoggerWarnsSafely(t *testing.T) {
	srv := httptest.NewServer(&webdav.Handler{FileSystem: webdav.Dir(t.TempDir()), LockSystem: webdav.NewMemLS()})
	cfg := types.StorageConfig{Driver: types.DriverWebDAV, WebDAV: types.WebDAVConfig{URL: srv.URL}}
	s := New(t.TempDir(), &switchableConfig{cfg: cfg}, openBackend, nil)
	ctx := context.Background()
	srv.Close()

	assert.NotPanics(t, func() {
		require.NoError(t, s.Upsert(ctx, types.DriverWebDAV, "a.png", types.MetaPatch{Title: strPtr("A")}))
	})
	rec, err := s.Get(ctx, "a.png")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "A", rec.Title)
}
