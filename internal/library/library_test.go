package library

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/internal/projectstore"
	"github.com/roamly/roamly/internal/sqlite"
	"github.com/roamly/roamly/internal/storage"
	"github.com/roamly/roamly/pkg/types"
)

type staticConfig struct{ cfg types.StorageConfig }

func (c staticConfig) Current() types.StorageConfig { return c.cfg }

// fakeRecognizer returns canned text per file base name.
type fakeRecognizer struct {
	mu    sync.Mutex
	text  map[string]string
	err   error
	calls []string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, imagePath)
	if f.err != nil {
		return "", f.err
	}
	return f.text[filepath.Base(imagePath)], nil
}

type fixture struct {
	root    string
	dataDir string
	catalog *sqlite.Backend
	svc     *Service
	rec     *fakeRecognizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		root:    t.TempDir(),
		dataDir: t.TempDir(),
		catalog: sqlite.NewBackend(),
		rec:     &fakeRecognizer{text: map[string]string{}},
	}
	require.NoError(t, f.catalog.Attach(context.Background(), sqlite.Config{DataDir: f.dataDir}))
	t.Cleanup(func() { f.catalog.Detach() })

	settings := staticConfig{types.StorageConfig{Driver: types.DriverLocal, MapLibraryDir: f.root}}
	open := func(cfg types.StorageConfig) (storage.Backend, error) { return storage.Open(cfg, zap.NewNop()) }
	f.svc = New(Options{
		Catalog:    f.catalog,
		Store:      projectstore.New(paths.ProjectCacheDir(f.dataDir), settings, open, zap.NewNop()),
		Settings:   settings,
		Open:       open,
		Recognizer: f.rec,
		OCRLang:    "chi_sim+eng",
	})
	return f
}

func (f *fixture) write(t *testing.T, rel string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	p := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func (f *fixture) id(rel string) string {
	return MapID(types.DriverLocal, filepath.Join(f.root, filepath.FromSlash(rel)))
}

func (f *fixture) sidecar(t *testing.T, rel string) types.ProjectMetaRecord {
	t.Helper()
	snap, err := f.svc.Snapshot(context.Background())
	require.NoError(t, err)
	rec, ok := snap.Maps[rel]
	require.True(t, ok, "sidecar has %s", rel)
	return rec
}

func ptr[T any](v T) *T { return &v }

func TestMapIDIsDeterministic(t *testing.T) {
	assert.Equal(t, MapID("local", "/a/b.jpg"), MapID("local", "/a/b.jpg"))
	assert.NotEqual(t, MapID("local", "/a/b.jpg"), MapID("webdav", "/a/b.jpg"))
	assert.Len(t, MapID("local", "/a/b.jpg"), 40)
}

func TestScanLibraryInfersFromPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rel := "national/中国/广东省/广州市/old_city-map.png"
	f.write(t, rel)

	res, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.DriverLocal, res.Source)
	assert.Equal(t, 1, res.Scanned)
	assert.NotEmpty(t, res.RunID)

	m, err := f.svc.Get(ctx, f.id(rel))
	require.NoError(t, err)
	assert.Equal(t, "old city map", m.Title)
	assert.Equal(t, types.ScopeNational, m.ScopeLevel)
	assert.Equal(t, "CN", m.CountryCode)
	assert.Equal(t, "广东", m.Province)
	assert.Equal(t, "广州", m.City)
	require.NotNil(t, m.Latitude)
	assert.InDelta(t, 23.1291, *m.Latitude, 1e-6)
	assert.InDelta(t, 113.2644, *m.Longitude, 1e-6)
	assert.Equal(t, "image/png", m.Mime)
	assert.Equal(t, 4, *m.Width)
	assert.Equal(t, 3, *m.Height)
	assert.NotNil(t, m.Mtime)

	rec := f.sidecar(t, rel)
	assert.Equal(t, "old city map", rec.Title)
	assert.Equal(t, "广州", rec.City)
	assert.Equal(t, types.DriverLocal, rec.Source)
	_, err = os.Stat(filepath.Join(f.root, filepath.FromSlash(projectstore.SidecarPath)))
	assert.NoError(t, err, "sidecar written into the library")
}

func TestScanLibraryFallsBackToGlobal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.write(t, "scan001.png")

	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	m, err := f.svc.Get(ctx, f.id("scan001.png"))
	require.NoError(t, err)
	assert.Equal(t, types.GlobalLocation(), m.Location)
}

func TestScanLibraryRemovesMissingFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.write(t, "a.png")
	gone := f.write(t, "b.png")

	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	require.NoError(t, os.Remove(gone))

	res, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scanned)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, 1, res.Pruned)

	_, err = f.svc.Get(ctx, f.id("b.png"))
	assert.ErrorIs(t, err, types.ErrNotFound)
	snap, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotContains(t, snap.Maps, "b.png")
	assert.Contains(t, snap.Maps, "a.png")
}

func TestScanLibraryPersistedWinsAfterDatabaseLoss(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rel := "national/中国/云南省/昆明市/a.png"
	f.write(t, rel)

	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	m, err := f.svc.Get(ctx, f.id(rel))
	require.NoError(t, err)
	require.Equal(t, "云南", m.Province)

	_, err = f.svc.UpdateMeta(ctx, m.ID, MetaEdit{
		Title:           ptr("Sichuan survey"),
		Province:        ptr("四川"),
		AutoResolveCity: ptr(false),
	})
	require.NoError(t, err)

	// Lose the database entirely.
	dbPath := f.catalog.Path()
	require.NoError(t, f.catalog.Detach())
	for _, suffix := range []string{"", "-wal", "-shm"} {
		os.Remove(dbPath + suffix)
	}
	require.NoError(t, f.catalog.Attach(ctx, sqlite.Config{DataDir: f.dataDir}))

	_, err = f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	m, err = f.svc.Get(ctx, f.id(rel))
	require.NoError(t, err)
	assert.Equal(t, "Sichuan survey", m.Title)
	assert.Equal(t, "四川", m.Province)
	assert.Equal(t, "昆明", m.City)
}

func TestScanLibraryKeepsSidecarEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rel := "national/中国/云南省/昆明市/a.png"
	f.write(t, rel)

	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	require.Equal(t, "云南", f.sidecar(t, rel).Province)

	loc := types.ChinaLocation()
	loc.Province = "四川"
	require.NoError(t, f.svc.UpsertProjectMeta(ctx, ProjectMetaUpdate{
		Source:       types.DriverLocal,
		RelativePath: rel,
		Patch: types.MetaPatch{
			Description: ptr("user description"),
			Tags:        ptr([]string{"地铁"}),
			Favorite:    ptr(true),
			Location:    &loc,
		},
	}))

	for range 2 {
		_, err = f.svc.ScanLibrary(ctx)
		require.NoError(t, err)
	}

	rec := f.sidecar(t, rel)
	assert.Equal(t, "四川", rec.Province)
	assert.Equal(t, "user description", rec.Description)
	assert.Equal(t, []string{"地铁"}, rec.Tags)
	assert.True(t, rec.Favorite)
	assert.Equal(t, "a", rec.Title)
}

func TestScanLibraryMissingRoot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.root))

	_, err := f.svc.ScanLibrary(context.Background())
	assert.Error(t, err)
}

func TestProcessOCRMergesDerivedLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.write(t, "plan.png")
	f.rec.text["plan.png"] = "東京 Tokyo 都市計画図 1930"
	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	id := f.id("plan.png")

	require.NoError(t, f.svc.ProcessOCR(ctx, id))

	m, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.OCRDone, m.OCRStatus)
	assert.Equal(t, "東京 Tokyo 都市計画図 1930", m.OCRText)
	require.NotNil(t, m.OCRMtime)
	assert.Equal(t, *m.Mtime, int64(*m.OCRMtime))
	assert.Equal(t, types.Location{
		ScopeLevel: types.ScopeInternational, CountryCode: "JP", CountryName: "日本",
	}, m.Location)
	assert.Contains(t, m.Tags, "日本")

	rec := f.sidecar(t, "plan.png")
	assert.Equal(t, types.OCRDone, rec.OCRStatus)
	assert.Equal(t, "JP", rec.CountryCode)
	assert.Contains(t, rec.Tags, "日本")
}

func TestProcessOCRGlobalConvergence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rel := "national/中国/广东省/广州市/border.png"
	f.write(t, rel)
	f.rec.text["border.png"] = "中国 与 Russia 边界图"
	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.ProcessOCR(ctx, f.id(rel)))
	m, err := f.svc.Get(ctx, f.id(rel))
	require.NoError(t, err)
	assert.Equal(t, types.GlobalLocation(), m.Location)
}

func TestProcessOCREmptyText(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.write(t, "blank.png")
	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.ProcessOCR(ctx, f.id("blank.png")))
	m, err := f.svc.Get(ctx, f.id("blank.png"))
	require.NoError(t, err)
	assert.Equal(t, types.OCREmpty, m.OCRStatus)
	assert.Equal(t, types.GlobalLocation(), m.Location)
}

func TestProcessOCRFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.write(t, "broken.png")
	f.rec.err = errors.New("tesseract: " + strings.Repeat("x", 1000))
	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)
	id := f.id("broken.png")

	err = f.svc.ProcessOCR(ctx, id)
	require.Error(t, err)

	m, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.OCRError, m.OCRStatus)
	assert.Len(t, []rune(m.OCRError), 800)
	assert.Empty(t, m.OCRText)
	assert.NotNil(t, m.OCRMtime)

	rec := f.sidecar(t, "broken.png")
	assert.Equal(t, types.OCRError, rec.OCRStatus)

	st, err := f.svc.OCRStatus(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, st.LastError)
	assert.Equal(t, 1, st.Counts[types.OCRError])
}

func TestProcessOCRMissingMapIsSkipped(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.ProcessOCR(context.Background(), "missing"))
	assert.Empty(t, f.rec.calls)
}

func TestMergeOCRResultRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.MergeOCRResult(context.Background(), "x", "", "weird", "")
	assert.Error(t, err)
}

func TestOCRQueueDrainsCandidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.write(t, "one.png")
	f.write(t, "two.png")
	f.rec.text["one.png"] = "铁路 车站"
	_, err := f.svc.ScanLibrary(ctx)
	require.NoError(t, err)

	n, err := f.svc.QueueCandidates(ctx, false, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = f.svc.QueueCandidates(ctx, false, 0)
	require.NoError(t, err)
	assert.Zero(t, n, "already queued")

	require.NoError(t, f.svc.StartOCR(ctx))
	require.NoError(t, f.svc.WaitOCR(ctx))
	f.svc.StopOCR()

	st, err := f.svc.OCRStatus(ctx)
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.True(t, st.Available)
	assert.Equal(t, "chi_sim+eng", st.Lang)
	assert.Equal(t, 2, st.Queue.Processed)
	assert.Equal(t, map[string]int{types.OCRDone: 1, types.OCREmpty: 1}, st.Counts)

	ids, err := f.catalog.OCRCandidates(ctx, false, 0)
	require.NoError(t, err)
	assert.Empty(t, ids, "fresh results are not candidates")
}

func TestOCRDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.recognizer = nil

	assert.ErrorIs(t, f.svc.StartOCR(ctx), types.ErrOCRUnavailable)
	n, err := f.svc.QueueCandidates(ctx, true, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.svc.QueueIDs("a"))
}
