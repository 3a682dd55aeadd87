package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/internal/sqlite"
	"github.com/roamly/roamly/pkg/types"
)

type env struct {
	configDir string
	dataDir   string
	library   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	e := env{configDir: t.TempDir(), dataDir: t.TempDir(), library: t.TempDir()}
	t.Setenv(paths.EnvConfigDir, e.configDir)
	t.Setenv("ROAMLY_OCR_ENABLED", "false")
	t.Setenv("ROAMLY_WATCH_LIBRARY", "false")
	t.Setenv("ROAMLY_MAP_LIBRARY_DIR", e.library)
	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (e env) writeMap(t *testing.T, rel string) {
	t.Helper()
	p := filepath.Join(e.library, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("img"), 0o644))
}

func (e env) list(t *testing.T, args ...string) sqlite.ListResult {
	t.Helper()
	out := e.mustRun(t, append([]string{"list", "--json"}, args...)...)
	var res sqlite.ListResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.Contains(t, out, "roamly v")
	assert.Contains(t, out, modulePath)
}

func TestInitWritesConfigOnce(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init", "--library", e.library)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, filepath.Join(e.dataDir, sqlite.DefaultFileName))

	raw, err := os.ReadFile(paths.ConfigFile(e.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "map_library_dir: "+e.library)
	assert.Contains(t, string(raw), "storage_driver: local")

	out = e.mustRun(t, "init")
	assert.Contains(t, out, "Kept existing")
}

func TestInitRejectsMissingLibrary(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "init", "--library", filepath.Join(e.library, "nope"))
	assert.ErrorIs(t, err, types.ErrRootMissing)
}

func TestLoadConfig(t *testing.T) {
	e := newEnv(t)
	t.Setenv("ROAMLY_OCR_LANG", "eng")
	require.NoError(t, os.WriteFile(paths.ConfigFile(e.configDir),
		[]byte("rescan_cron: \"0 3 * * *\"\nocr:\n  timeout: 30s\nlog:\n  level: info\n"), 0o644))

	cfg, err := loadConfig(e.configDir, e.dataDir)
	require.NoError(t, err)
	assert.Equal(t, e.dataDir, cfg.DataDir)
	assert.Equal(t, e.library, cfg.MapLibraryDir)
	assert.Equal(t, types.DriverLocal, cfg.StorageDriver)
	assert.Equal(t, "0 3 * * *", cfg.RescanCron)
	assert.Equal(t, "eng", cfg.OCR.Lang)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.False(t, cfg.OCR.Enabled)
	assert.False(t, cfg.WatchLibrary)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "/", cfg.WebDAV.RootPath)
	assert.Equal(t, filepath.Join(e.dataDir, "logs", "roamly.log"), cfg.Log.File.Filename)
}

func TestLoadConfigDataDirPrecedence(t *testing.T) {
	e := newEnv(t)
	fromFile := t.TempDir()
	require.NoError(t, os.WriteFile(paths.ConfigFile(e.configDir),
		[]byte("data_dir: "+fromFile+"\nlog:\n  file:\n    filename: roamly.log\n"), 0o644))

	cfg, err := loadConfig(e.configDir, "")
	require.NoError(t, err)
	assert.Equal(t, fromFile, cfg.DataDir)
	assert.Equal(t, filepath.Join(fromFile, "roamly.log"), cfg.Log.File.Filename)

	t.Setenv(paths.EnvDataDir, e.dataDir)
	cfg, err = loadConfig(e.configDir, "")
	require.NoError(t, err)
	assert.Equal(t, e.dataDir, cfg.DataDir)
}

func TestLoadConfigMalformed(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(paths.ConfigFile(e.configDir), []byte("ocr: [unclosed"), 0o644))
	_, err := loadConfig(e.configDir, e.dataDir)
	assert.Error(t, err)
}

func TestScanListShowEdit(t *testing.T) {
	e := newEnv(t)
	e.writeMap(t, "national/中国/四川/成都地铁图.png")
	e.writeMap(t, "world/globe.png")

	out := e.mustRun(t, "scan")
	assert.Contains(t, out, "Scanned 2 map(s)")

	res := e.list(t, "--province", "四川")
	require.Len(t, res.Items, 1)
	m := res.Items[0]
	assert.Equal(t, "成都地铁图", m.Title)

	out = e.mustRun(t, "show", m.ID)
	assert.Contains(t, out, "成都地铁图")
	assert.Contains(t, out, "四川")

	e.mustRun(t, "edit", m.ID, "--title", "成都轨道交通", "--tags", "地铁, 交通,", "--year", "2024")
	out = e.mustRun(t, "show", "--json", m.ID)
	var got types.MapRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "成都轨道交通", got.Title)
	assert.Equal(t, []string{"地铁", "交通"}, got.Tags)
	assert.Equal(t, "2024", got.YearLabel)

	out = e.mustRun(t, "favorite", m.ID)
	assert.Contains(t, out, "favorite: true")
	out = e.mustRun(t, "favorite", m.ID, "--set", "false")
	assert.Contains(t, out, "favorite: false")

	_, err := e.run(t, "favorite", m.ID, "--set", "maybe")
	assert.ErrorIs(t, err, errUsage)

	_, err = e.run(t, "show", "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestEditSurvivesCatalogRebuild(t *testing.T) {
	e := newEnv(t)
	e.writeMap(t, "a.png")
	e.mustRun(t, "scan")
	id := e.list(t).Items[0].ID

	e.mustRun(t, "edit", id, "--city", "成都")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		os.Remove(filepath.Join(e.dataDir, sqlite.DefaultFileName+suffix))
	}
	e.mustRun(t, "scan")

	res := e.list(t)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "成都", res.Items[0].City)
	assert.Equal(t, "四川", res.Items[0].Province)
}

func TestFacetsAndMeta(t *testing.T) {
	e := newEnv(t)
	e.writeMap(t, "national/中国/四川/a.png")
	e.mustRun(t, "scan")

	out := e.mustRun(t, "facets")
	assert.Contains(t, out, "CHINA PROVINCE")
	assert.Contains(t, out, "四川")

	out = e.mustRun(t, "meta", "snapshot")
	assert.Contains(t, out, "national/中国/四川/a.png")

	out = e.mustRun(t, "folders")
	assert.Contains(t, out, "national/中国/四川")

	dst := filepath.Join(t.TempDir(), "maps.jsonl")
	e.mustRun(t, "export", "--out", dst)
	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"province":"四川"`)
}

func TestUpload(t *testing.T) {
	e := newEnv(t)
	src := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpg"), 0o644))
	e.writeMap(t, "inbox/photo.jpg")

	out := e.mustRun(t, "upload", "--folder", "inbox", src)
	assert.Contains(t, out, "inbox/photo_1.jpg")

	_, err := e.run(t, "upload", "--folder", "../outside", src)
	assert.ErrorIs(t, err, types.ErrPathEscape)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(e.library), "outside"))
}

func TestPlaces(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "resolve-city", "--json", "成都")
	var loc types.Location
	require.NoError(t, json.Unmarshal([]byte(out), &loc))
	assert.Equal(t, "四川", loc.Province)
	assert.Equal(t, types.CountryChina, loc.CountryCode)

	_, err := e.run(t, "resolve-city", "Atlantis")
	assert.ErrorIs(t, err, errNoMatch)

	out = e.mustRun(t, "suggest", "成都")
	assert.Contains(t, out, "成都")

	out = e.mustRun(t, "cities")
	assert.Contains(t, out, "FULL NAME")
}

func TestSettings(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "settings", "show")
	assert.Contains(t, out, "local:"+e.library)

	_, err := e.run(t, "settings", "set")
	assert.ErrorIs(t, err, errUsage)

	_, err = e.run(t, "settings", "set", "--dir", filepath.Join(e.library, "missing"))
	assert.ErrorIs(t, err, types.ErrRootMissing)

	_, err = e.run(t, "settings", "set", "--driver", "ftp")
	assert.ErrorIs(t, err, types.ErrDriverUnknown)

	next := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(next, "b.png"), []byte("img"), 0o644))
	out = e.mustRun(t, "settings", "set", "--dir", next)
	assert.Contains(t, out, "Scanned 1 map(s)")

	out = e.mustRun(t, "settings", "show")
	assert.Contains(t, out, "local:"+next)
}

func TestOCRCommandsWithoutRecognizer(t *testing.T) {
	e := newEnv(t)
	e.writeMap(t, "a.png")
	e.mustRun(t, "scan")

	out := e.mustRun(t, "ocr", "status")
	assert.Contains(t, out, "Enabled:    false")
	assert.Contains(t, out, types.OCRPending)

	out = e.mustRun(t, "ocr", "queue")
	assert.Contains(t, out, "1 map(s) pending recognition")

	_, err := e.run(t, "ocr", "run")
	assert.ErrorIs(t, err, types.ErrOCRUnavailable)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", types.ErrNotFound), exitUserError},
		{types.ErrPathEscape, exitUserError},
		{fmt.Errorf("%w: x", errUsage), exitUserError},
		{errors.New("disk on fire"), exitSysError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.err.Error())
	}
}

func TestParseCoordinate(t *testing.T) {
	c, err := parseCoordinate("30.66")
	require.NoError(t, err)
	require.NotNil(t, c.Value)
	assert.True(t, c.Set)
	assert.InDelta(t, 30.66, *c.Value, 1e-9)

	c, err = parseCoordinate("none")
	require.NoError(t, err)
	assert.True(t, c.Set)
	assert.Nil(t, c.Value)

	_, err = parseCoordinate("north")
	assert.ErrorIs(t, err, errUsage)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitTags(" a, ,b,"))
	assert.Empty(t, splitTags(""))
}
