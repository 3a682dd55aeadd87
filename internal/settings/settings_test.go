package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestLoadDefaults(t *testing.T) {
	h, err := Load(t.TempDir(), types.StorageConfig{MapLibraryDir: "/maps"}, nil)
	require.NoError(t, err)

	cfg := h.Current()
	assert.Equal(t, types.DriverLocal, cfg.Driver)
	assert.Equal(t, "/maps", cfg.MapLibraryDir)
	assert.Equal(t, "/", cfg.WebDAV.RootPath)
}

func TestLoadPersistedWins(t *testing.T) {
	dir := t.TempDir()
	raw, err := json.Marshal(map[string]any{
		"storageDriver": "webdav",
		"webdav":        map[string]any{"url": "http://dav.example", "rootPath": "maps/"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(paths.SettingsFile(dir), raw, 0o644))

	h, err := Load(dir, types.StorageConfig{Driver: types.DriverLocal, MapLibraryDir: "/maps"}, nil)
	require.NoError(t, err)
	cfg := h.Current()
	assert.Equal(t, types.DriverWebDAV, cfg.Driver)
	assert.Equal(t, "http://dav.example", cfg.WebDAV.URL)
	assert.Equal(t, "/maps", cfg.WebDAV.RootPath)
	assert.Equal(t, "/maps", cfg.MapLibraryDir, "unset fields keep defaults")
}

func TestLoadIgnoresMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(paths.SettingsFile(dir), []byte("{"), 0o644))

	h, err := Load(dir, types.StorageConfig{MapLibraryDir: "/maps"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/maps", h.Current().MapLibraryDir)
}

func TestUpdatePersists(t *testing.T) {
	dataDir := t.TempDir()
	lib := t.TempDir()
	h, err := Load(dataDir, types.StorageConfig{}, nil)
	require.NoError(t, err)

	cfg, err := h.Update(Update{Driver: strPtr("LOCAL"), MapLibraryDir: strPtr(lib)})
	require.NoError(t, err)
	assert.Equal(t, types.DriverLocal, cfg.Driver)
	assert.Equal(t, lib, cfg.MapLibraryDir)

	reloaded, err := Load(dataDir, types.StorageConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded.Current())
}

func TestUpdateValidation(t *testing.T) {
	lib := t.TempDir()
	file := filepath.Join(lib, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name string
		u    Update
		want error
	}{
		{"unknown driver", Update{Driver: strPtr("ftp")}, types.ErrDriverUnknown},
		{"missing dir", Update{MapLibraryDir: strPtr(filepath.Join(lib, "nope"))}, types.ErrRootMissing},
		{"not a dir", Update{MapLibraryDir: strPtr(file)}, types.ErrRootNotDirectory},
		{"webdav without url", Update{Driver: strPtr("webdav")}, types.ErrWebDAVNotConfigured},
		{"local without dir", Update{Driver: strPtr("local")}, types.ErrLibraryDirEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Load(t.TempDir(), types.StorageConfig{}, nil)
			require.NoError(t, err)
			before := h.Current()

			_, err = h.Update(tt.u)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, h.Current(), "failed update changes nothing")
			_, statErr := os.Stat(h.Path())
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestUpdateWebDAVAndRedacted(t *testing.T) {
	h, err := Load(t.TempDir(), types.StorageConfig{}, nil)
	require.NoError(t, err)

	cfg, err := h.Update(Update{
		Driver:    strPtr("webdav"),
		WebDAVURL: strPtr(" http://dav.example "),
		Username:  strPtr("ann"),
		Password:  strPtr("secret"),
		RootPath:  strPtr("library"),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://dav.example", cfg.WebDAV.URL)
	assert.Equal(t, "/library", cfg.WebDAV.RootPath)
	assert.Equal(t, "webdav:http://dav.example|/library", cfg.ProjectKey())

	assert.Equal(t, "********", h.Redacted().WebDAV.Password)
	assert.Equal(t, "secret", h.Current().WebDAV.Password)
}

func TestCheckLocalDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.Mkdir(filepath.Join(home, "maps"), 0o755))

	got, err := CheckLocalDir("~/maps")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "maps"), got)

	_, err = CheckLocalDir("  ")
	assert.ErrorIs(t, err, types.ErrLibraryDirEmpty)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandPath("relative/maps")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	got, err = ExpandPath(" ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
