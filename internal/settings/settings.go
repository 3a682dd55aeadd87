// Package settings holds the active storage configuration. The holder is
// the only place the active library changes; its state is persisted to
// runtime-settings.json in the data directory and takes precedence over
// the static configuration file.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/internal/storage"
	"github.com/roamly/roamly/pkg/types"
)

const redacted = "********"

// Holder is the current storage configuration.
type Holder struct {
	path   string
	logger *zap.Logger

	mu  sync.RWMutex
	cfg types.StorageConfig
}

// Load builds a holder from defaults overlaid with the persisted runtime
// settings. A missing or unreadable settings file leaves the defaults.
func Load(dataDir string, defaults types.StorageConfig, logger *zap.Logger) (*Holder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	h := &Holder{path: paths.SettingsFile(dataDir), logger: logger}

	cfg := defaults
	raw, err := os.ReadFile(h.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		logger.Warn("cannot read runtime settings", zap.String("path", h.path), zap.Error(err))
	default:
		var persisted types.StorageConfig
		if err := json.Unmarshal(raw, &persisted); err != nil {
			logger.Warn("ignoring malformed runtime settings", zap.String("path", h.path), zap.Error(err))
		} else {
			cfg = overlay(cfg, persisted)
		}
	}
	if cfg.Driver == "" {
		cfg.Driver = types.DriverLocal
	}
	cfg.WebDAV.RootPath = types.NormalizeRootPath(cfg.WebDAV.RootPath)
	h.cfg = cfg
	return h, nil
}

func overlay(base, top types.StorageConfig) types.StorageConfig {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&base.Driver, top.Driver)
	set(&base.MapLibraryDir, top.MapLibraryDir)
	set(&base.WebDAV.URL, top.WebDAV.URL)
	set(&base.WebDAV.Username, top.WebDAV.Username)
	set(&base.WebDAV.Password, top.WebDAV.Password)
	set(&base.WebDAV.RootPath, top.WebDAV.RootPath)
	return base
}

// Path returns the settings file.
func (h *Holder) Path() string { return h.path }

// Current returns the active configuration.
func (h *Holder) Current() types.StorageConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Redacted returns the active configuration with the password masked.
func (h *Holder) Redacted() types.StorageConfig {
	cfg := h.Current()
	if cfg.WebDAV.Password != "" {
		cfg.WebDAV.Password = redacted
	}
	return cfg
}

// Update is a partial change of the storage configuration. Nil fields are
// left unchanged.
type Update struct {
	Driver        *string
	MapLibraryDir *string
	WebDAVURL     *string
	Username      *string
	Password      *string
	RootPath      *string
}

// Update validates and applies u, persists the result and returns it. A
// local library directory must exist and be a directory.
func (h *Holder) Update(u Update) (types.StorageConfig, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.cfg
	if u.Driver != nil {
		d := strings.ToLower(strings.TrimSpace(*u.Driver))
		if d != types.DriverLocal && d != types.DriverWebDAV {
			return types.StorageConfig{}, fmt.Errorf("%w: %q", types.ErrDriverUnknown, *u.Driver)
		}
		next.Driver = d
	}
	if u.MapLibraryDir != nil && strings.TrimSpace(*u.MapLibraryDir) != "" {
		dir, err := CheckLocalDir(*u.MapLibraryDir)
		if err != nil {
			return types.StorageConfig{}, err
		}
		next.MapLibraryDir = dir
	}
	trimmed := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	trimmed(&next.WebDAV.URL, u.WebDAVURL)
	trimmed(&next.WebDAV.Username, u.Username)
	trimmed(&next.WebDAV.Password, u.Password)
	if u.RootPath != nil {
		next.WebDAV.RootPath = types.NormalizeRootPath(*u.RootPath)
	}

	if err := next.Validate(); err != nil {
		return types.StorageConfig{}, err
	}
	if err := h.save(next); err != nil {
		return types.StorageConfig{}, err
	}
	h.cfg = next
	h.logger.Info("storage settings updated",
		zap.String("driver", next.Driver),
		zap.String("project_key", next.ProjectKey()))
	return next, nil
}

func (h *Holder) save(cfg types.StorageConfig) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding runtime settings: %w", err)
	}
	if err := storage.WriteFileAtomic(h.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("writing runtime settings: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ and makes p absolute. A blank p stays
// blank.
func ExpandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", p, err)
		}
		p = filepath.Join(home, p[1:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}

// CheckLocalDir expands p and checks that it is an existing directory.
func CheckLocalDir(p string) (string, error) {
	abs, err := ExpandPath(p)
	if err != nil {
		return "", err
	}
	if abs == "" {
		return "", types.ErrLibraryDirEmpty
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrRootMissing, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", types.ErrRootNotDirectory, abs)
	}
	return abs, nil
}
