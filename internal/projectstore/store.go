// Package projectstore keeps the portable per-library metadata sidecar: a
// JSON document stored at .roamly/project-data.json inside the library,
// mirrored to a local cache so that it survives an unreachable library.
package projectstore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roamly/roamly/internal/storage"
	"github.com/roamly/roamly/pkg/types"
)

// Location of the sidecar inside a library.
const (
	SidecarDir  = storage.ReservedDir
	SidecarFile = "project-data.json"
	SidecarPath = SidecarDir + "/" + SidecarFile
)

// FileVersion is the sidecar format version.
const FileVersion = 1

// ConfigSource yields the active storage configuration.
type ConfigSource interface {
	Current() types.StorageConfig
}

// BackendOpener builds the file store for a configuration.
type BackendOpener func(cfg types.StorageConfig) (storage.Backend, error)

// ProjectInfo identifies the library a sidecar belongs to.
type ProjectInfo struct {
	Key       string    `json:"key"`
	Source    string    `json:"source"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File is the sidecar document.
type File struct {
	Version int                                `json:"version"`
	Project ProjectInfo                        `json:"project"`
	Maps    map[string]types.ProjectMetaRecord `json:"maps"`
}

// Snapshot is a copy of the sidecar's map records.
type Snapshot struct {
	ProjectKey string                             `json:"project_key"`
	Source     string                             `json:"source"`
	Maps       map[string]types.ProjectMetaRecord `json:"maps"`
}

// Status describes where the active sidecar lives.
type Status struct {
	ProjectKey string `json:"project_key"`
	Source     string `json:"source"`
	Root       string `json:"root"`
	CacheFile  string `json:"cache_file"`
}

// Entry is one record of a batch merge.
type Entry struct {
	RelativePath string
	Patch        types.MetaPatch
}

// Store is the sidecar for the active library. It is loaded lazily and
// reloaded whenever the project key of the active configuration changes.
type Store struct {
	cacheDir string
	settings ConfigSource
	open     BackendOpener
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	key     string
	cfg     types.StorageConfig
	backend storage.Backend
	data    *File
}

// New creates a store that caches sidecars under cacheDir.
func New(cacheDir string, settings ConfigSource, open BackendOpener, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cacheDir: cacheDir,
		settings: settings,
		open:     open,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CacheFile returns the cache path for a project key.
func (s *Store) CacheFile(projectKey string) string {
	sum := sha1.Sum([]byte(projectKey))
	return filepath.Join(s.cacheDir, hex.EncodeToString(sum[:])[:16]+".json")
}

// Status reports the active project without loading it.
func (s *Store) Status() Status {
	cfg := s.settings.Current()
	return Status{
		ProjectKey: cfg.ProjectKey(),
		Source:     cfg.Source(),
		Root:       cfg.Root(),
		CacheFile:  s.CacheFile(cfg.ProjectKey()),
	}
}

// Reload drops the in-memory copy and reads the sidecar again.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, true)
}

// Snapshot returns a copy of every record.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, false); err != nil {
		return Snapshot{}, err
	}
	maps := make(map[string]types.ProjectMetaRecord, len(s.data.Maps))
	for k, v := range s.data.Maps {
		maps[k] = v
	}
	return Snapshot{ProjectKey: s.key, Source: s.cfg.Source(), Maps: maps}, nil
}

// Get returns the record for a relative path, or nil.
func (s *Store) Get(ctx context.Context, relPath string) (*types.ProjectMetaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, false); err != nil {
		return nil, err
	}
	rec, ok := s.data.Maps[NormalizeRelativePath(relPath)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Upsert merges patch into the record for relPath and saves.
func (s *Store) Upsert(ctx context.Context, source, relPath string, patch types.MetaPatch) error {
	return s.BatchMerge(ctx, source, []Entry{{RelativePath: relPath, Patch: patch}})
}

// BatchMerge merges every entry and saves once.
func (s *Store) BatchMerge(ctx context.Context, source string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, false); err != nil {
		return err
	}

	now := s.now()
	changed := false
	for _, e := range entries {
		key := NormalizeRelativePath(e.RelativePath)
		if key == "" {
			continue
		}
		rec := s.data.Maps[key]
		e.Patch.Apply(&rec)
		rec.Tags = cleanTags(rec.Tags)
		rec.Source = source
		rec.UpdatedAt = now
		s.data.Maps[key] = rec
		changed = true
	}
	if !changed {
		return nil
	}
	return s.save(ctx)
}

// Prune deletes records of source whose path is not in present and
// returns how many were removed.
func (s *Store) Prune(ctx context.Context, source string, present []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, false); err != nil {
		return 0, err
	}

	keep := make(map[string]bool, len(present))
	for _, p := range present {
		if p = NormalizeRelativePath(p); p != "" {
			keep[p] = true
		}
	}
	removed := 0
	for key, rec := range s.data.Maps {
		if rec.Source == source && !keep[key] {
			delete(s.data.Maps, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx)
}

// RelativePath converts a catalog file path of the given source into a
// sidecar key.
func (s *Store) RelativePath(source, filePath string) string {
	s.mu.Lock()
	b := s.backend
	s.mu.Unlock()
	if b == nil {
		b, _ = s.open(s.settings.Current())
	}
	if b != nil && b.Source() == source {
		if rel, err := b.RelPath(filePath); err == nil {
			return NormalizeRelativePath(rel)
		}
	}
	return NormalizeRelativePath(filePath)
}

// NormalizeRelativePath makes a sidecar key: forward slashes, no leading
// slash, no surrounding space.
func NormalizeRelativePath(p string) string {
	return strings.TrimSpace(storage.CleanRelative(strings.TrimSpace(p)))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// load reads the sidecar when nothing is loaded, when force is set, or
// when the active project key changed. The primary copy wins over the
// cache; with neither, an empty document is started. Caller holds s.mu.
func (s *Store) load(ctx context.Context, force bool) error {
	cfg := s.settings.Current()
	key := cfg.ProjectKey()
	if !force && s.data != nil && s.key == key {
		return nil
	}

	backend, err := s.open(cfg)
	if err != nil {
		return fmt.Errorf("opening library for project %s: %w", key, err)
	}

	data := s.readPrimary(ctx, backend)
	if data == nil {
		data = s.readCache(key)
	}
	if data == nil {
		now := s.now()
		data = &File{
			Version: FileVersion,
			Project: ProjectInfo{Key: key, Source: cfg.Source(), Root: cfg.Root(), CreatedAt: now, UpdatedAt: now},
			Maps:    map[string]types.ProjectMetaRecord{},
		}
	}

	s.key, s.cfg, s.backend, s.data = key, cfg, backend, data
	s.logger.Debug("project metadata loaded",
		zap.String("project_key", key),
		zap.Int("maps", len(data.Maps)))
	return nil
}

func parseFile(raw []byte) *File {
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	if f.Maps == nil {
		f.Maps = map[string]types.ProjectMetaRecord{}
	}
	return &f
}

func (s *Store) readPrimary(ctx context.Context, b storage.Backend) *File {
	raw, err := b.ReadFile(ctx, SidecarPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("reading project file failed, trying cache", zap.Error(err))
		}
		return nil
	}
	f := parseFile(raw)
	if f == nil {
		s.logger.Warn("project file is not valid JSON, trying cache")
	}
	return f
}

func (s *Store) readCache(key string) *File {
	raw, err := os.ReadFile(s.CacheFile(key))
	if err != nil {
		return nil
	}
	return parseFile(raw)
}

// save writes the cache, then the primary copy. A failed primary write is
// logged and the cache copy is kept. Caller holds s.mu.
func (s *Store) save(ctx context.Context) error {
	s.data.Version = FileVersion
	s.data.Project.Key = s.key
	s.data.Project.Source = s.cfg.Source()
	s.data.Project.Root = s.cfg.Root()
	s.data.Project.UpdatedAt = s.now()
	if s.data.Project.CreatedAt.IsZero() {
		s.data.Project.CreatedAt = s.data.Project.UpdatedAt
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project file: %w", err)
	}
	if err := storage.WriteFileAtomic(s.CacheFile(s.key), bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("writing project cache: %w", err)
	}
	if err := s.backend.WriteFile(ctx, SidecarPath, raw); err != nil {
		s.logger.Warn("write primary project file failed, cache retained",
			zap.String("project_key", s.key), zap.Error(err))
	}
	return nil
}
