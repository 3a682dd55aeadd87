// Package library runs the catalog operations: scanning the active
// library into the catalog, folding OCR results into map metadata, user
// edits and uploads. Every change to a map's user metadata is mirrored to
// the project sidecar so the catalog database can be rebuilt by a rescan.
package library

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roamly/roamly/internal/infer"
	"github.com/roamly/roamly/internal/merge"
	"github.com/roamly/roamly/internal/ocr"
	"github.com/roamly/roamly/internal/projectstore"
	"github.com/roamly/roamly/internal/sqlite"
	"github.com/roamly/roamly/internal/storage"
	"github.com/roamly/roamly/pkg/types"
)

// FolderDepth bounds the folder listing.
const FolderDepth = 6

// describeWorkers bounds concurrent content reads during a scan.
const describeWorkers = 4

// Options configures a Service.
type Options struct {
	Catalog  *sqlite.Backend
	Store    *projectstore.Store
	Settings projectstore.ConfigSource
	Open     projectstore.BackendOpener

	// Recognizer is nil when OCR is disabled.
	Recognizer ocr.Recognizer
	OCRLang    string

	Logger *zap.Logger
}

// Service is the map library.
type Service struct {
	catalog    *sqlite.Backend
	store      *projectstore.Store
	settings   projectstore.ConfigSource
	open       projectstore.BackendOpener
	recognizer ocr.Recognizer
	ocrLang    string
	queue      *ocr.Queue
	logger     *zap.Logger
	now        func() time.Time

	ocrAvailable ocrAvailability
}

// New creates a Service. The OCR queue is created stopped.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		catalog:    opts.Catalog,
		store:      opts.Store,
		settings:   opts.Settings,
		open:       opts.Open,
		recognizer: opts.Recognizer,
		ocrLang:    opts.OCRLang,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.queue = ocr.NewQueue(s.ProcessOCR, logger.Named("ocr"))
	return s
}

// ScanResult summarizes one scan.
type ScanResult struct {
	RunID   string `json:"run_id"`
	Source  string `json:"source"`
	Scanned int    `json:"scanned"`
	Removed int    `json:"removed"`
	Pruned  int    `json:"pruned"`
}

// MapID identifies a file of a source. It depends only on its inputs.
func MapID(source, filePath string) string {
	sum := sha1.Sum([]byte(source + ":" + filePath))
	return hex.EncodeToString(sum[:])
}

// Backend opens the active library.
func (s *Service) Backend() (storage.Backend, error) {
	return s.open(s.settings.Current())
}

// ScanLibrary enumerates the active library and reconciles the catalog
// with it. Persisted sidecar metadata wins over inferred metadata; rows
// and sidecar records of files no longer present are removed. The
// merged records are then written back to the sidecar.
func (s *Service) ScanLibrary(ctx context.Context) (ScanResult, error) {
	b, err := s.Backend()
	if err != nil {
		return ScanResult{}, err
	}
	source := b.Source()
	res := ScanResult{RunID: uuid.NewString(), Source: source}
	logger := s.logger.With(zap.String("run_id", res.RunID), zap.String("source", source))

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("loading project metadata: %w", err)
	}

	files, err := b.Scan(ctx)
	if err != nil {
		return res, err
	}

	descs := make([]storage.Description, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(describeWorkers)
	for i, fi := range files {
		g.Go(func() error {
			descs[i] = b.Describe(gctx, fi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	now := s.now()
	rows := make([]types.MapRecord, 0, len(files))
	present := make([]string, 0, len(files))
	for i, fi := range files {
		rel := projectstore.NormalizeRelativePath(fi.RelPath)
		var persisted *types.ProjectMetaRecord
		if rec, ok := snapshot.Maps[rel]; ok {
			persisted = &rec
		}
		mime := descs[i].Mime
		if mime == "" {
			mime = storage.MimeByName(fi.Name)
		}
		size := fi.Size
		scan := merge.ScanAttrs{
			ID:        MapID(source, fi.FilePath),
			Source:    source,
			FilePath:  fi.FilePath,
			FileName:  fi.Name,
			Mime:      mime,
			Width:     descs[i].Width,
			Height:    descs[i].Height,
			SizeBytes: &size,
			Mtime:     fi.MtimeMillis(),
			Title:     infer.Title(fi.Name),
		}
		rows = append(rows, merge.Row(scan, infer.Guess(rel, fi.Name), persisted, now))
		present = append(present, rel)
	}

	if res.Removed, err = s.catalog.ReconcileSource(ctx, source, rows); err != nil {
		return res, err
	}
	res.Scanned = len(rows)

	if res.Pruned, err = s.store.Prune(ctx, source, present); err != nil {
		return res, fmt.Errorf("pruning project metadata: %w", err)
	}

	entries := make([]projectstore.Entry, 0, len(rows))
	for i, m := range rows {
		entries = append(entries, projectstore.Entry{RelativePath: present[i], Patch: types.FullPatch(m)})
	}
	if err := s.store.BatchMerge(ctx, source, entries); err != nil {
		return res, fmt.Errorf("writing project metadata: %w", err)
	}

	logger.Info("library scanned",
		zap.Int("scanned", res.Scanned),
		zap.Int("removed", res.Removed),
		zap.Int("pruned", res.Pruned))
	return res, nil
}

// Snapshot returns the sidecar records of the active library.
func (s *Service) Snapshot(ctx context.Context) (projectstore.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// ProjectMetaUpdate addresses a sidecar record by catalog file path or by
// library-relative path.
type ProjectMetaUpdate struct {
	Source       string
	FilePath     string
	RelativePath string
	Patch        types.MetaPatch
}

// UpsertProjectMeta merges a patch into one sidecar record.
func (s *Service) UpsertProjectMeta(ctx context.Context, u ProjectMetaUpdate) error {
	rel := u.RelativePath
	if rel == "" {
		rel = s.store.RelativePath(u.Source, u.FilePath)
	}
	if projectstore.NormalizeRelativePath(rel) == "" {
		return fmt.Errorf("%w: empty relative path", types.ErrInvalidID)
	}
	return s.store.Upsert(ctx, u.Source, rel, u.Patch)
}

func (s *Service) mirror(ctx context.Context, m types.MapRecord, patch types.MetaPatch) error {
	err := s.UpsertProjectMeta(ctx, ProjectMetaUpdate{Source: m.Source, FilePath: m.FilePath, Patch: patch})
	if err != nil {
		return fmt.Errorf("mirroring map %s to project metadata: %w", m.ID, err)
	}
	return nil
}
