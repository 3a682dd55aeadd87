package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/roamly/roamly/pkg/types"
)

// OCR candidate limits.
const (
	DefaultCandidateLimit = 100
	MaxCandidateLimit     = 6000
)

const insertMap = `INSERT INTO maps (` + mapColumns + `) VALUES (
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(file_path) DO UPDATE SET
    file_name = excluded.file_name,
    mime = excluded.mime,
    width = excluded.width,
    height = excluded.height,
    size_bytes = excluded.size_bytes,
    mtime_ms = excluded.mtime_ms,
    source = excluded.source,
    title = COALESCE(NULLIF(maps.title, ''), excluded.title),
    scope_level = COALESCE(NULLIF(maps.scope_level, ''), excluded.scope_level),
    country_code = COALESCE(NULLIF(maps.country_code, ''), excluded.country_code),
    country_name = COALESCE(NULLIF(maps.country_name, ''), excluded.country_name),
    province = COALESCE(NULLIF(maps.province, ''), excluded.province),
    city = COALESCE(NULLIF(maps.city, ''), excluded.city),
    district = COALESCE(NULLIF(maps.district, ''), excluded.district),
    latitude = COALESCE(maps.latitude, excluded.latitude),
    longitude = COALESCE(maps.longitude, excluded.longitude),
    ocr_text = CASE WHEN maps.ocr_mtime_ms = excluded.mtime_ms THEN maps.ocr_text ELSE excluded.ocr_text END,
    ocr_status = CASE WHEN maps.ocr_mtime_ms = excluded.mtime_ms THEN maps.ocr_status ELSE excluded.ocr_status END,
    ocr_error = CASE WHEN maps.ocr_mtime_ms = excluded.mtime_ms THEN maps.ocr_error ELSE excluded.ocr_error END,
    ocr_updated_at = CASE WHEN maps.ocr_mtime_ms = excluded.mtime_ms THEN maps.ocr_updated_at ELSE excluded.ocr_updated_at END,
    ocr_mtime_ms = CASE WHEN maps.ocr_mtime_ms = excluded.mtime_ms THEN maps.ocr_mtime_ms ELSE excluded.ocr_mtime_ms END,
    updated_at = excluded.updated_at`

func mapArgs(m types.MapRecord) []any {
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := m.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	return []any{
		m.ID, m.FilePath, m.FileName, nullString(m.Title), nullString(m.Description),
		encodeTags(m.Tags), nullString(m.CollectionUnit),
		nullString(m.ScopeLevel), nullString(m.CountryCode), nullString(m.CountryName),
		nullString(m.Province), nullString(m.City), nullString(m.District),
		nullFloat(m.Latitude), nullFloat(m.Longitude),
		nullString(m.YearLabel), nullString(m.Mime), nullInt(m.Width), nullInt(m.Height),
		nullInt64(m.SizeBytes), nullInt64(m.Mtime), m.Source, boolInt(m.Favorite),
		nullString(m.OCRText), nullString(m.OCRStatus), nullString(m.OCRError),
		nullTime(m.OCRUpdatedAt), nullMillis(m.OCRMtime),
		formatTime(created), formatTime(updated),
	}
}

// ReconcileSource upserts rows for one source and deletes every row of
// that source whose file path is not among them. The pass runs in one
// transaction. It returns the number of deleted rows.
//
// Existing rows keep their title and location fields when set; technical
// attributes are overwritten; OCR fields survive only while the stored
// OCR mtime equals the scanned mtime.
func (b *Backend) ReconcileSource(ctx context.Context, source string, rows []types.MapRecord) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return 0, err
	}

	present := make(map[string]struct{}, len(rows))
	removed := 0
	err = withTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		for _, m := range rows {
			if m.ID == "" || m.FilePath == "" {
				return types.ErrInvalidID
			}
			m.Source = source
			present[m.FilePath] = struct{}{}
			if _, err := tx.ExecContext(ctx, insertMap, mapArgs(m)...); err != nil {
				return fmt.Errorf("upserting %s: %w", m.FilePath, err)
			}
		}

		paths, err := sourcePaths(ctx, tx, source)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if _, ok := present[p]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM maps WHERE source = ? AND file_path = ?", source, p,
			); err != nil {
				return fmt.Errorf("deleting %s: %w", p, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reconciling source %s: %w", source, err)
	}
	return removed, nil
}

func sourcePaths(ctx context.Context, q DBTX, source string) ([]string, error) {
	rows, err := q.QueryContext(ctx, "SELECT file_path FROM maps WHERE source = ?", source)
	if err != nil {
		return nil, fmt.Errorf("listing paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Get returns the map with the given id.
func (b *Backend) Get(ctx context.Context, id string) (types.MapRecord, error) {
	if id == "" {
		return types.MapRecord{}, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return types.MapRecord{}, err
	}

	row := db.QueryRowContext(ctx, "SELECT "+mapColumns+" FROM maps WHERE id = ?", id)
	m, err := scanMap(row)
	if err != nil {
		if err == types.ErrNotFound {
			return types.MapRecord{}, err
		}
		return types.MapRecord{}, fmt.Errorf("getting map %s: %w", id, err)
	}
	return m, nil
}

// UpdateMeta writes the user-editable fields of m (title, description,
// tags, collection unit, location and year label) to the row with m.ID.
func (b *Backend) UpdateMeta(ctx context.Context, m types.MapRecord) error {
	return b.update(ctx, m.ID, `UPDATE maps SET
    title = ?, description = ?, tags = ?, collection_unit = ?,
    scope_level = ?, country_code = ?, country_name = ?, province = ?, city = ?, district = ?,
    latitude = ?, longitude = ?, year_label = ?, updated_at = ?
WHERE id = ?`,
		nullString(m.Title), nullString(m.Description), encodeTags(m.Tags), nullString(m.CollectionUnit),
		nullString(m.ScopeLevel), nullString(m.CountryCode), nullString(m.CountryName),
		nullString(m.Province), nullString(m.City), nullString(m.District),
		nullFloat(m.Latitude), nullFloat(m.Longitude), nullString(m.YearLabel),
		formatTime(time.Now()), m.ID,
	)
}

// SetFavorite sets the favorite flag.
func (b *Backend) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return b.update(ctx, id, "UPDATE maps SET favorite = ?, updated_at = ? WHERE id = ?",
		boolInt(favorite), formatTime(time.Now()), id)
}

// MarkOCRProcessing flags the row as being recognized and clears its last
// error.
func (b *Backend) MarkOCRProcessing(ctx context.Context, id string) error {
	now := formatTime(time.Now())
	return b.update(ctx, id, `UPDATE maps SET
    ocr_status = ?, ocr_error = NULL, ocr_updated_at = ?, updated_at = ?
WHERE id = ?`, types.OCRProcessing, now, now, id)
}

// UpdateOCR stores a recognition result.
func (b *Backend) UpdateOCR(ctx context.Context, id string, s types.OCRState) error {
	return b.update(ctx, id, `UPDATE maps SET
    ocr_text = ?, ocr_status = ?, ocr_error = ?, ocr_updated_at = ?, ocr_mtime_ms = ?, updated_at = ?
WHERE id = ?`,
		nullString(s.OCRText), nullString(s.OCRStatus), nullString(s.OCRError),
		nullTime(s.OCRUpdatedAt), nullMillis(s.OCRMtime), formatTime(time.Now()), id,
	)
}

func (b *Backend) update(ctx context.Context, id, query string, args ...any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating map %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating map %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// OCRCandidates returns ids of maps needing recognition, newest first. A
// map needs recognition when its OCR result is missing, stale or failed;
// force selects every map. limit is clamped to [1, MaxCandidateLimit].
func (b *Backend) OCRCandidates(ctx context.Context, force bool, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	limit = min(limit, MaxCandidateLimit)

	query := `SELECT id FROM maps
WHERE ocr_mtime_ms IS NULL OR ocr_mtime_ms != mtime_ms OR ocr_status IS NULL OR ocr_status = 'error'
ORDER BY mtime_ms DESC LIMIT ?`
	if force {
		query = "SELECT id FROM maps ORDER BY mtime_ms DESC LIMIT ?"
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("selecting OCR candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning OCR candidate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// OCRCounts returns the number of maps per OCR status. Maps never
// recognized are counted as pending.
func (b *Backend) OCRCounts(ctx context.Context) (map[string]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT COALESCE(NULLIF(ocr_status, ''), ?), COUNT(*) FROM maps GROUP BY 1", types.OCRPending)
	if err != nil {
		return nil, fmt.Errorf("counting OCR status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning OCR status: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// BySource returns every map of a source ordered by file path.
func (b *Backend) BySource(ctx context.Context, source string) ([]types.MapRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+mapColumns+" FROM maps WHERE source = ? ORDER BY file_path", source)
	if err != nil {
		return nil, fmt.Errorf("listing maps of %s: %w", source, err)
	}
	defer rows.Close()

	var out []types.MapRecord
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
