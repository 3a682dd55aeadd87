package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roamly/roamly/pkg/types"
)

const timeLayout = time.RFC3339Nano

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return int64(*i)
}

func nullInt64(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullMillis(m *types.Millis) any {
	if m == nil {
		return nil
	}
	return int64(*m)
}

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanMap reads one row selected with mapColumns.
func scanMap(s rowScanner) (types.MapRecord, error) {
	var (
		m                                               types.MapRecord
		title, description, collection, yearLabel, mime sql.NullString
		scope, countryCode, countryName                 sql.NullString
		province, city, district                        sql.NullString
		lat, lon                                        sql.NullFloat64
		width, height, size, mtime                      sql.NullInt64
		ocrText, ocrStatus, ocrError, ocrUpdated        sql.NullString
		ocrMtime                                        sql.NullInt64
		tags, createdAt, updatedAt                      string
		favorite                                        int
	)
	err := s.Scan(
		&m.ID, &m.FilePath, &m.FileName, &title, &description, &tags, &collection,
		&scope, &countryCode, &countryName, &province, &city, &district, &lat, &lon,
		&yearLabel, &mime, &width, &height, &size, &mtime, &m.Source, &favorite,
		&ocrText, &ocrStatus, &ocrError, &ocrUpdated, &ocrMtime, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return types.MapRecord{}, types.ErrNotFound
	}
	if err != nil {
		return types.MapRecord{}, fmt.Errorf("scanning map: %w", err)
	}

	m.Title = title.String
	m.Description = description.String
	m.Tags = decodeTags(tags)
	m.CollectionUnit = collection.String
	m.YearLabel = yearLabel.String
	m.Mime = mime.String
	m.Favorite = favorite != 0
	m.Location = types.Location{
		ScopeLevel:  scope.String,
		CountryCode: countryCode.String,
		CountryName: countryName.String,
		Province:    province.String,
		City:        city.String,
		District:    district.String,
		Latitude:    floatPtr(lat),
		Longitude:   floatPtr(lon),
	}
	if width.Valid {
		w := int(width.Int64)
		m.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		m.Height = &h
	}
	if size.Valid {
		m.SizeBytes = &size.Int64
	}
	if mtime.Valid {
		m.Mtime = &mtime.Int64
	}
	m.OCRState = types.OCRState{
		OCRText:   ocrText.String,
		OCRStatus: ocrStatus.String,
		OCRError:  ocrError.String,
	}
	if ocrUpdated.Valid {
		if t, err := time.Parse(timeLayout, ocrUpdated.String); err == nil {
			m.OCRUpdatedAt = &t
		}
	}
	if ocrMtime.Valid {
		v := types.Millis(ocrMtime.Int64)
		m.OCRMtime = &v
	}
	m.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return types.MapRecord{}, fmt.Errorf("parsing map created_at: %w", err)
	}
	m.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return types.MapRecord{}, fmt.Errorf("parsing map updated_at: %w", err)
	}
	return m, nil
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
