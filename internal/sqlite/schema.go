package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL for the catalog.
const (
	createMaps = `CREATE TABLE IF NOT EXISTS maps (
    id TEXT PRIMARY KEY,
    file_path TEXT NOT NULL UNIQUE,
    file_name TEXT NOT NULL,
    title TEXT,
    description TEXT,
    tags TEXT NOT NULL DEFAULT '[]',
    collection_unit TEXT,
    scope_level TEXT,
    country_code TEXT,
    country_name TEXT,
    province TEXT,
    city TEXT,
    district TEXT,
    latitude REAL,
    longitude REAL,
    year_label TEXT,
    mime TEXT,
    width INTEGER,
    height INTEGER,
    size_bytes INTEGER,
    mtime_ms INTEGER,
    source TEXT NOT NULL,
    favorite INTEGER NOT NULL DEFAULT 0,
    ocr_text TEXT,
    ocr_status TEXT,
    ocr_error TEXT,
    ocr_updated_at TEXT,
    ocr_mtime_ms INTEGER,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

var createIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_maps_title ON maps(title)`,
	`CREATE INDEX IF NOT EXISTS idx_maps_file_name ON maps(file_name)`,
	`CREATE INDEX IF NOT EXISTS idx_maps_scope ON maps(scope_level)`,
	`CREATE INDEX IF NOT EXISTS idx_maps_country ON maps(country_name)`,
	`CREATE INDEX IF NOT EXISTS idx_maps_city ON maps(city)`,
	`CREATE INDEX IF NOT EXISTS idx_maps_source ON maps(source)`,
}

// pragmas run on every new connection.
var pragmas = []string{
	`PRAGMA journal_mode = WAL`,
	`PRAGMA busy_timeout = 5000`,
	`PRAGMA foreign_keys = ON`,
}

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("applying %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, createMaps); err != nil {
		return fmt.Errorf("creating maps table: %w", err)
	}
	for _, stmt := range createIndexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// mapColumns lists every maps column in the order scanMap reads them.
const mapColumns = `id, file_path, file_name, title, description, tags, collection_unit,
    scope_level, country_code, country_name, province, city, district, latitude, longitude,
    year_label, mime, width, height, size_bytes, mtime_ms, source, favorite,
    ocr_text, ocr_status, ocr_error, ocr_updated_at, ocr_mtime_ms, created_at, updated_at`
