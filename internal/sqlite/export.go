package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Export writes every map, or every map of source when it is non-empty, to
// w as JSON lines ordered by source and file path. It returns the number
// of maps written.
func (b *Backend) Export(ctx context.Context, w io.Writer, source string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return 0, err
	}

	query := "SELECT " + mapColumns + " FROM maps"
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	rows, err := db.QueryContext(ctx, query+" ORDER BY source, file_path", args...)
	if err != nil {
		return 0, fmt.Errorf("exporting maps: %w", err)
	}
	defer rows.Close()

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	n := 0
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return n, err
		}
		if err := enc.Encode(m); err != nil {
			return n, fmt.Errorf("writing map %s: %w", m.ID, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flushing export: %w", err)
	}
	return n, nil
}
