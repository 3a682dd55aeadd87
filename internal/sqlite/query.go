package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/roamly/roamly/pkg/types"
)

// Listing limits.
const (
	DefaultPageSize = 24
	MaxPageSize     = 120
)

// Facet labels for blank values.
const (
	UnknownScope    = "unknown"
	UnknownRegion   = "Unknown"
	GlobalCountry   = "全球"
	facetCountryMax = 80
	facetRegionMax  = 120
	facetCityMax    = 180
)

// ListQuery filters and pages a listing. Zero values disable a filter.
type ListQuery struct {
	Query        string
	Scope        string
	Country      string
	Province     string
	City         string
	Source       string
	Tag          string
	FavoriteOnly bool
	Page         int
	Limit        int
}

// ListResult is one page of maps.
type ListResult struct {
	Items   []types.MapRecord `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	HasMore bool              `json:"has_more"`
}

// FacetCount is one value of a facet and its number of maps.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets groups map counts by location field.
type Facets struct {
	Scope    []FacetCount `json:"scope"`
	Country  []FacetCount `json:"country"`
	Province []FacetCount `json:"province"`
	City     []FacetCount `json:"city"`
}

// IsUnknownKeyword reports whether a filter value asks for blank fields.
func IsUnknownKeyword(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "unknown", "未设置", "未知":
		return true
	}
	return false
}

// blank matches a column that is null, empty or holds an unknown keyword.
func blank(col string) string {
	return fmt.Sprintf(`(%[1]s IS NULL OR TRIM(%[1]s) = '' OR LOWER(TRIM(%[1]s)) = 'unknown'
    OR TRIM(%[1]s) = '未知' OR TRIM(%[1]s) = '未设置')`, col)
}

func like(v string) string { return "%" + v + "%" }

func tagLike(v string) string { return `%"` + v + `"%` }

func (q ListQuery) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q.Query != "" {
		clauses = append(clauses,
			"(title LIKE ? OR file_name LIKE ? OR city LIKE ? OR country_name LIKE ? OR ocr_text LIKE ?)")
		p := like(q.Query)
		args = append(args, p, p, p, p, p)
	}
	if q.Scope != "" {
		if IsUnknownKeyword(q.Scope) {
			clauses = append(clauses, blank("scope_level"))
		} else {
			clauses = append(clauses, "scope_level = ?")
			args = append(args, q.Scope)
		}
	}
	if q.Country != "" {
		switch {
		case strings.TrimSpace(q.Country) == GlobalCountry:
			clauses = append(clauses, `(country_name LIKE ? OR country_name IS NULL OR TRIM(country_name) = ''
    OR scope_level = 'international' OR tags LIKE ? OR ocr_text LIKE ?)`)
			args = append(args, like(q.Country), tagLike(q.Country), like(q.Country))
		case IsUnknownKeyword(q.Country):
			clauses = append(clauses, blank("country_name"))
		default:
			clauses = append(clauses, "(country_name LIKE ? OR tags LIKE ? OR ocr_text LIKE ?)")
			args = append(args, like(q.Country), tagLike(q.Country), like(q.Country))
		}
	}
	for _, f := range []struct{ col, val string }{
		{"province", q.Province},
		{"city", q.City},
	} {
		if f.val == "" {
			continue
		}
		if IsUnknownKeyword(f.val) {
			clauses = append(clauses, blank(f.col))
			continue
		}
		clauses = append(clauses, f.col+" LIKE ?")
		args = append(args, like(f.val))
	}
	if q.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, q.Source)
	}
	if q.FavoriteOnly {
		clauses = append(clauses, "favorite = 1")
	}
	if q.Tag != "" {
		clauses = append(clauses, "tags LIKE ?")
		args = append(args, tagLike(q.Tag))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one page of maps matching q, favorites first, then newest,
// then by file name.
func (b *Backend) List(ctx context.Context, q ListQuery) (ListResult, error) {
	page := max(q.Page, 1)
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)

	where, args := q.where()

	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return ListResult{}, err
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM maps"+where, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("counting maps: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+mapColumns+" FROM maps"+where+
			" ORDER BY favorite DESC, mtime_ms DESC, file_name ASC LIMIT ? OFFSET ?",
		append(args, limit, (page-1)*limit)...,
	)
	if err != nil {
		return ListResult{}, fmt.Errorf("listing maps: %w", err)
	}
	defer rows.Close()

	items := []types.MapRecord{}
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("listing maps: %w", err)
	}

	return ListResult{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: page*limit < total,
	}, nil
}

// Facets counts maps by scope, country, province and city. A non-empty
// source restricts the counts to that source.
func (b *Backend) Facets(ctx context.Context, source string) (Facets, error) {
	where, args := "", []any(nil)
	if source != "" {
		where, args = " WHERE source = ?", []any{source}
	}
	labelled := func(col, label string) string {
		return fmt.Sprintf("CASE WHEN %s THEN '%s' ELSE TRIM(%s) END", blank(col), label, col)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return Facets{}, err
	}

	group := func(expr string, limit int) ([]FacetCount, error) {
		query := "SELECT " + expr + " AS value, COUNT(*) AS count FROM maps" + where +
			" GROUP BY value ORDER BY count DESC, value ASC"
		if limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", limit)
		}
		return facetRows(ctx, db, query, args...)
	}

	var f Facets
	if f.Scope, err = group(fmt.Sprintf("COALESCE(NULLIF(TRIM(scope_level), ''), '%s')", UnknownScope), 0); err != nil {
		return Facets{}, err
	}
	if f.Country, err = group(labelled("country_name", GlobalCountry), facetCountryMax); err != nil {
		return Facets{}, err
	}
	if f.Province, err = group(labelled("province", UnknownRegion), facetRegionMax); err != nil {
		return Facets{}, err
	}
	if f.City, err = group(labelled("city", UnknownRegion), facetCityMax); err != nil {
		return Facets{}, err
	}
	return f, nil
}

// ChinaDistribution counts Chinese maps per province.
func (b *Backend) ChinaDistribution(ctx context.Context, source string) ([]FacetCount, error) {
	query := `SELECT COALESCE(NULLIF(province, ''), '` + UnknownRegion + `') AS value, COUNT(*) AS count
FROM maps WHERE (country_code = 'CN' OR country_name = '中国' OR scope_level = 'national')`
	var args []any
	if source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}
	query += " GROUP BY value ORDER BY count DESC, value ASC"

	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.handle()
	if err != nil {
		return nil, err
	}
	return facetRows(ctx, db, query, args...)
}

func facetRows(ctx context.Context, q DBTX, query string, args ...any) ([]FacetCount, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting facets: %w", err)
	}
	defer rows.Close()

	counts := []FacetCount{}
	for rows.Next() {
		var c FacetCount
		if err := rows.Scan(&c.Value, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning facet: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
