// Package merge combines the three sources of map metadata: what the user
// persisted, what the scanner inferred, and what OCR derived.
package merge

import (
	"time"

	"github.com/roamly/roamly/pkg/types"
)

// ScanAttrs are the technical attributes observed when a file is scanned.
type ScanAttrs struct {
	ID        string
	Source    string
	FilePath  string
	FileName  string
	Mime      string
	Width     *int
	Height    *int
	SizeBytes *int64
	Mtime     *int64
	Title     string
}

func pick(persisted, inferred string) string {
	if persisted != "" {
		return persisted
	}
	return inferred
}

func pickFloat(persisted, inferred *float64) *float64 {
	if persisted != nil {
		return persisted
	}
	return inferred
}

// Location applies the persisted location over the inferred one field by
// field. Scope and country fall back to the global location.
func Location(persisted, inferred types.Location) types.Location {
	g := types.GlobalLocation()
	return types.Location{
		ScopeLevel:  pick(pick(persisted.ScopeLevel, inferred.ScopeLevel), g.ScopeLevel),
		CountryCode: pick(pick(persisted.CountryCode, inferred.CountryCode), g.CountryCode),
		CountryName: pick(pick(persisted.CountryName, inferred.CountryName), g.CountryName),
		Province:    pick(persisted.Province, inferred.Province),
		City:        pick(persisted.City, inferred.City),
		District:    pick(persisted.District, inferred.District),
		Latitude:    pickFloat(persisted.Latitude, inferred.Latitude),
		Longitude:   pickFloat(persisted.Longitude, inferred.Longitude),
	}
}

// CarryOCR returns the persisted OCR state if it was computed against the
// current file, and the zero state otherwise.
func CarryOCR(persisted types.OCRState, mtime *int64) types.OCRState {
	if persisted.FreshFor(mtime) {
		return persisted
	}
	return types.OCRState{}
}

// Row builds the catalog row for a scanned file. Persisted user fields
// override inferred ones; stale OCR results are dropped.
func Row(scan ScanAttrs, inferred types.Location, persisted *types.ProjectMetaRecord, now time.Time) types.MapRecord {
	row := types.MapRecord{
		ID:        scan.ID,
		Source:    scan.Source,
		FilePath:  scan.FilePath,
		FileName:  scan.FileName,
		Mime:      scan.Mime,
		Width:     scan.Width,
		Height:    scan.Height,
		SizeBytes: scan.SizeBytes,
		Mtime:     scan.Mtime,
		Title:     scan.Title,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if persisted == nil {
		row.Location = Location(types.Location{}, inferred)
		return row
	}

	row.Title = pick(persisted.Title, scan.Title)
	row.Description = persisted.Description
	if len(persisted.Tags) > 0 {
		row.Tags = append([]string(nil), persisted.Tags...)
	}
	row.CollectionUnit = persisted.CollectionUnit
	row.YearLabel = persisted.YearLabel
	row.Favorite = persisted.Favorite
	row.Location = Location(persisted.Location, inferred)
	row.OCRState = CarryOCR(persisted.OCRState, scan.Mtime)
	return row
}

// UnionTags concatenates tag lists, dropping empties and duplicates while
// keeping first-seen order.
func UnionTags(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, t := range list {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// OCRLocation folds an OCR-derived location into the current one.
//
// A derived WORLD scope replaces the location with the global one. A
// derived CN with neither province nor city replaces it with the national
// one. Otherwise derived fields only fill gaps, and an empty derivation
// changes nothing. A bare global location counts as a gap.
func OCRLocation(current, derived types.Location) types.Location {
	if derived.ScopeLevel == "" {
		return current
	}
	if IsGlobalFallback(current) {
		current = types.Location{}
	}
	if derived.CountryCode == types.CountryWorld {
		return types.GlobalLocation()
	}
	if derived.CountryCode == types.CountryChina && derived.Province == "" && derived.City == "" {
		return types.ChinaLocation()
	}
	return types.Location{
		ScopeLevel:  pick(current.ScopeLevel, derived.ScopeLevel),
		CountryCode: pick(current.CountryCode, derived.CountryCode),
		CountryName: pick(current.CountryName, derived.CountryName),
		Province:    pick(current.Province, derived.Province),
		City:        pick(current.City, derived.City),
		District:    pick(current.District, derived.District),
		Latitude:    pickFloat(current.Latitude, derived.Latitude),
		Longitude:   pickFloat(current.Longitude, derived.Longitude),
	}
}

// IsGlobalFallback reports whether loc is the global location with nothing
// more specific attached.
func IsGlobalFallback(loc types.Location) bool {
	return loc.CountryCode == types.CountryWorld && loc.Province == "" && loc.City == "" &&
		loc.District == "" && loc.Latitude == nil && loc.Longitude == nil
}
