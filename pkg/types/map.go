package types

import (
	"encoding/json"
	"math"
	"time"
)

// Scope levels. An empty scope means unknown.
const (
	ScopeNational      = "national"
	ScopeInternational = "international"
)

// Well-known country codes.
const (
	CountryWorld = "WORLD"
	CountryChina = "CN"
)

// OCR status values.
const (
	OCRPending    = "pending"
	OCRProcessing = "processing"
	OCRDone       = "done"
	OCREmpty      = "empty"
	OCRError      = "error"
)

// Location is the geographic attribution of a map. Empty strings and nil
// coordinates mean unknown.
type Location struct {
	ScopeLevel  string   `json:"scope_level"`
	CountryCode string   `json:"country_code"`
	CountryName string   `json:"country_name"`
	Province    string   `json:"province"`
	City        string   `json:"city"`
	District    string   `json:"district"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// GlobalLocation is the fallback attribution for maps with no better
// guess.
func GlobalLocation() Location {
	return Location{
		ScopeLevel:  ScopeInternational,
		CountryCode: CountryWorld,
		CountryName: "全球",
	}
}

// ChinaLocation is the national attribution with no province or city.
func ChinaLocation() Location {
	return Location{
		ScopeLevel:  ScopeNational,
		CountryCode: CountryChina,
		CountryName: "中国",
	}
}

// IsZero reports whether no field of the location is set.
func (l Location) IsZero() bool {
	return l.ScopeLevel == "" && l.CountryCode == "" && l.CountryName == "" &&
		l.Province == "" && l.City == "" && l.District == "" &&
		l.Latitude == nil && l.Longitude == nil
}

// Millis is a Unix time in milliseconds. It decodes from fractional JSON
// numbers by truncation.
type Millis int64

// UnmarshalJSON accepts integer and fractional numbers.
func (m *Millis) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Millis(math.Trunc(f))
	return nil
}

// MillisPtr converts an optional int64 into an optional Millis.
func MillisPtr(v *int64) *Millis {
	if v == nil {
		return nil
	}
	m := Millis(*v)
	return &m
}

// OCRState is the recognition result attached to a map.
type OCRState struct {
	OCRText      string     `json:"ocr_text"`
	OCRStatus    string     `json:"ocr_status"`
	OCRError     string     `json:"ocr_error"`
	OCRUpdatedAt *time.Time `json:"ocr_updated_at"`
	OCRMtime     *Millis    `json:"ocr_mtime_ms"`
}

// FreshFor reports whether the OCR result was computed against a file
// with the given modification time.
func (s OCRState) FreshFor(mtime *int64) bool {
	if s.OCRMtime == nil || mtime == nil {
		return false
	}
	return int64(*s.OCRMtime) == *mtime
}

// MapRecord is one catalogued image.
type MapRecord struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`

	Mime      string `json:"mime"`
	Width     *int   `json:"width"`
	Height    *int   `json:"height"`
	SizeBytes *int64 `json:"size_bytes"`
	Mtime     *int64 `json:"mtime_ms"`

	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	CollectionUnit string   `json:"collection_unit"`
	YearLabel      string   `json:"year_label"`
	Favorite       bool     `json:"favorite"`

	Location
	OCRState

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectMetaRecord is the portable, user-owned metadata for one map,
// keyed by its library-relative path in the sidecar file.
type ProjectMetaRecord struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	CollectionUnit string   `json:"collection_unit"`

	Location

	YearLabel string `json:"year_label"`
	Favorite  bool   `json:"favorite"`

	OCRState

	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON writes unset text fields as null.
func (r ProjectMetaRecord) MarshalJSON() ([]byte, error) {
	type plain ProjectMetaRecord
	return json.Marshal(struct {
		plain
		Title          *string `json:"title"`
		Description    *string `json:"description"`
		CollectionUnit *string `json:"collection_unit"`
		ScopeLevel     *string `json:"scope_level"`
		CountryCode    *string `json:"country_code"`
		CountryName    *string `json:"country_name"`
		Province       *string `json:"province"`
		City           *string `json:"city"`
		District       *string `json:"district"`
		YearLabel      *string `json:"year_label"`
		OCRText        *string `json:"ocr_text"`
		OCRStatus      *string `json:"ocr_status"`
		OCRError       *string `json:"ocr_error"`
	}{
		plain:          plain(r),
		Title:          nullable(r.Title),
		Description:    nullable(r.Description),
		CollectionUnit: nullable(r.CollectionUnit),
		ScopeLevel:     nullable(r.ScopeLevel),
		CountryCode:    nullable(r.CountryCode),
		CountryName:    nullable(r.CountryName),
		Province:       nullable(r.Province),
		City:           nullable(r.City),
		District:       nullable(r.District),
		YearLabel:      nullable(r.YearLabel),
		OCRText:        nullable(r.OCRText),
		OCRStatus:      nullable(r.OCRStatus),
		OCRError:       nullable(r.OCRError),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MetaPatch is a partial update of a ProjectMetaRecord. Nil fields are
// left unchanged. Location and OCR are replaced as whole groups.
type MetaPatch struct {
	Title          *string
	Description    *string
	Tags           *[]string
	CollectionUnit *string
	YearLabel      *string
	Favorite       *bool
	Location       *Location
	OCR            *OCRState
}

// Apply shallow-merges the patch into rec.
func (p MetaPatch) Apply(rec *ProjectMetaRecord) {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Tags != nil {
		rec.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.CollectionUnit != nil {
		rec.CollectionUnit = *p.CollectionUnit
	}
	if p.YearLabel != nil {
		rec.YearLabel = *p.YearLabel
	}
	if p.Favorite != nil {
		rec.Favorite = *p.Favorite
	}
	if p.Location != nil {
		rec.Location = *p.Location
	}
	if p.OCR != nil {
		rec.OCRState = *p.OCR
	}
}

// FullPatch returns a patch that copies every user-owned field of rec.
func FullPatch(rec MapRecord) MetaPatch {
	tags := append([]string(nil), rec.Tags...)
	loc := rec.Location
	ocr := rec.OCRState
	return MetaPatch{
		Title:          &rec.Title,
		Description:    &rec.Description,
		Tags:           &tags,
		CollectionUnit: &rec.CollectionUnit,
		YearLabel:      &rec.YearLabel,
		Favorite:       &rec.Favorite,
		Location:       &loc,
		OCR:            &ocr,
	}
}

// ProjectMeta converts a catalog row into its sidecar form.
func (r MapRecord) ProjectMeta() ProjectMetaRecord {
	var rec ProjectMetaRecord
	FullPatch(r).Apply(&rec)
	rec.Source = r.Source
	return rec
}
