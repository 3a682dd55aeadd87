package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaPatchApply(t *testing.T) {
	rec := ProjectMetaRecord{
		Title:    "old",
		Tags:     []string{"a"},
		Favorite: true,
		Location: Location{ScopeLevel: ScopeNational, CountryCode: CountryChina},
	}

	fav := false
	title := "new"
	MetaPatch{Title: &title, Favorite: &fav}.Apply(&rec)

	assert.Equal(t, "new", rec.Title)
	assert.False(t, rec.Favorite)
	assert.Equal(t, []string{"a"}, rec.Tags, "unset fields stay")
	assert.Equal(t, CountryChina, rec.CountryCode, "unset groups stay")
}

func TestMapRecordProjectMeta(t *testing.T) {
	lat := 23.1291
	mtime := Millis(1700000000000)
	row := MapRecord{
		ID:       "abc",
		Source:   DriverLocal,
		FilePath: "/srv/maps/x.jpg",
		Title:    "x",
		Tags:     []string{"铁路"},
		Location: Location{City: "广州", Latitude: &lat},
		OCRState: OCRState{OCRStatus: OCRDone, OCRMtime: &mtime},
	}

	meta := row.ProjectMeta()
	assert.Equal(t, "x", meta.Title)
	assert.Equal(t, DriverLocal, meta.Source)
	assert.Equal(t, "广州", meta.City)
	assert.Equal(t, OCRDone, meta.OCRStatus)

	meta.Tags[0] = "changed"
	assert.Equal(t, "铁路", row.Tags[0], "tags are copied")
}

func TestProjectMetaRecordJSON(t *testing.T) {
	rec := ProjectMetaRecord{
		Title:    "x",
		Location: Location{ScopeLevel: ScopeNational, Province: "四川"},
		Source:   DriverLocal,
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	tests := []struct {
		key  string
		want any
	}{
		{"title", "x"},
		{"scope_level", ScopeNational},
		{"province", "四川"},
		{"city", nil},
		{"district", nil},
		{"country_code", nil},
		{"description", nil},
		{"ocr_text", nil},
		{"ocr_status", nil},
		{"latitude", nil},
		{"source", DriverLocal},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := fields[tt.key]
			require.True(t, ok, "key present")
			assert.Equal(t, tt.want, v)
		})
	}

	var back ProjectMetaRecord
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, rec.Title, back.Title)
	assert.Equal(t, rec.Location, back.Location)
	assert.Empty(t, back.City)
}

func TestOCRStateFreshFor(t *testing.T) {
	a, b := int64(10), int64(11)
	m := Millis(10)
	assert.True(t, OCRState{OCRMtime: &m}.FreshFor(&a))
	assert.False(t, OCRState{OCRMtime: &m}.FreshFor(&b))
	assert.False(t, OCRState{}.FreshFor(&a))
	assert.False(t, OCRState{OCRMtime: &m}.FreshFor(nil))
}

func TestMillisUnmarshal(t *testing.T) {
	var s OCRState
	require.NoError(t, json.Unmarshal([]byte(`{"ocr_mtime_ms": 1712345678901.4567}`), &s))
	require.NotNil(t, s.OCRMtime)
	assert.Equal(t, Millis(1712345678901), *s.OCRMtime)

	require.NoError(t, json.Unmarshal([]byte(`{"ocr_mtime_ms": null}`), &s))
	assert.Nil(t, s.OCRMtime)

	assert.Nil(t, MillisPtr(nil))
	v := int64(5)
	assert.Equal(t, Millis(5), *MillisPtr(&v))
}

func TestLocationDefaults(t *testing.T) {
	g := GlobalLocation()
	assert.Equal(t, ScopeInternational, g.ScopeLevel)
	assert.Equal(t, CountryWorld, g.CountryCode)
	assert.Equal(t, "全球", g.CountryName)

	c := ChinaLocation()
	assert.Equal(t, ScopeNational, c.ScopeLevel)
	assert.Equal(t, CountryChina, c.CountryCode)
	assert.True(t, Location{}.IsZero())
	assert.False(t, c.IsZero())
}
