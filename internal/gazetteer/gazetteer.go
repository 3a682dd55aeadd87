// Package gazetteer holds the built-in place-name data: the prefectures of
// China with their aliases, a small table of city coordinates, and the
// lookups built on them.
package gazetteer

import (
	"bytes"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/roamly/roamly/pkg/types"
)

type prefecture struct {
	code     string
	province string
	city     string
}

// Entry is one prefecture-level division of China.
type Entry struct {
	Code         string
	Province     string
	City         string
	FullProvince string
	FullCity     string
	Aliases      []string
	Latitude     *float64
	Longitude    *float64
}

// Location converts the entry into a national map location.
func (e Entry) Location() types.Location {
	loc := types.ChinaLocation()
	loc.Province = e.Province
	loc.City = e.City
	loc.Latitude = e.Latitude
	loc.Longitude = e.Longitude
	return loc
}

type aliasMatcher struct {
	alias string
	entry *Entry
}

type province struct {
	short string
	full  string
}

type index struct {
	entries   []Entry
	matchers  []aliasMatcher
	provinces []province
}

var (
	buildOnce sync.Once
	idx       *index
)

func defaultIndex() *index {
	buildOnce.Do(func() {
		idx = buildIndex(prefectures)
	})
	return idx
}

func buildIndex(src []prefecture) *index {
	ix := &index{entries: make([]Entry, 0, len(src))}
	seenProvince := make(map[string]bool)
	for _, p := range src {
		e := Entry{
			Code:         p.code,
			Province:     RemoveProvinceSuffix(p.province),
			City:         NormalizeCity(p.city),
			FullProvince: p.province,
			FullCity:     p.city,
			Aliases:      Aliases(p.city),
		}
		if c, ok := FindCityCoordinate(types.CountryChina, e.City); ok {
			lat, lon := c.Latitude, c.Longitude
			e.Latitude, e.Longitude = &lat, &lon
		}
		ix.entries = append(ix.entries, e)
		if !seenProvince[e.Province] {
			seenProvince[e.Province] = true
			ix.provinces = append(ix.provinces, province{short: e.Province, full: p.province})
		}
	}
	for i := range ix.entries {
		for _, a := range ix.entries[i].Aliases {
			ix.matchers = append(ix.matchers, aliasMatcher{alias: a, entry: &ix.entries[i]})
		}
	}
	sort.SliceStable(ix.matchers, func(i, j int) bool {
		return utf8.RuneCountInString(ix.matchers[i].alias) > utf8.RuneCountInString(ix.matchers[j].alias)
	})
	return ix
}

// MatchFilename returns the location of the first prefecture whose alias
// occurs in the file name, trying longer aliases first.
func MatchFilename(fileName string) (types.Location, bool) {
	base := StripExtension(fileName)
	if base == "" {
		return types.Location{}, false
	}
	for _, m := range defaultIndex().matchers {
		if strings.Contains(base, m.alias) {
			return m.entry.Location(), true
		}
	}
	return types.Location{}, false
}

// Mentions are the Chinese regions named in a piece of text.
type Mentions struct {
	// Provinces in order of first appearance, including the provinces of
	// mentioned cities.
	Provinces []string
	// Cities in order of first appearance.
	Cities []Entry
}

// ExtractRegionMentions scans text for prefecture and province names.
// Longer aliases claim their span first so that a short alias never
// matches inside a longer one. An alias directly followed by a province
// suffix is read as a province, not a city.
func ExtractRegionMentions(text string) Mentions {
	ix := defaultIndex()
	work := []byte(text)

	type hit struct {
		name string
		pos  int
	}
	cityPos := make(map[string]int)
	var cities []*Entry
	provPos := make(map[string]int)

	notice := func(m map[string]int, name string, pos int) bool {
		old, ok := m[name]
		if !ok || pos < old {
			m[name] = pos
		}
		return !ok
	}

	for _, m := range ix.matchers {
		needle := []byte(m.alias)
		for from := 0; ; {
			i := bytes.Index(work[from:], needle)
			if i < 0 {
				break
			}
			i += from
			end := i + len(needle)
			from = end
			if followedByProvinceSuffix(work[end:]) {
				continue
			}
			mask(work[i:end])
			if notice(cityPos, m.entry.City, i) {
				cities = append(cities, m.entry)
			}
			notice(provPos, m.entry.Province, i)
		}
	}

	for _, p := range ix.provinces {
		if i := bytes.Index(work, []byte(p.short)); i >= 0 {
			notice(provPos, p.short, i)
		}
	}

	out := Mentions{}
	provHits := make([]hit, 0, len(provPos))
	for name, pos := range provPos {
		provHits = append(provHits, hit{name, pos})
	}
	sort.Slice(provHits, func(i, j int) bool {
		if provHits[i].pos != provHits[j].pos {
			return provHits[i].pos < provHits[j].pos
		}
		return provHits[i].name < provHits[j].name
	})
	for _, h := range provHits {
		out.Provinces = append(out.Provinces, h.name)
	}
	sort.SliceStable(cities, func(i, j int) bool {
		return cityPos[cities[i].City] < cityPos[cities[j].City]
	})
	for _, e := range cities {
		out.Cities = append(out.Cities, *e)
	}
	return out
}

func followedByProvinceSuffix(rest []byte) bool {
	return bytes.HasPrefix(rest, []byte("省")) || bytes.HasPrefix(rest, []byte("自治区"))
}

// mask overwrites b with NUL bytes so later searches skip it.
func mask(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ResolveCity finds a city by name, preferring Chinese prefectures and
// falling back to the coordinate table.
func ResolveCity(input string) (types.Location, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Location{}, false
	}
	want := NormalizeCity(input)
	for _, e := range defaultIndex().entries {
		if e.City == want || e.FullCity == input {
			return e.Location(), true
		}
	}
	if c, ok := FindCityCoordinate("", input); ok {
		return c.Location(), true
	}
	return types.Location{}, false
}

// ChinaCities returns every prefecture entry.
func ChinaCities() []Entry {
	src := defaultIndex().entries
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Suggestion limits.
const (
	DefaultSuggestions  = 40
	FilteredSuggestions = 60
)

// Suggest returns location candidates whose country, province or city
// contains query, case-insensitively. An empty query returns the first
// DefaultSuggestions candidates.
func Suggest(query string) []types.Location {
	query = fold(strings.TrimSpace(query))
	limit := FilteredSuggestions
	if query == "" {
		limit = DefaultSuggestions
	}

	seen := make(map[string]bool)
	out := make([]types.Location, 0, limit)
	add := func(loc types.Location) bool {
		key := fold(loc.CountryName + "|" + loc.Province + "|" + loc.City)
		if seen[key] {
			return len(out) < limit
		}
		seen[key] = true
		if query != "" &&
			!strings.Contains(fold(loc.CountryName), query) &&
			!strings.Contains(fold(loc.Province), query) &&
			!strings.Contains(fold(loc.City), query) {
			return true
		}
		out = append(out, loc)
		return len(out) < limit
	}

	for _, c := range cityCoordinates {
		if !add(c.Location()) {
			return out
		}
	}
	for _, e := range defaultIndex().entries {
		if !add(e.Location()) {
			return out
		}
	}
	return out
}
