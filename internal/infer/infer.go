// Package infer guesses a map's location from where it sits in the library
// and what it is called.
package infer

import (
	"path"
	"regexp"
	"strings"

	"github.com/roamly/roamly/internal/gazetteer"
	"github.com/roamly/roamly/pkg/types"
)

// ParseScope maps a top-level directory name onto a scope level. Unknown
// names yield "".
func ParseScope(segment string) string {
	switch strings.ToLower(strings.TrimSpace(segment)) {
	case "national", "china", "cn", "国内", "中国":
		return types.ScopeNational
	case "international", "global", "world", "intl", "国际", "海外":
		return types.ScopeInternational
	}
	return ""
}

// Segments splits a library-relative path into its directory segments,
// dropping the file name.
func Segments(relativePath string) []string {
	relativePath = strings.Trim(strings.ReplaceAll(relativePath, "\\", "/"), "/")
	dir := path.Dir(relativePath)
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(dir, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func at(segs []string, i int) string {
	if i < len(segs) {
		return segs[i]
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ByPath reads the directory layout. Under a scope directory the layout
// is scope/country/province/city/district; otherwise the first segment is
// taken as the country. A path that yields neither scope nor country gets
// the global location.
func ByPath(relativePath string) types.Location {
	segs := Segments(relativePath)

	var loc types.Location
	switch ParseScope(at(segs, 0)) {
	case types.ScopeNational:
		loc = national(at(segs, 2), at(segs, 1), at(segs, 3))
		loc.District = firstNonEmpty(at(segs, 4), at(segs, 3))
	case types.ScopeInternational:
		loc.ScopeLevel = types.ScopeInternational
		loc.CountryName = at(segs, 1)
		loc.Province = at(segs, 2)
		loc.City = at(segs, 3)
		loc.District = firstNonEmpty(at(segs, 4), at(segs, 3))
	default:
		switch country := at(segs, 0); country {
		case "":
		case "中国", types.CountryChina:
			loc = national(at(segs, 1), "", at(segs, 2))
			loc.District = at(segs, 3)
		default:
			loc.ScopeLevel = types.ScopeInternational
			loc.CountryName = country
			loc.Province = at(segs, 1)
			loc.City = at(segs, 2)
			loc.District = at(segs, 3)
		}
	}

	if loc.City != "" {
		if c, ok := gazetteer.FindCityCoordinate(loc.CountryCode, loc.City); ok {
			lat, lon := c.Latitude, c.Longitude
			loc.Latitude, loc.Longitude = &lat, &lon
			loc.CountryCode = firstNonEmpty(loc.CountryCode, c.CountryCode)
			loc.CountryName = firstNonEmpty(loc.CountryName, c.CountryName)
			loc.Province = firstNonEmpty(loc.Province, c.Province)
		}
	}
	if loc.ScopeLevel == "" && loc.CountryCode == "" && loc.CountryName == "" {
		return types.GlobalLocation()
	}
	return loc
}

func national(province, fallbackProvince, city string) types.Location {
	loc := types.ChinaLocation()
	loc.Province = gazetteer.RemoveProvinceSuffix(firstNonEmpty(province, fallbackProvince))
	loc.City = gazetteer.NormalizeCity(city)
	return loc
}

// Merge combines the path guess with the filename guess. Path fields win;
// the filename fills the gaps. A global path guess carries no information
// and leaves the filename guess intact. With neither a scope nor a country
// the result is the global location.
func Merge(byPath types.Location, byName *types.Location) types.Location {
	out := byPath
	if byPath == types.GlobalLocation() {
		out = types.Location{}
	}
	if byName != nil {
		out.ScopeLevel = firstNonEmpty(out.ScopeLevel, byName.ScopeLevel)
		out.CountryCode = firstNonEmpty(out.CountryCode, byName.CountryCode)
		out.CountryName = firstNonEmpty(out.CountryName, byName.CountryName)
		out.Province = firstNonEmpty(out.Province, byName.Province)
		out.City = firstNonEmpty(out.City, byName.City)
		out.District = firstNonEmpty(out.District, byName.District)
		if out.Latitude == nil {
			out.Latitude = byName.Latitude
		}
		if out.Longitude == nil {
			out.Longitude = byName.Longitude
		}
	}
	if out.ScopeLevel == "" && out.CountryCode == "" && out.CountryName == "" {
		return types.GlobalLocation()
	}
	return out
}

// Guess runs both inferences for a file and merges them.
func Guess(relativePath, fileName string) types.Location {
	var byName *types.Location
	if loc, ok := gazetteer.MatchFilename(fileName); ok {
		byName = &loc
	}
	return Merge(ByPath(relativePath), byName)
}

var titleSeparatorRe = regexp.MustCompile(`[_-]+`)

// Title derives a display title from a file name.
func Title(fileName string) string {
	base := gazetteer.StripExtension(fileName)
	return strings.TrimSpace(titleSeparatorRe.ReplaceAllString(base, " "))
}
