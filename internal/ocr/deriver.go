// Package ocr recognizes text in map images and derives tags and a location
// guess from that text. Recognition requests are drained by a single
// background worker.
package ocr

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/roamly/roamly/internal/gazetteer"
	"github.com/roamly/roamly/pkg/types"
)

// Derived is what a piece of recognized text says about its map. A zero
// Location means the text gave no location evidence.
type Derived struct {
	Tags     []string
	Location types.Location
}

// NormalizeText collapses whitespace and strips control characters from
// raw recognizer output.
func NormalizeText(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = controlRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// detectCountries returns the hints whose aliases occur in text. ASCII
// aliases match case-insensitively, all others match exactly.
func detectCountries(text string) []countryHint {
	folded := cases.Fold().String(text)
	var found []countryHint
	for _, h := range countryHints {
		for _, alias := range h.aliases {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			var hit bool
			if asciiAliasRe.MatchString(alias) {
				hit = strings.Contains(folded, cases.Fold().String(alias))
			} else {
				hit = strings.Contains(text, alias)
			}
			if hit {
				found = append(found, h)
				break
			}
		}
	}
	return found
}

type tagSet struct {
	seen map[string]bool
	list []string
}

func (s *tagSet) add(tags ...string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	for _, t := range tags {
		if t == "" || s.seen[t] {
			continue
		}
		s.seen[t] = true
		s.list = append(s.list, t)
	}
}

func (s *tagSet) slice() []string {
	if s.list == nil {
		return []string{}
	}
	return s.list
}

// Derive extracts tags and a location from recognized text.
//
// Two or more countries, or explicit global wording, resolve to the global
// location. A single foreign country resolves to that country. Chinese
// evidence resolves to the one mentioned province, and to the one
// mentioned city if exactly one is named; two or more provinces resolve
// to China as a whole.
func Derive(text string) Derived {
	var tags tagSet
	if text == "" {
		return Derived{Tags: tags.slice()}
	}

	for _, r := range keywordRules {
		if r.re.MatchString(text) {
			tags.add(r.tag)
		}
	}

	mentions := gazetteer.ExtractRegionMentions(text)
	countries := detectCountries(text)
	chinese := chinaIndicatorRe.MatchString(text) || len(mentions.Provinces) > 0 || len(mentions.Cities) > 0

	hasCN := false
	for _, c := range countries {
		if c.code == types.CountryChina {
			hasCN = true
		}
	}
	if chinese && !hasCN {
		countries = append(countries, countryHint{code: types.CountryChina, name: tagChina})
	}
	for _, c := range countries {
		tags.add(c.name)
	}

	if globalScopeRe.MatchString(text) || len(countries) >= 2 {
		tags.add(tagGlobal, tagInternational)
		return Derived{Tags: tags.slice(), Location: types.GlobalLocation()}
	}

	if len(countries) == 0 {
		return Derived{Tags: tags.slice()}
	}

	if first := countries[0]; first.code != types.CountryChina {
		return Derived{
			Tags: tags.slice(),
			Location: types.Location{
				ScopeLevel:  types.ScopeInternational,
				CountryCode: first.code,
				CountryName: first.name,
			},
		}
	}

	tags.add(tagChina)
	provinces := mentions.Provinces
	if len(provinces) > maxProvinceTags {
		tags.add(provinces[:maxProvinceTags]...)
	} else {
		tags.add(provinces...)
	}

	loc := types.ChinaLocation()
	if len(provinces) >= 2 {
		return Derived{Tags: tags.slice(), Location: loc}
	}
	if len(provinces) == 1 {
		loc.Province = provinces[0]
	}
	if len(mentions.Cities) == 1 {
		city := mentions.Cities[0]
		loc.City = city.City
		if c, ok := gazetteer.FindCityCoordinate(types.CountryChina, city.City); ok {
			lat, lon := c.Latitude, c.Longitude
			loc.Latitude, loc.Longitude = &lat, &lon
		}
	}
	return Derived{Tags: tags.slice(), Location: loc}
}
