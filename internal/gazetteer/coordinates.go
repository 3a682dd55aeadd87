package gazetteer

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/roamly/roamly/pkg/types"
)

// CityCoordinate is a city with a known position.
type CityCoordinate struct {
	CountryCode string
	CountryName string
	Province    string
	City        string
	Latitude    float64
	Longitude   float64
}

var cityCoordinates = []CityCoordinate{
	{"CN", "中国", "北京", "北京", 39.9042, 116.4074},
	{"CN", "中国", "上海", "上海", 31.2304, 121.4737},
	{"CN", "中国", "广东", "广州", 23.1291, 113.2644},
	{"CN", "中国", "广东", "深圳", 22.5431, 114.0579},
	{"CN", "中国", "重庆", "重庆", 29.563, 106.5516},
	{"CN", "中国", "天津", "天津", 39.3434, 117.3616},
	{"CN", "中国", "湖北", "武汉", 30.5928, 114.3055},
	{"CN", "中国", "四川", "成都", 30.5728, 104.0668},
	{"CN", "中国", "陕西", "西安", 34.3416, 108.9398},
	{"CN", "中国", "浙江", "杭州", 30.2741, 120.1551},
	{"US", "United States", "New York", "New York", 40.7128, -74.006},
	{"US", "United States", "California", "Los Angeles", 34.0522, -118.2437},
	{"GB", "United Kingdom", "England", "London", 51.5074, -0.1278},
	{"JP", "Japan", "Tokyo", "Tokyo", 35.6762, 139.6503},
	{"FR", "France", "Ile-de-France", "Paris", 48.8566, 2.3522},
	{"DE", "Germany", "Berlin", "Berlin", 52.52, 13.405},
	{"AU", "Australia", "New South Wales", "Sydney", -33.8688, 151.2093},
	{"RU", "Russia", "Moscow", "Moscow", 55.7558, 37.6173},
}

// Location converts the coordinate into a map location.
func (c CityCoordinate) Location() types.Location {
	lat, lon := c.Latitude, c.Longitude
	scope := types.ScopeInternational
	if c.CountryCode == types.CountryChina {
		scope = types.ScopeNational
	}
	return types.Location{
		ScopeLevel:  scope,
		CountryCode: c.CountryCode,
		CountryName: c.CountryName,
		Province:    c.Province,
		City:        c.City,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}

// FindCityCoordinate looks up a city by normalized, case-insensitive name.
// An empty countryCode matches any country.
func FindCityCoordinate(countryCode, city string) (CityCoordinate, bool) {
	want := fold(NormalizeCity(city))
	if want == "" {
		return CityCoordinate{}, false
	}
	for _, c := range cityCoordinates {
		if countryCode != "" && !strings.EqualFold(c.CountryCode, countryCode) {
			continue
		}
		if fold(NormalizeCity(c.City)) == want {
			return c, true
		}
	}
	return CityCoordinate{}, false
}

// fold applies Unicode case folding. A Caser is not safe for concurrent use,
// so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
