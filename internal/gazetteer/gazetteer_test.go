package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly/pkg/types"
)

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"广州市", "广州"},
		{"广州", "广州"},
		{"阿里地区", "阿里"},
		{"锡林郭勒盟", "锡林郭勒"},
		{"恩施土家族苗族自治州", "恩施"},
		{"延边朝鲜族自治州", "延边"},
		{"海西蒙古族藏族自治州", "海西"},
		{"黔东南苗族侗族自治州", "黔东南苗族"},
		{"德宏傣族景颇族自治州", "德宏"},
		{"阿坝藏族羌族自治州", "阿坝"},
		{"伊犁哈萨克自治州", "伊犁"},
		{"巴音郭楞蒙古自治州", "巴音郭楞蒙古"},
		{"  Tokyo ", "Tokyo"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeCity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeCity(got), "normalizing twice changes nothing")
		})
	}
}

func TestRemoveProvinceSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"广东省", "广东"},
		{"新疆维吾尔自治区", "新疆"},
		{"广西壮族自治区", "广西"},
		{"宁夏回族自治区", "宁夏"},
		{"内蒙古自治区", "内蒙古"},
		{"香港特别行政区", "香港"},
		{"北京市", "北京"},
		{"广东", "广东"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveProvinceSuffix(tt.in))
		})
	}
}

func TestAliases(t *testing.T) {
	assert.Equal(t, []string{"广州市", "广州"}, Aliases("广州市"))
	assert.Equal(t, []string{"恩施土家族苗族自治州", "恩施土家族苗族", "恩施"}, Aliases("恩施土家族苗族自治州"))
	assert.Equal(t, []string{"阿里地区", "阿里"}, Aliases("阿里地区"))
	for _, a := range Aliases("儋州市") {
		assert.GreaterOrEqual(t, len([]rune(a)), 2)
	}
}

func TestFindCityCoordinate(t *testing.T) {
	c, ok := FindCityCoordinate("CN", "广州市")
	require.True(t, ok)
	assert.Equal(t, "广东", c.Province)
	assert.InDelta(t, 23.1291, c.Latitude, 1e-9)

	c, ok = FindCityCoordinate("", "tokyo")
	require.True(t, ok)
	assert.Equal(t, "JP", c.CountryCode)

	_, ok = FindCityCoordinate("US", "Tokyo")
	assert.False(t, ok, "country filter applies")

	_, ok = FindCityCoordinate("", "")
	assert.False(t, ok)
}

func TestMatchFilename(t *testing.T) {
	loc, ok := MatchFilename("1935年恩施土家族苗族自治州全图.png")
	require.True(t, ok)
	assert.Equal(t, "恩施", loc.City)
	assert.Equal(t, "湖北", loc.Province)
	assert.Equal(t, types.ScopeNational, loc.ScopeLevel)
	assert.Equal(t, types.CountryChina, loc.CountryCode)

	loc, ok = MatchFilename("广州市街道图.jpg")
	require.True(t, ok)
	assert.Equal(t, "广州", loc.City)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, 23.1291, *loc.Latitude, 1e-9)

	_, ok = MatchFilename("untitled.jpg")
	assert.False(t, ok)
}

func TestExtractRegionMentions(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		provinces []string
		cities    []string
	}{
		{
			name:      "province only",
			text:      "广东全省地图",
			provinces: []string{"广东"},
		},
		{
			name:      "city implies its province",
			text:      "广州市区图",
			provinces: []string{"广东"},
			cities:    []string{"广州"},
		},
		{
			name:      "alias followed by province suffix is a province",
			text:      "吉林省全图",
			provinces: []string{"吉林"},
		},
		{
			name:      "order of appearance",
			text:      "杭州至广州铁路",
			provinces: []string{"浙江", "广东"},
			cities:    []string{"杭州", "广州"},
		},
		{
			name: "nothing",
			text: "Tokyo 1930",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ExtractRegionMentions(tt.text)
			assert.Equal(t, tt.provinces, m.Provinces)
			var cities []string
			for _, c := range m.Cities {
				cities = append(cities, c.City)
			}
			assert.Equal(t, tt.cities, cities)
		})
	}
}

func TestResolveCity(t *testing.T) {
	loc, ok := ResolveCity("杭州市")
	require.True(t, ok)
	assert.Equal(t, "浙江", loc.Province)
	assert.Equal(t, "杭州", loc.City)
	require.NotNil(t, loc.Longitude)

	loc, ok = ResolveCity("Paris")
	require.True(t, ok)
	assert.Equal(t, "FR", loc.CountryCode)
	assert.Equal(t, types.ScopeInternational, loc.ScopeLevel)

	_, ok = ResolveCity("Atlantis")
	assert.False(t, ok)
	_, ok = ResolveCity("  ")
	assert.False(t, ok)
}

func TestChinaCities(t *testing.T) {
	cities := ChinaCities()
	assert.Len(t, cities, len(prefectures))
	cities[0].City = "changed"
	assert.NotEqual(t, "changed", ChinaCities()[0].City, "callers get a copy")
}

func TestSuggest(t *testing.T) {
	all := Suggest("")
	assert.Len(t, all, DefaultSuggestions)
	assert.Equal(t, "北京", all[0].City)

	guangdong := Suggest("广东")
	require.NotEmpty(t, guangdong)
	assert.LessOrEqual(t, len(guangdong), FilteredSuggestions)
	seen := map[string]bool{}
	for _, loc := range guangdong {
		assert.Equal(t, "广东", loc.Province)
		key := loc.CountryName + "|" + loc.Province + "|" + loc.City
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}

	jp := Suggest("japan")
	require.Len(t, jp, 1)
	assert.Equal(t, "Tokyo", jp[0].City)

	assert.Empty(t, Suggest("no-such-place"))
}
