package gazetteer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const autonomousPrefecture = "自治州"

// ethnicKeywords is ordered so that compound names come before their parts.
var ethnicKeywords = []string{
	"土家族苗族", "朝鲜族", "哈尼族彝族", "壮族苗族", "布依族苗族", "蒙古族藏族",
	"哈萨克", "蒙古族", "藏族", "回族", "彝族", "傣族", "景颇族", "傈僳族",
	"柯尔克孜", "白族", "哈尼族", "壮族", "侗族", "羌族", "土家族", "苗族", "布依族",
}

var (
	citySuffixRe     = regexp.MustCompile(`(市|地区|盟)$`)
	provinceSuffixRe = regexp.MustCompile(`维吾尔自治区|壮族自治区|回族自治区|特别行政区|自治区|省|市$`)
	extensionRe      = regexp.MustCompile(`\.[^/.]+$`)
)

// NormalizeCity reduces a prefecture name to its short form: 广州市 becomes
// 广州, 恩施土家族苗族自治州 becomes 恩施.
func NormalizeCity(name string) string {
	name = strings.TrimSpace(name)
	if stripped, ok := strings.CutSuffix(name, autonomousPrefecture); ok {
		if cut := ethnicCut(stripped); cut > 0 {
			return stripped[:cut]
		}
		return stripped
	}
	return citySuffixRe.ReplaceAllString(name, "")
}

// ethnicCut returns the byte offset of the first keyword of
// ethnicKeywords, in list order, found past the start of name, or -1.
func ethnicCut(name string) int {
	for _, kw := range ethnicKeywords {
		if idx := strings.Index(name, kw); idx > 0 {
			return idx
		}
	}
	return -1
}

// RemoveProvinceSuffix reduces a province name to its short form: 广东省
// becomes 广东, 新疆维吾尔自治区 becomes 新疆.
func RemoveProvinceSuffix(name string) string {
	return provinceSuffixRe.ReplaceAllString(strings.TrimSpace(name), "")
}

// Aliases lists the forms under which a prefecture may appear in text or
// filenames. Aliases shorter than two characters are dropped.
func Aliases(city string) []string {
	candidates := []string{city, citySuffixRe.ReplaceAllString(city, "")}
	if stripped, ok := strings.CutSuffix(city, autonomousPrefecture); ok {
		candidates = append(candidates, stripped, NormalizeCity(city))
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, a := range candidates {
		a = strings.TrimSpace(a)
		if utf8.RuneCountInString(a) < 2 || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// StripExtension removes the final extension from a file name.
func StripExtension(name string) string {
	return extensionRe.ReplaceAllString(name, "")
}
