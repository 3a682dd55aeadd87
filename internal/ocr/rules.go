package ocr

import "regexp"

type keywordRule struct {
	re  *regexp.Regexp
	tag string
}

var keywordRules = []keywordRule{
	{regexp.MustCompile(`铁路|站台|车站|中东铁路`), "铁路"},
	{regexp.MustCompile(`建筑|街区|街道|城市规划`), "建筑"},
	{regexp.MustCompile(`边界|边疆|疆域|版图`), "疆域"},
	{regexp.MustCompile(`河|江|湖|海|湾|港`), "水系"},
	{regexp.MustCompile(`军事|军舰|阵地|战役|兵`), "军事"},
	{regexp.MustCompile(`旅游|景点|公园|博物馆`), "旅游"},
	{regexp.MustCompile(`古|旧|清|民国|民國|明|元|唐|宋`), "历史"},
}

type countryHint struct {
	code    string
	name    string
	aliases []string
}

// countryHints are checked in order; the first hit decides the country of
// a single-country text.
var countryHints = []countryHint{
	{"CN", "中国", []string{"中国", "中华", "大陆"}},
	{"JP", "日本", []string{"日本", "东京", "東京", "大阪", "北海道", "japan", "tokyo"}},
	{"US", "美国", []string{"美国", "美利坚", "united states", "usa", "u.s."}},
	{"RU", "俄罗斯", []string{"俄罗斯", "苏联", "俄国", "russia"}},
	{"GB", "英国", []string{"英国", "英格兰", "britain", "united kingdom"}},
	{"FR", "法国", []string{"法国", "france"}},
	{"DE", "德国", []string{"德国", "germany"}},
	{"KR", "韩国", []string{"韩国", "朝鲜半岛", "south korea"}},
	{"KP", "朝鲜", []string{"朝鲜", "north korea"}},
	{"IN", "印度", []string{"印度", "india"}},
	{"CA", "加拿大", []string{"加拿大", "canada"}},
	{"AU", "澳大利亚", []string{"澳大利亚", "澳洲", "australia"}},
	{"BR", "巴西", []string{"巴西", "brazil"}},
	{"IT", "意大利", []string{"意大利", "italy"}},
	{"ES", "西班牙", []string{"西班牙", "spain"}},
	{"MX", "墨西哥", []string{"墨西哥", "mexico"}},
}

var (
	globalScopeRe    = regexp.MustCompile(`(?i)世界|全球|global|world|international|洲际|跨洲|亚欧|欧亚`)
	chinaIndicatorRe = regexp.MustCompile(`中国|中华|省|自治区|地级市|县志|府图`)
	asciiAliasRe     = regexp.MustCompile(`(?i)^[a-z0-9.\s-]+$`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	controlRe        = regexp.MustCompile(`[\x00-\x1f]`)
)

// Tags added to every text with global scope.
const (
	tagGlobal        = "全球"
	tagInternational = "国际"
	tagChina         = "中国"
)

// maxProvinceTags bounds how many province names a Chinese text adds as
// tags.
const maxProvinceTags = 8
