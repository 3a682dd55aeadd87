package gazetteer

// prefectures lists the prefecture-level divisions of mainland China with
// their administrative codes.
var prefectures = []prefecture{
	{"3408", "安徽省", "安庆市"},
	{"3403", "安徽省", "蚌埠市"},
	{"3416", "安徽省", "亳州市"},
	{"3417", "安徽省", "池州市"},
	{"3411", "安徽省", "滁州市"},
	{"3412", "安徽省", "阜阳市"},
	{"3401", "安徽省", "合肥市"},
	{"3406", "安徽省", "淮北市"},
	{"3404", "安徽省", "淮南市"},
	{"3410", "安徽省", "黄山市"},
	{"3415", "安徽省", "六安市"},
	{"3405", "安徽省", "马鞍山市"},
	{"3413", "安徽省", "宿州市"},
	{"3407", "安徽省", "铜陵市"},
	{"3402", "安徽省", "芜湖市"},
	{"3418", "安徽省", "宣城市"},
	{"1100", "北京市", "北京市"},
	{"5000", "重庆市", "重庆市"},
	{"3501", "福建省", "福州市"},
	{"3508", "福建省", "龙岩市"},
	{"3507", "福建省", "南平市"},
	{"3509", "福建省", "宁德市"},
	{"3503", "福建省", "莆田市"},
	{"3505", "福建省", "泉州市"},
	{"3504", "福建省", "三明市"},
	{"3502", "福建省", "厦门市"},
	{"3506", "福建省", "漳州市"},
	{"6204", "甘肃省", "白银市"},
	{"6211", "甘肃省", "定西市"},
	{"6230", "甘肃省", "甘南藏族自治州"},
	{"6202", "甘肃省", "嘉峪关市"},
	{"6203", "甘肃省", "金昌市"},
	{"6209", "甘肃省", "酒泉市"},
	{"6201", "甘肃省", "兰州市"},
	{"6229", "甘肃省", "临夏回族自治州"},
	{"6212", "甘肃省", "陇南市"},
	{"6208", "甘肃省", "平凉市"},
	{"6210", "甘肃省", "庆阳市"},
	{"6205", "甘肃省", "天水市"},
	{"6206", "甘肃省", "武威市"},
	{"6207", "甘肃省", "张掖市"},
	{"4451", "广东省", "潮州市"},
	{"4419", "广东省", "东莞市"},
	{"4406", "广东省", "佛山市"},
	{"4401", "广东省", "广州市"},
	{"4416", "广东省", "河源市"},
	{"4413", "广东省", "惠州市"},
	{"4407", "广东省", "江门市"},
	{"4452", "广东省", "揭阳市"},
	{"4409", "广东省", "茂名市"},
	{"4414", "广东省", "梅州市"},
	{"4418", "广东省", "清远市"},
	{"4405", "广东省", "汕头市"},
	{"4415", "广东省", "汕尾市"},
	{"4402", "广东省", "韶关市"},
	{"4403", "广东省", "深圳市"},
	{"4417", "广东省", "阳江市"},
	{"4453", "广东省", "云浮市"},
	{"4408", "广东省", "湛江市"},
	{"4412", "广东省", "肇庆市"},
	{"4420", "广东省", "中山市"},
	{"4404", "广东省", "珠海市"},
	{"4510", "广西壮族自治区", "百色市"},
	{"4505", "广西壮族自治区", "北海市"},
	{"4514", "广西壮族自治区", "崇左市"},
	{"4506", "广西壮族自治区", "防城港市"},
	{"4508", "广西壮族自治区", "贵港市"},
	{"4503", "广西壮族自治区", "桂林市"},
	{"4512", "广西壮族自治区", "河池市"},
	{"4511", "广西壮族自治区", "贺州市"},
	{"4513", "广西壮族自治区", "来宾市"},
	{"4502", "广西壮族自治区", "柳州市"},
	{"4501", "广西壮族自治区", "南宁市"},
	{"4507", "广西壮族自治区", "钦州市"},
	{"4504", "广西壮族自治区", "梧州市"},
	{"4509", "广西壮族自治区", "玉林市"},
	{"5204", "贵州省", "安顺市"},
	{"5205", "贵州省", "毕节市"},
	{"5201", "贵州省", "贵阳市"},
	{"5202", "贵州省", "六盘水市"},
	{"5226", "贵州省", "黔东南苗族侗族自治州"},
	{"5227", "贵州省", "黔南布依族苗族自治州"},
	{"5223", "贵州省", "黔西南布依族苗族自治州"},
	{"5206", "贵州省", "铜仁市"},
	{"5203", "贵州省", "遵义市"},
	{"4604", "海南省", "儋州市"},
	{"4601", "海南省", "海口市"},
	{"4603", "海南省", "三沙市"},
	{"4602", "海南省", "三亚市"},
	{"1306", "河北省", "保定市"},
	{"1309", "河北省", "沧州市"},
	{"1308", "河北省", "承德市"},
	{"1304", "河北省", "邯郸市"},
	{"1311", "河北省", "衡水市"},
	{"1310", "河北省", "廊坊市"},
	{"1303", "河北省", "秦皇岛市"},
	{"1301", "河北省", "石家庄市"},
	{"1302", "河北省", "唐山市"},
	{"1305", "河北省", "邢台市"},
	{"1307", "河北省", "张家口市"},
	{"4105", "河南省", "安阳市"},
	{"4106", "河南省", "鹤壁市"},
	{"4108", "河南省", "焦作市"},
	{"4102", "河南省", "开封市"},
	{"4103", "河南省", "洛阳市"},
	{"4111", "河南省", "漯河市"},
	{"4113", "河南省", "南阳市"},
	{"4104", "河南省", "平顶山市"},
	{"4109", "河南省", "濮阳市"},
	{"4112", "河南省", "三门峡市"},
	{"4114", "河南省", "商丘市"},
	{"4107", "河南省", "新乡市"},
	{"4115", "河南省", "信阳市"},
	{"4110", "河南省", "许昌市"},
	{"4101", "河南省", "郑州市"},
	{"4116", "河南省", "周口市"},
	{"4117", "河南省", "驻马店市"},
	{"2306", "黑龙江省", "大庆市"},
	{"2327", "黑龙江省", "大兴安岭地区"},
	{"2301", "黑龙江省", "哈尔滨市"},
	{"2304", "黑龙江省", "鹤岗市"},
	{"2311", "黑龙江省", "黑河市"},
	{"2303", "黑龙江省", "鸡西市"},
	{"2308", "黑龙江省", "佳木斯市"},
	{"2310", "黑龙江省", "牡丹江市"},
	{"2309", "黑龙江省", "七台河市"},
	{"2302", "黑龙江省", "齐齐哈尔市"},
	{"2305", "黑龙江省", "双鸭山市"},
	{"2312", "黑龙江省", "绥化市"},
	{"2307", "黑龙江省", "伊春市"},
	{"4207", "湖北省", "鄂州市"},
	{"4228", "湖北省", "恩施土家族苗族自治州"},
	{"4211", "湖北省", "黄冈市"},
	{"4202", "湖北省", "黄石市"},
	{"4208", "湖北省", "荆门市"},
	{"4210", "湖北省", "荆州市"},
	{"4203", "湖北省", "十堰市"},
	{"4213", "湖北省", "随州市"},
	{"4201", "湖北省", "武汉市"},
	{"4212", "湖北省", "咸宁市"},
	{"4206", "湖北省", "襄阳市"},
	{"4209", "湖北省", "孝感市"},
	{"4205", "湖北省", "宜昌市"},
	{"4307", "湖南省", "常德市"},
	{"4310", "湖南省", "郴州市"},
	{"4304", "湖南省", "衡阳市"},
	{"4312", "湖南省", "怀化市"},
	{"4313", "湖南省", "娄底市"},
	{"4305", "湖南省", "邵阳市"},
	{"4303", "湖南省", "湘潭市"},
	{"4331", "湖南省", "湘西土家族苗族自治州"},
	{"4309", "湖南省", "益阳市"},
	{"4311", "湖南省", "永州市"},
	{"4306", "湖南省", "岳阳市"},
	{"4308", "湖南省", "张家界市"},
	{"4301", "湖南省", "长沙市"},
	{"4302", "湖南省", "株洲市"},
	{"2208", "吉林省", "白城市"},
	{"2206", "吉林省", "白山市"},
	{"2202", "吉林省", "吉林市"},
	{"2204", "吉林省", "辽源市"},
	{"2203", "吉林省", "四平市"},
	{"2207", "吉林省", "松原市"},
	{"2205", "吉林省", "通化市"},
	{"2224", "吉林省", "延边朝鲜族自治州"},
	{"2201", "吉林省", "长春市"},
	{"3204", "江苏省", "常州市"},
	{"3208", "江苏省", "淮安市"},
	{"3207", "江苏省", "连云港市"},
	{"3201", "江苏省", "南京市"},
	{"3206", "江苏省", "南通市"},
	{"3205", "江苏省", "苏州市"},
	{"3213", "江苏省", "宿迁市"},
	{"3212", "江苏省", "泰州市"},
	{"3202", "江苏省", "无锡市"},
	{"3203", "江苏省", "徐州市"},
	{"3209", "江苏省", "盐城市"},
	{"3210", "江苏省", "扬州市"},
	{"3211", "江苏省", "镇江市"},
	{"3610", "江西省", "抚州市"},
	{"3607", "江西省", "赣州市"},
	{"3608", "江西省", "吉安市"},
	{"3602", "江西省", "景德镇市"},
	{"3604", "江西省", "九江市"},
	{"3601", "江西省", "南昌市"},
	{"3603", "江西省", "萍乡市"},
	{"3611", "江西省", "上饶市"},
	{"3605", "江西省", "新余市"},
	{"3609", "江西省", "宜春市"},
	{"3606", "江西省", "鹰潭市"},
	{"2103", "辽宁省", "鞍山市"},
	{"2105", "辽宁省", "本溪市"},
	{"2113", "辽宁省", "朝阳市"},
	{"2102", "辽宁省", "大连市"},
	{"2106", "辽宁省", "丹东市"},
	{"2104", "辽宁省", "抚顺市"},
	{"2109", "辽宁省", "阜新市"},
	{"2114", "辽宁省", "葫芦岛市"},
	{"2107", "辽宁省", "锦州市"},
	{"2110", "辽宁省", "辽阳市"},
	{"2111", "辽宁省", "盘锦市"},
	{"2101", "辽宁省", "沈阳市"},
	{"2112", "辽宁省", "铁岭市"},
	{"2108", "辽宁省", "营口市"},
	{"1529", "内蒙古自治区", "阿拉善盟"},
	{"1508", "内蒙古自治区", "巴彦淖尔市"},
	{"1502", "内蒙古自治区", "包头市"},
	{"1504", "内蒙古自治区", "赤峰市"},
	{"1506", "内蒙古自治区", "鄂尔多斯市"},
	{"1501", "内蒙古自治区", "呼和浩特市"},
	{"1507", "内蒙古自治区", "呼伦贝尔市"},
	{"1505", "内蒙古自治区", "通辽市"},
	{"1503", "内蒙古自治区", "乌海市"},
	{"1509", "内蒙古自治区", "乌兰察布市"},
	{"1525", "内蒙古自治区", "锡林郭勒盟"},
	{"1522", "内蒙古自治区", "兴安盟"},
	{"6404", "宁夏回族自治区", "固原市"},
	{"6402", "宁夏回族自治区", "石嘴山市"},
	{"6403", "宁夏回族自治区", "吴忠市"},
	{"6401", "宁夏回族自治区", "银川市"},
	{"6405", "宁夏回族自治区", "中卫市"},
	{"6326", "青海省", "果洛藏族自治州"},
	{"6322", "青海省", "海北藏族自治州"},
	{"6302", "青海省", "海东市"},
	{"6325", "青海省", "海南藏族自治州"},
	{"6328", "青海省", "海西蒙古族藏族自治州"},
	{"6323", "青海省", "黄南藏族自治州"},
	{"6301", "青海省", "西宁市"},
	{"6327", "青海省", "玉树藏族自治州"},
	{"3716", "山东省", "滨州市"},
	{"3714", "山东省", "德州市"},
	{"3705", "山东省", "东营市"},
	{"3717", "山东省", "菏泽市"},
	{"3701", "山东省", "济南市"},
	{"3708", "山东省", "济宁市"},
	{"3715", "山东省", "聊城市"},
	{"3713", "山东省", "临沂市"},
	{"3702", "山东省", "青岛市"},
	{"3711", "山东省", "日照市"},
	{"3709", "山东省", "泰安市"},
	{"3710", "山东省", "威海市"},
	{"3707", "山东省", "潍坊市"},
	{"3706", "山东省", "烟台市"},
	{"3704", "山东省", "枣庄市"},
	{"3703", "山东省", "淄博市"},
	{"1402", "山西省", "大同市"},
	{"1405", "山西省", "晋城市"},
	{"1407", "山西省", "晋中市"},
	{"1410", "山西省", "临汾市"},
	{"1411", "山西省", "吕梁市"},
	{"1406", "山西省", "朔州市"},
	{"1401", "山西省", "太原市"},
	{"1409", "山西省", "忻州市"},
	{"1403", "山西省", "阳泉市"},
	{"1408", "山西省", "运城市"},
	{"1404", "山西省", "长治市"},
	{"6109", "陕西省", "安康市"},
	{"6103", "陕西省", "宝鸡市"},
	{"6107", "陕西省", "汉中市"},
	{"6110", "陕西省", "商洛市"},
	{"6102", "陕西省", "铜川市"},
	{"6105", "陕西省", "渭南市"},
	{"6101", "陕西省", "西安市"},
	{"6104", "陕西省", "咸阳市"},
	{"6106", "陕西省", "延安市"},
	{"6108", "陕西省", "榆林市"},
	{"3100", "上海市", "上海市"},
	{"5132", "四川省", "阿坝藏族羌族自治州"},
	{"5119", "四川省", "巴中市"},
	{"5101", "四川省", "成都市"},
	{"5117", "四川省", "达州市"},
	{"5106", "四川省", "德阳市"},
	{"5133", "四川省", "甘孜藏族自治州"},
	{"5116", "四川省", "广安市"},
	{"5108", "四川省", "广元市"},
	{"5111", "四川省", "乐山市"},
	{"5134", "四川省", "凉山彝族自治州"},
	{"5105", "四川省", "泸州市"},
	{"5114", "四川省", "眉山市"},
	{"5107", "四川省", "绵阳市"},
	{"5113", "四川省", "南充市"},
	{"5110", "四川省", "内江市"},
	{"5104", "四川省", "攀枝花市"},
	{"5109", "四川省", "遂宁市"},
	{"5118", "四川省", "雅安市"},
	{"5115", "四川省", "宜宾市"},
	{"5120", "四川省", "资阳市"},
	{"5103", "四川省", "自贡市"},
	{"1200", "天津市", "天津市"},
	{"5425", "西藏自治区", "阿里地区"},
	{"5403", "西藏自治区", "昌都市"},
	{"5401", "西藏自治区", "拉萨市"},
	{"5404", "西藏自治区", "林芝市"},
	{"5406", "西藏自治区", "那曲市"},
	{"5402", "西藏自治区", "日喀则市"},
	{"5405", "西藏自治区", "山南市"},
	{"6529", "新疆维吾尔自治区", "阿克苏地区"},
	{"6543", "新疆维吾尔自治区", "阿勒泰地区"},
	{"6528", "新疆维吾尔自治区", "巴音郭楞蒙古自治州"},
	{"6527", "新疆维吾尔自治区", "博尔塔拉蒙古自治州"},
	{"6523", "新疆维吾尔自治区", "昌吉回族自治州"},
	{"6505", "新疆维吾尔自治区", "哈密市"},
	{"6532", "新疆维吾尔自治区", "和田地区"},
	{"6531", "新疆维吾尔自治区", "喀什地区"},
	{"6502", "新疆维吾尔自治区", "克拉玛依市"},
	{"6530", "新疆维吾尔自治区", "克孜勒苏柯尔克孜自治州"},
	{"6542", "新疆维吾尔自治区", "塔城地区"},
	{"6504", "新疆维吾尔自治区", "吐鲁番市"},
	{"6501", "新疆维吾尔自治区", "乌鲁木齐市"},
	{"6540", "新疆维吾尔自治区", "伊犁哈萨克自治州"},
	{"5305", "云南省", "保山市"},
	{"5323", "云南省", "楚雄彝族自治州"},
	{"5329", "云南省", "大理白族自治州"},
	{"5331", "云南省", "德宏傣族景颇族自治州"},
	{"5334", "云南省", "迪庆藏族自治州"},
	{"5325", "云南省", "红河哈尼族彝族自治州"},
	{"5301", "云南省", "昆明市"},
	{"5307", "云南省", "丽江市"},
	{"5309", "云南省", "临沧市"},
	{"5333", "云南省", "怒江傈僳族自治州"},
	{"5308", "云南省", "普洱市"},
	{"5303", "云南省", "曲靖市"},
	{"5326", "云南省", "文山壮族苗族自治州"},
	{"5328", "云南省", "西双版纳傣族自治州"},
	{"5304", "云南省", "玉溪市"},
	{"5306", "云南省", "昭通市"},
	{"3301", "浙江省", "杭州市"},
	{"3305", "浙江省", "湖州市"},
	{"3304", "浙江省", "嘉兴市"},
	{"3307", "浙江省", "金华市"},
	{"3311", "浙江省", "丽水市"},
	{"3302", "浙江省", "宁波市"},
	{"3308", "浙江省", "衢州市"},
	{"3306", "浙江省", "绍兴市"},
	{"3310", "浙江省", "台州市"},
	{"3303", "浙江省", "温州市"},
	{"3309", "浙江省", "舟山市"},
}
