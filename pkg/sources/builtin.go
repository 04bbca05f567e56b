package sources

// Source types understood by DefaultParsers.
const (
	TypeToutiaoBoard     = "toutiao_board"
	TypeVVHan            = "vvhan"
	TypeOIOWeb           = "oioweb"
	TypeWeiboSummaryHTML = "weibo_summary_html"
	TypeZhihuHot         = "zhihu_hot"
	TypeBilibiliRanking  = "bilibili_ranking"
)

const (
	vvhanHotListURL  = "https://api.vvhan.com/api/hotlist"
	oiowebHotListURL = "https://api.oioweb.cn/api/common/HotList"
)

// BuiltinConfigs is the source table used when no sources file is configured.
// Order within a platform is the auto-mode priority.
func BuiltinConfigs() []Config {
	return []Config{
		{
			ID:       "toutiao",
			Platform: PlatformToutiao,
			Type:     TypeToutiaoBoard,
			URL:      "https://www.toutiao.com/hot-event/hot-board/",
			Params:   map[string]string{"origin": "toutiao_pc"},
			Headers: map[string]string{
				"Referer": "https://www.toutiao.com/",
				"Cookie":  "tt_webid=123456789",
			},
			Default: true,
		},
		{
			ID:       "vvhan",
			Platform: PlatformToutiao,
			Type:     TypeVVHan,
			URL:      vvhanHotListURL,
			Params:   map[string]string{"type": "toutiao"},
		},
		{
			ID:       "vvhan",
			Platform: PlatformWeibo,
			Type:     TypeVVHan,
			URL:      vvhanHotListURL,
			Params:   map[string]string{"type": "wbhot"},
			Default:  true,
		},
		{
			ID:       "oioweb",
			Platform: PlatformWeibo,
			Type:     TypeOIOWeb,
			URL:      oiowebHotListURL,
			Params:   map[string]string{"type": "weibo"},
		},
		{
			ID:       "weibo_web",
			Platform: PlatformWeibo,
			Type:     TypeWeiboSummaryHTML,
			URL:      "https://s.weibo.com/top/summary",
			Headers: map[string]string{
				"Accept":  "text/html,application/xhtml+xml",
				"Referer": "https://s.weibo.com/",
			},
		},
		{
			ID:       "zhihu",
			Platform: PlatformZhihu,
			Type:     TypeZhihuHot,
			URL:      "https://www.zhihu.com/api/v3/feed/topstory/hot-lists/total",
			Params:   map[string]string{"limit": "50"},
			Default:  true,
		},
		{
			ID:       "vvhan",
			Platform: PlatformZhihu,
			Type:     TypeVVHan,
			URL:      vvhanHotListURL,
			Params:   map[string]string{"type": "zhihuHot"},
		},
		{
			ID:       "bilibili",
			Platform: PlatformBilibili,
			Type:     TypeBilibiliRanking,
			URL:      "https://api.bilibili.com/x/web-interface/ranking/v2",
			Params:   map[string]string{"rid": "0", "type": "all"},
			Headers:  map[string]string{"Referer": "https://www.bilibili.com/"},
			Default:  true,
		},
		{
			ID:       "vvhan",
			Platform: PlatformBilibili,
			Type:     TypeVVHan,
			URL:      vvhanHotListURL,
			Params:   map[string]string{"type": "bili"},
		},
	}
}
