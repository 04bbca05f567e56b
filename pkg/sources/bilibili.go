package sources

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/hotboard/internal/domain"
)

type bilibiliRanking struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List []struct {
			Title       string `json:"title"`
			BVID        string `json:"bvid"`
			ShortLinkV2 string `json:"short_link_v2"`
			TypeName    string `json:"tname"`
			Stat        struct {
				View flexString `json:"view"`
			} `json:"stat"`
		} `json:"list"`
	} `json:"data"`
}

func parseBilibiliRanking(body []byte) ([]domain.HotItem, error) {
	var ranking bilibiliRanking
	if err := json.Unmarshal(body, &ranking); err != nil {
		return nil, err
	}
	if ranking.Code != 0 {
		return nil, fmt.Errorf("bilibili code %d: %s", ranking.Code, ranking.Message)
	}

	items := make([]domain.HotItem, 0, len(ranking.Data.List))
	for _, e := range ranking.Data.List {
		link := strings.TrimSpace(e.ShortLinkV2)
		if link == "" && e.BVID != "" {
			link = "https://www.bilibili.com/video/" + e.BVID
		}
		items = append(items, domain.HotItem{
			Title: e.Title,
			URL:   link,
			Hot:   e.Stat.View.String(),
			Tag:   e.TypeName,
		})
	}
	return items, nil
}
