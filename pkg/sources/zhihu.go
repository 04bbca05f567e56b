package sources

import (
	"encoding/json"

	"github.com/samvad-hq/hotboard/internal/domain"
)

type zhihuHotList struct {
	Data []struct {
		Target struct {
			ID    flexString `json:"id"`
			Title string     `json:"title"`
		} `json:"target"`
		DetailText string `json:"detail_text"`
		CardLabel  *struct {
			Type string `json:"type"`
		} `json:"card_label"`
	} `json:"data"`
}

func parseZhihuHot(body []byte) ([]domain.HotItem, error) {
	var list zhihuHotList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	items := make([]domain.HotItem, 0, len(list.Data))
	for _, e := range list.Data {
		link := ""
		if id := e.Target.ID.String(); id != "" {
			link = "https://www.zhihu.com/question/" + id
		}
		tag := ""
		if e.CardLabel != nil {
			tag = e.CardLabel.Type
		}
		items = append(items, domain.HotItem{
			Title: e.Target.Title,
			URL:   link,
			Hot:   e.DetailText,
			Tag:   tag,
		})
	}
	return items, nil
}
