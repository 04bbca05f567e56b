package sources

import (
	"encoding/json"

	"github.com/samvad-hq/hotboard/internal/domain"
)

type toutiaoBoard struct {
	Data []struct {
		Title    string     `json:"Title"`
		URL      string     `json:"Url"`
		HotValue flexString `json:"HotValue"`
		Label    string     `json:"Label"`
	} `json:"data"`
}

func parseToutiaoBoard(body []byte) ([]domain.HotItem, error) {
	var board toutiaoBoard
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, err
	}

	items := make([]domain.HotItem, 0, len(board.Data))
	for _, e := range board.Data {
		items = append(items, domain.HotItem{
			Title: e.Title,
			URL:   e.URL,
			Hot:   e.HotValue.String(),
			Tag:   e.Label,
		})
	}
	return items, nil
}
