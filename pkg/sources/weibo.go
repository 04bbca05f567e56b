package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/hotboard/internal/domain"
)

// vvhan and oioweb are third-party aggregators that front several platforms
// with the same response shape; they are wired to weibo, toutiao, zhihu and
// bilibili in the built-in table.

type vvhanResponse struct {
	Success *bool `json:"success"`
	Data    []struct {
		Title string     `json:"title"`
		URL   string     `json:"url"`
		Hot   flexString `json:"hot"`
		Tag   string     `json:"tag"`
	} `json:"data"`
}

func parseVVHan(body []byte) ([]domain.HotItem, error) {
	var resp vvhanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("vvhan reported failure")
	}

	items := make([]domain.HotItem, 0, len(resp.Data))
	for _, e := range resp.Data {
		items = append(items, domain.HotItem{
			Title: e.Title,
			URL:   e.URL,
			Hot:   e.Hot.String(),
			Tag:   e.Tag,
		})
	}
	return items, nil
}

type oiowebResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result []struct {
		Title string     `json:"title"`
		URL   string     `json:"url"`
		Href  string     `json:"href"`
		Hot   flexString `json:"hot"`
	} `json:"result"`
}

func parseOIOWeb(body []byte) ([]domain.HotItem, error) {
	var resp oiowebResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 && resp.Code != 200 {
		return nil, fmt.Errorf("oioweb code %d: %s", resp.Code, resp.Msg)
	}

	items := make([]domain.HotItem, 0, len(resp.Result))
	for _, e := range resp.Result {
		link := e.URL
		if link == "" {
			link = e.Href
		}
		items = append(items, domain.HotItem{
			Title: e.Title,
			URL:   link,
			Hot:   e.Hot.String(),
		})
	}
	return items, nil
}

const weiboBaseURL = "https://s.weibo.com"

// parseWeiboSummary extracts rows from the s.weibo.com realtime table.
func parseWeiboSummary(body []byte) ([]domain.HotItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var items []domain.HotItem
	doc.Find("#pl_top_realtimehot table tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td.td-02 a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}
		href, _ := link.Attr("href")
		if strings.HasPrefix(strings.TrimSpace(href), "javascript") {
			href, _ = link.Attr("href_to")
		}

		items = append(items, domain.HotItem{
			Title: title,
			URL:   ResolveURL(href, weiboBaseURL),
			Hot:   strings.TrimSpace(row.Find("td.td-02 span").First().Text()),
			Tag:   strings.TrimSpace(row.Find("td.td-03 i").First().Text()),
		})
	})

	return items, nil
}

// ResolveURL makes ref absolute against base; blank refs stay blank.
func ResolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
