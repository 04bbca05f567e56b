package domain

import "time"

// Domain contains core models shared across packages.

// HotItem is one entry of a platform's hot list. Rank is 1-based and only
// meaningful within the fetch that produced it.
type HotItem struct {
	Title string    `json:"title"`
	URL   string    `json:"url"`
	Hot   string    `json:"hot"`
	Rank  int       `json:"rank"`
	Tag   string    `json:"tag"`
	Time  time.Time `json:"time"`
}

// PageMeta is the preview metadata extracted from a hot item's page.
type PageMeta struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}
