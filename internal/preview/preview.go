package preview

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/internal/logger"
	"github.com/samvad-hq/hotboard/pkg/httpclient"
	"github.com/samvad-hq/hotboard/pkg/sources"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	htmlAccept       = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
)

// Previewer fetches a hot item's page and extracts title, description and
// image from its meta tags.
type Previewer struct {
	client httpclient.Client
	log    logger.Logger
}

// New constructs a previewer with the provided HTTP client (or default).
func New(client httpclient.Client, log logger.Logger) *Previewer {
	if client == nil {
		client = sources.DefaultHTTPClient()
	}
	return &Previewer{client: client, log: logger.Ensure(log)}
}

// Preview downloads rawURL once and returns its page metadata.
func (p *Previewer) Preview(ctx context.Context, rawURL string) (domain.PageMeta, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return domain.PageMeta{}, err
	}

	headers := sources.Headers(sources.Config{Headers: map[string]string{"Accept": htmlAccept}})
	resp, err := p.client.Get(ctx, target, headers)
	if err != nil {
		p.log.WarnObj("page preview fetch failed", "preview_error", map[string]any{
			"url":   target,
			"error": err.Error(),
		})
		return domain.PageMeta{}, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return domain.PageMeta{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return domain.PageMeta{}, err
	}
	meta.URL = target
	meta.ImageURL = sources.ResolveURL(meta.ImageURL, target)
	return meta, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid url %q: need an absolute http(s) url", raw)
	}
	return u.String(), nil
}

func parseMeta(body []byte) (domain.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.PageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return domain.PageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			extract(`meta[name="twitter:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
