package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/pkg/httpclient"
)

// DefaultTimeout is the per-request timeout applied by DefaultHTTPClient.
const DefaultTimeout = 30 * time.Second

// DefaultHTTPClient returns a tuned http client for source fetches.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(DefaultTimeout) }

// httpSource implements Source for a single GET endpoint and parser.
type httpSource struct {
	cfg    Config
	client HTTPClient
	parser Parser
	now    func() time.Time
}

func newHTTPSource(cfg Config, client HTTPClient, parser Parser, now func() time.Time) *httpSource {
	return &httpSource{cfg: cfg, client: client, parser: parser, now: now}
}

func (s *httpSource) Name() string     { return s.cfg.ID }
func (s *httpSource) Platform() string { return s.cfg.Platform }

// Fetch issues one GET and parses the body. An empty parse is reported as
// ErrEmptyResult so callers can move on to the next source.
func (s *httpSource) Fetch(ctx context.Context) ([]domain.HotItem, error) {
	label := s.cfg.Platform + "/" + s.cfg.ID

	target, err := buildURL(s.cfg.URL, s.cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	body, err := fetchBody(ctx, s.client, target, label, Headers(s.cfg))
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", label, err)
	}

	items := rankItems(parsed, s.now())
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", label, ErrEmptyResult)
	}
	return items, nil
}

// rankItems assigns 1-based ranks in arrival order. Untitled rows are kept
// with an empty title.
func rankItems(parsed []domain.HotItem, observed time.Time) []domain.HotItem {
	items := make([]domain.HotItem, 0, len(parsed))
	for _, it := range parsed {
		it.Title = strings.TrimSpace(it.Title)
		it.URL = strings.TrimSpace(it.URL)
		it.Hot = strings.TrimSpace(it.Hot)
		it.Tag = strings.TrimSpace(it.Tag)
		it.Rank = len(items) + 1
		it.Time = observed
		items = append(items, it)
	}
	return items
}

func buildURL(raw string, params map[string]string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse source url: %w", err)
	}
	if len(params) == 0 {
		return parsed.String(), nil
	}

	q := parsed.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func fetchBody(ctx context.Context, client HTTPClient, target, label string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, target, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", label, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d body: %s", label, resp.StatusCode(), responseSnippet(body))
	}

	return body, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
