package sources

import (
	"context"

	"github.com/samvad-hq/hotboard/internal/domain"
	"github.com/samvad-hq/hotboard/pkg/httpclient"
)

// Source is one (endpoint, parameters, parser) combination able to produce a
// platform's hot list. Implementations make exactly one request per Fetch.
type Source interface {
	Name() string
	Platform() string
	Fetch(ctx context.Context) ([]domain.HotItem, error)
}

// Parser turns a raw response body into hot items. Rank and observation time
// are assigned by the Source, so parsers only fill title, url, hot and tag.
type Parser func(body []byte) ([]domain.HotItem, error)

// ParserRegistry resolves the parser implementation for a source type.
type ParserRegistry interface {
	ParserFor(typ string) (Parser, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
