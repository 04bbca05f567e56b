package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// ParserSet implements ParserRegistry.
type ParserSet struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewParserRegistry builds a registry keyed by source type.
func NewParserRegistry(parsers map[string]Parser) *ParserSet {
	reg := &ParserSet{parsers: make(map[string]Parser, len(parsers))}
	for typ, p := range parsers {
		reg.Register(typ, p)
	}
	return reg
}

// Register associates a parser with a source type.
func (r *ParserSet) Register(typ string, p Parser) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" || p == nil {
		return
	}

	r.mu.Lock()
	r.parsers[key] = p
	r.mu.Unlock()
}

// ParserFor returns the parser registered for typ.
func (r *ParserSet) ParserFor(typ string) (Parser, error) {
	if r == nil {
		return nil, fmt.Errorf("parser registry is nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no parser registered for source type %q", typ)
}

// DefaultParsers wires up the known response parsers.
func DefaultParsers() ParserRegistry {
	return NewParserRegistry(map[string]Parser{
		TypeToutiaoBoard:     parseToutiaoBoard,
		TypeVVHan:            parseVVHan,
		TypeOIOWeb:           parseOIOWeb,
		TypeWeiboSummaryHTML: parseWeiboSummary,
		TypeZhihuHot:         parseZhihuHot,
		TypeBilibiliRanking:  parseBilibiliRanking,
	})
}

// flexString accepts a JSON string, number or bool and keeps its text form.
// Hot scores arrive as either depending on the upstream.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(data)
	}
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }
