package sources

import (
	"errors"
	"strings"
)

// Canonical platform names.
const (
	PlatformToutiao  = "toutiao"
	PlatformWeibo    = "weibo"
	PlatformZhihu    = "zhihu"
	PlatformBilibili = "bilibili"
)

// SelectorAuto asks for every enabled source of a platform in priority order.
const SelectorAuto = "auto"

var (
	// ErrUnsupportedPlatform is returned for platform names with no known mapping.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrEmptyResult marks a source that answered but yielded no items.
	ErrEmptyResult = errors.New("source returned no items")
)

var platformAliases = map[string]string{
	"toutiao":  PlatformToutiao,
	"头条":       PlatformToutiao,
	"weibo":    PlatformWeibo,
	"微博":       PlatformWeibo,
	"zhihu":    PlatformZhihu,
	"知乎":       PlatformZhihu,
	"bilibili": PlatformBilibili,
	"bili":     PlatformBilibili,
	"b站":       PlatformBilibili,
}

// NormalizePlatform maps a user-facing platform name (English or Chinese) to
// its canonical form.
func NormalizePlatform(name string) (string, bool) {
	p, ok := platformAliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// KnownPlatforms lists the canonical platform names.
func KnownPlatforms() []string {
	return []string{PlatformToutiao, PlatformWeibo, PlatformZhihu, PlatformBilibili}
}

// IsAuto reports whether selector requests automatic fallback across sources.
func IsAuto(selector string) bool {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "", SelectorAuto, "自动切换":
		return true
	default:
		return false
	}
}
