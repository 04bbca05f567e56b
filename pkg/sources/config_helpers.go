package sources

import "strings"

const (
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	defaultAccept         = "application/json, text/plain, */*"
	defaultAcceptLanguage = "zh-CN,zh;q=0.9"
)

// Headers builds the request headers for a source: browser-like defaults,
// overridden by the source's own headers (empty values are skipped).
func Headers(cfg Config) map[string]string {
	headers := map[string]string{
		"User-Agent":      defaultUserAgent,
		"Accept":          defaultAccept,
		"Accept-Language": defaultAcceptLanguage,
	}

	for k, v := range cfg.Headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}

	return headers
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg Config) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
