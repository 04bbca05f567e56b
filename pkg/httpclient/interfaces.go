// Package httpclient is the single HTTP GET seam shared by sources, the
// previewer and the webhook publisher.
package httpclient

import "context"

// Response is the part of an HTTP response the callers inspect.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs one GET per call. Implementations must not retry.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
