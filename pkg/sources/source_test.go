package sources

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/hotboard/pkg/httpclient"
)

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

type mockHTTPClient struct {
	t         *testing.T
	expect    map[string]string
	expectURL string
	status    int
	body      string
	err       error
	calls     int
}

func (m *mockHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	m.calls++
	if m.expectURL != "" && url != m.expectURL {
		m.t.Fatalf("expected url %q, got %q", m.expectURL, url)
	}
	for key, want := range m.expect {
		if got := headers[key]; got != want {
			m.t.Fatalf("expected header %s=%q, got %q", key, want, got)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

var fixedNow = time.Date(2025, time.November, 17, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestHTTPSourceFetchBuildsRequestAndRanks(t *testing.T) {
	client := &mockHTTPClient{
		t:         t,
		expectURL: "https://api.vvhan.com/api/hotlist?type=wbhot",
		expect: map[string]string{
			"User-Agent":      defaultUserAgent,
			"Accept-Language": defaultAcceptLanguage,
			"Referer":         "https://weibo.com/",
		},
		body: `{"success":true,"data":[
			{"title":"A","url":"u1","hot":123},
			{"title":"  ","url":"untitled"},
			{"title":"B","url":"u2","hot":"45万"}
		]}`,
	}

	src := newHTTPSource(Config{
		ID:       "vvhan",
		Platform: PlatformWeibo,
		Type:     TypeVVHan,
		URL:      vvhanHotListURL,
		Params:   map[string]string{"type": "wbhot"},
		Headers:  map[string]string{"Referer": "https://weibo.com/"},
	}, client, parseVVHan, fixedClock)

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Rank != 1 || items[1].Rank != 2 || items[2].Rank != 3 {
		t.Fatalf("unexpected ranks %d, %d, %d", items[0].Rank, items[1].Rank, items[2].Rank)
	}
	if items[1].Title != "" || items[1].URL != "untitled" {
		t.Fatalf("untitled row = %#v", items[1])
	}
	if items[0].Hot != "123" || items[2].Hot != "45万" {
		t.Fatalf("unexpected hot values %q, %q", items[0].Hot, items[2].Hot)
	}
	if !items[2].Time.Equal(fixedNow) {
		t.Fatalf("observation time = %v", items[2].Time)
	}
}

func TestHTTPSourceFetchKeepsAllUntitledRows(t *testing.T) {
	client := &mockHTTPClient{t: t, body: `{"success":true,"data":[{"title":"","url":"a"},{"title":" ","url":"b"}]}`}
	src := newHTTPSource(Config{ID: "vvhan", Platform: PlatformWeibo, URL: vvhanHotListURL}, client, parseVVHan, fixedClock)

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("untitled rows are a result, got %v", err)
	}
	if len(items) != 2 || items[0].URL != "a" || items[1].Rank != 2 {
		t.Fatalf("unexpected items %#v", items)
	}
}

func TestHTTPSourceFetchEmptyIsErrEmptyResult(t *testing.T) {
	client := &mockHTTPClient{t: t, body: `{"success":true,"data":[]}`}
	src := newHTTPSource(Config{ID: "vvhan", Platform: PlatformWeibo, URL: vvhanHotListURL}, client, parseVVHan, fixedClock)

	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestHTTPSourceFetchHandlesNon200(t *testing.T) {
	client := &mockHTTPClient{t: t, status: http.StatusBadGateway, body: "oops"}
	src := newHTTPSource(Config{ID: "zhihu", Platform: PlatformZhihu, URL: "https://example.com"}, client, parseZhihuHot, fixedClock)

	_, err := src.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestHTTPSourceFetchWrapsTransportError(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	client := &mockHTTPClient{t: t, err: boom}
	src := newHTTPSource(Config{ID: "zhihu", Platform: PlatformZhihu, URL: "https://example.com"}, client, parseZhihuHot, fixedClock)

	_, err := src.Fetch(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", client.calls)
	}
}

func TestResponseSnippetTruncates(t *testing.T) {
	if got := responseSnippet(nil); got != "<empty>" {
		t.Fatalf("responseSnippet(nil) = %q", got)
	}
	long := strings.Repeat("x", 600)
	if got := responseSnippet([]byte(long)); len(got) != 515 {
		t.Fatalf("expected truncated snippet, got len %d", len(got))
	}
}
