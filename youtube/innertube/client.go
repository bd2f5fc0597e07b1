// Package innertube is a small client for YouTube's internal web API, the
// one youtube.com itself calls. Only the endpoints the extractor needs are
// covered: player, next, get_transcript and navigation/resolve_url.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://www.youtube.com/youtubei/v1/"

	DefaultClientVersion = "2.20250222.10.00"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxResponseSize = 8 << 20
)

var (
	ErrNoTranscript = errors.New("no transcript available")
	ErrUnplayable   = errors.New("video unavailable")
	ErrNotResolved  = errors.New("url did not resolve to a channel")
)

// CaptionFetcher is a second route to a plain text transcript, tried when
// the transcript panel is missing.
type CaptionFetcher interface {
	FetchCaptions(ctx context.Context, videoID string) (string, error)
}

type Client struct {
	httpClient    *http.Client
	baseURL       string
	clientVersion string
	captions      CaptionFetcher

	once        sync.Once
	visitorData string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at another host. The URL must end in a slash.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithClientVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.clientVersion = v
		}
	}
}

func WithCaptionFallback(f CaptionFetcher) Option {
	return func(c *Client) {
		c.captions = f
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 20 * time.Second},
		baseURL:       defaultBaseURL,
		clientVersion: DefaultClientVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// session returns the visitor id sent with every request. It is created on
// first use and shared for the life of the client.
func (c *Client) session() string {
	c.once.Do(func() {
		c.visitorData = generateVisitorData()
	})
	return c.visitorData
}

func generateVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}

type webClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl"`
	Gl            string `json:"gl"`
}

type requestContext struct {
	Client webClient `json:"client"`
}

func (c *Client) webContext() requestContext {
	return requestContext{
		Client: webClient{
			ClientName:    "WEB",
			ClientVersion: c.clientVersion,
			VisitorData:   c.session(),
			Hl:            "en",
			Gl:            "US",
		},
	}
}

// post sends payload to endpoint with the WEB client headers and returns
// the raw response body.
func (c *Client) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "innertube: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "innertube: build request")
	}

	visitor := c.session()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Youtube-Client-Name", "1")
	req.Header.Set("X-Youtube-Client-Version", c.clientVersion)
	req.Header.Set("X-Goog-Visitor-Id", visitor)
	req.Header.Set("Origin", "https://www.youtube.com")
	req.Header.Set("Referer", "https://www.youtube.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "innertube: %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, errors.Errorf("innertube: %s: HTTP %d: %s", endpoint, resp.StatusCode, snippet)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "innertube: %s: read body", endpoint)
	}
	return data, nil
}
