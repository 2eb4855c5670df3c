package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"
)

// maxDrainBytes caps how much of a response body is read before the
// connection is returned to the pool.
const maxDrainBytes = 1 << 20

// Config holds Requester options.
type Config struct {
	Timeout         time.Duration
	VerifyTLS       bool
	UserAgent       string // fixed User-Agent; empty = random pick per request
	Headers         map[string]string
	Proxy           string
	FollowRedirects bool
	MaxIdleConns    int
}

// Response holds the parts of an HTTP response the checks need.
type Response struct {
	URL           string
	StatusCode    int
	Header        http.Header
	ContentLength int64
	Duration      time.Duration
}

// Requester performs one GET per target.
type Requester struct {
	client    *http.Client
	headers   map[string]string
	userAgent func() string
}

// NewRequester creates a Requester from cfg.
func NewRequester(cfg Config) (*Requester, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}, //nolint:gosec // scan targets are often self-signed
		DialContext: (&net.Dialer{
			Timeout: cfg.Timeout,
		}).DialContext,
		TLSHandshakeTimeout: cfg.Timeout,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		MaxIdleConns:        cfg.MaxIdleConns,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := randomUserAgent
	if cfg.UserAgent != "" {
		fixed := cfg.UserAgent
		ua = func() string { return fixed }
	}

	return &Requester{
		client:    client,
		headers:   cfg.Headers,
		userAgent: ua,
	}, nil
}

// Fetch sends a single GET to rawURL. Any failure is returned as a
// *FetchError carrying its Kind.
func (r *Requester) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindOther, Err: err}
	}

	req.Header.Set("User-Agent", r.userAgent())
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, newFetchError(rawURL, err)
	}
	defer resp.Body.Close()

	n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return &Response{
		URL:           resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		ContentLength: n,
		Duration:      time.Since(start),
	}, nil
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
