// Package feed retrieves raw per-symbol session summaries from the
// upstream quote endpoint.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"tickerboard/internal/httpx"
)

// Source yields the raw response text for one symbol, or a single
// failure outcome. Transport errors and non-success statuses are not
// distinguished; retry policy belongs to the caller.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (string, error)
}

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=feed_test -destination=mock_feed_test.go -source=feed.go
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the Yahoo source behavior.
type Config struct {
	Name string
	// URL is the endpoint template; the symbol replaces "{symbol}".
	URL       string
	UserAgent string
	Headers   map[string]string
	// MaxBodyBytes caps the response read. 0 means the default 256 KiB.
	MaxBodyBytes int64
}

// Yahoo fetches one symbol's current-session summary per call from a
// Yahoo-Finance-style endpoint.
type Yahoo struct {
	cfg    Config
	client HTTPClient
	log    *zap.Logger
}

const defaultURL = "https://query1.finance.yahoo.com/v7/finance/quote?symbols={symbol}"

func NewYahoo(cfg Config, hc *httpx.Client, log *zap.Logger) *Yahoo {
	if cfg.Name == "" {
		cfg.Name = "Yahoo"
	}
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 256 << 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	var client HTTPClient = http.DefaultClient
	if hc != nil {
		if cfg.UserAgent != "" {
			hc.UserAgent = cfg.UserAgent
		}
		client = clientFunc(hc.Do)
	}
	return &Yahoo{cfg: cfg, client: client, log: log}
}

// WithClient replaces the underlying HTTP client. Used by tests.
func (y *Yahoo) WithClient(c HTTPClient) *Yahoo {
	if c != nil {
		y.client = c
	}
	return y
}

func (y *Yahoo) Name() string { return y.cfg.Name }

// Fetch issues one GET for the symbol and returns the body text.
func (y *Yahoo) Fetch(ctx context.Context, symbol string) (string, error) {
	u := strings.ReplaceAll(y.cfg.URL, "{symbol}", url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("feed: build request for %q: %w", symbol, err)
	}
	if y.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", y.cfg.UserAgent)
	}
	for k, v := range y.cfg.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		y.log.Warn("fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return "", fmt.Errorf("feed: GET %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		y.log.Warn("fetch failed",
			zap.String("symbol", symbol), zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("feed: GET %s -> %d", symbol, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, y.cfg.MaxBodyBytes))
	if err != nil {
		y.log.Warn("fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return "", fmt.Errorf("feed: read %s: %w", symbol, err)
	}
	y.log.Debug("fetch ok", zap.String("symbol", symbol), zap.Int("bytes", len(b)))
	return string(b), nil
}

// clientFunc adapts a context-taking Do to the HTTPClient shape; the
// request already carries its context.
type clientFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

func (f clientFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req.Context(), req)
}
