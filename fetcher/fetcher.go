// Package fetcher issues the single outbound request for a product page.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/use-agent/pdpscrape/config"
	"github.com/use-agent/pdpscrape/models"
)

// browserHeaders is sent verbatim on every request.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.6261.94 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
}

// Page is the raw result of a successful fetch.
type Page struct {
	Body       string
	StatusCode int
	FinalURL   string
}

// Fetcher performs one GET per call with browser-like headers.
// It is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Fetcher from the fetch configuration.
func New(cfg config.FetchConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultFetchTimeout
	}

	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}
	if cfg.ChromeTLS && chromeSpecOK {
		transport.DialTLSContext = dialChromeTLS
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			slog.Warn("ignoring unsupported fetch proxy", "proxy", cfg.Proxy)
		}
	}

	return &Fetcher{
		client:  &http.Client{Transport: transport, Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch retrieves targetURL and returns its body.
//
// Failures are *models.ExtractError values: UPSTREAM_UNREACHABLE for
// transport errors, UPSTREAM_BLOCKED when the body is a denial page and
// UPSTREAM_HTTP_ERROR for any other non-200 status.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeUpstreamUnreachable,
			"fetch: build request", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeUpstreamUnreachable,
			"fetch: network error while fetching product page", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeUpstreamUnreachable,
			"fetch: read body", err)
	}
	body := string(raw)

	slog.Debug("product page fetched",
		"url", targetURL,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if isBlocked(body) {
		msg := "fetch: upstream blocked the request (access denied)"
		if title := pageTitle(body); title != "" {
			msg = fmt.Sprintf("%s, page title %q", msg, title)
		}
		return nil, &models.ExtractError{
			Code:           models.ErrCodeUpstreamBlocked,
			Message:        msg,
			UpstreamStatus: resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewUpstreamHTTPError(resp.StatusCode)
	}

	return &Page{
		Body:       body,
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}
