package crawler

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// Options carries the request settings of a fetch.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// Fetch downloads the page and returns it decoded to UTF-8.
func Fetch(ctx context.Context, url string, opts Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	if opts.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", opts.AcceptLanguage)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := defaultHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("falha ao buscar %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status %d ao buscar %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("charset da resposta: %w", err)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	log.Printf("[Crawler] %s baixado (%d bytes em %s)", url, len(b), time.Since(start).Round(time.Millisecond))
	return string(b), nil
}
