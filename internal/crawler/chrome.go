package crawler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// FetchRendered loads the page in headless Chrome and returns the markup
// after scripts ran, for when the table is injected client-side.
func FetchRendered(ctx context.Context, url string, opts Options) (string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.AcceptLanguage != "" {
		allocOpts = append(allocOpts, chromedp.Flag("lang", opts.AcceptLanguage))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	var markup string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("table", chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao renderizar %s: %w", url, err)
	}

	log.Printf("[Crawler] %s renderizado (%d bytes em %s)", url, len(markup), time.Since(start).Round(time.Millisecond))
	return markup, nil
}
