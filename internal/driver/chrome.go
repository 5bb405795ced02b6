package driver

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Options configures a ChromeDriver session. All fields apply for the
// lifetime of the browser; per-fetch variation is intentionally unsupported
// so that every request a target sees carries the same identity.
type Options struct {
	// Proxy is the HTTP proxy URL all browser traffic is routed through,
	// typically an intercepting proxy such as Burp. Empty disables proxying.
	Proxy string

	// UserAgent overrides the browser's User-Agent header.
	UserAgent string

	// CookieHeader is a raw Cookie header value ("SESSION=abc; csrf=xyz")
	// attached to every request. This is how authenticated crawls are run.
	CookieHeader string

	// NavigationTimeout bounds each page load. Zero means 15 seconds.
	NavigationTimeout time.Duration

	// Headless controls whether Chrome runs without a visible window.
	// Defaults to true; disable only for debugging a crawl interactively.
	Headless bool
}

// ChromeDriver drives a single headless Chrome instance over CDP. One tab is
// reused for every navigation, matching the engine's one-fetch-at-a-time
// model and keeping proxy-observed traffic orderly.
type ChromeDriver struct {
	opts Options

	allocCtx    context.Context
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
}

// NewChromeDriver creates an unstarted driver.
func NewChromeDriver(opts Options) *ChromeDriver {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 15 * time.Second
	}
	return &ChromeDriver{opts: opts}
}

// Start launches Chrome. A launch failure is a *FatalError: without a
// browser there is no crawl.
func (d *ChromeDriver) Start(ctx context.Context) error {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		// Targets under test routinely sit behind self-signed certificates
		// or an intercepting proxy's CA.
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if !d.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if d.opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(d.opts.Proxy))
	}
	if d.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(d.opts.UserAgent))
	}

	d.allocCtx, d.cancelAlloc = chromedp.NewExecAllocator(ctx, allocOpts...)
	d.browserCtx, d.cancelCtx = chromedp.NewContext(d.allocCtx)

	// An empty Run forces the browser process to launch now rather than on
	// the first fetch, so startup failures surface before crawling begins.
	if err := chromedp.Run(d.browserCtx); err != nil {
		d.Close()
		return &FatalError{Reason: "failed to launch browser", Err: err}
	}
	return nil
}

// Fetch navigates the shared tab to the target and extracts links from the
// rendered DOM.
func (d *ChromeDriver) Fetch(ctx context.Context, target string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.browserCtx == nil {
		return nil, &FatalError{Reason: "driver not started"}
	}

	tabCtx, cancel := context.WithTimeout(d.browserCtx, d.opts.NavigationTimeout)
	defer cancel()

	// The tab context descends from the browser, not from the caller, so an
	// operator interrupt must be propagated by hand to abort an in-flight
	// navigation.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	actions := []chromedp.Action{network.Enable()}
	if d.opts.CookieHeader != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{
			"Cookie": d.opts.CookieHeader,
		}))
	}

	var finalURL, title, outerHTML string
	actions = append(actions,
		chromedp.Navigate(target),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &outerHTML),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		// Distinguish a dead browser from a failed page load: if the
		// browser context itself is gone, no further fetch can succeed.
		if d.browserCtx.Err() != nil {
			return nil, &FatalError{Reason: "browser process terminated", Err: err}
		}
		if cause := ctx.Err(); cause != nil {
			return nil, cause
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.New("navigation timeout")
		}
		return nil, err
	}

	if finalURL == "" {
		finalURL = target
	}

	return &Result{
		FinalURL: finalURL,
		Title:    title,
		RawLinks: ExtractLinks(outerHTML),
	}, nil
}

// Close tears the browser down. Safe to call on an unstarted driver.
func (d *ChromeDriver) Close() error {
	if d.cancelCtx != nil {
		d.cancelCtx()
	}
	if d.cancelAlloc != nil {
		d.cancelAlloc()
	}
	d.browserCtx = nil
	return nil
}
