// Package browser wraps a single Chrome session behind the handful of
// operations the scrape pipeline needs. One session, one page, one
// navigation at a time; every network-bound call is bounded by a timeout
// and degrades to an error the caller can absorb.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/grupokc/rpa-reclutamiento/utils"
)

// Config holds the session parameters.
type Config struct {
	ChromeBin       string
	Headless        bool
	NavigateTimeout time.Duration
	ElementTimeout  time.Duration
	Logger          *utils.Logger
}

// Session is a live browser tab. Not safe for concurrent use — the pipeline
// is sequential by construction.
type Session struct {
	cfg     Config
	ctx     context.Context
	cancels []context.CancelFunc
}

// Open launches Chrome and attaches a fresh tab.
func Open(cfg Config) (*Session, error) {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	cfg.Logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Session{
		cfg:     cfg,
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
	}

	// Start the browser now so a broken Chrome install fails here, not on
	// the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	return s, nil
}

// Close tears the tab and the browser process down.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// run executes actions against the tab under the given timeout. The timeout
// cancels the operation only; the tab stays usable afterwards.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads the URL and waits for the document to settle.
func (s *Session) Navigate(url string) error {
	return s.NavigateWithTimeout(url, s.cfg.NavigateTimeout)
}

// NavigateWithTimeout is Navigate under a caller-supplied bound, for pages
// with a known different latency profile than the session default.
func (s *Session) NavigateWithTimeout(url string, timeout time.Duration) error {
	if err := s.run(timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// Content returns the full HTML of the current page. Whatever is rendered
// at call time is returned — on a slow page that may be partial content,
// which downstream parsing treats as best-effort input.
func (s *Session) Content() (string, error) {
	var html string
	if err := s.run(s.cfg.ElementTimeout, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("browser: read content: %w", err)
	}
	return html, nil
}

// CurrentURL returns the tab's current location.
func (s *Session) CurrentURL() (string, error) {
	var url string
	if err := s.run(s.cfg.ElementTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("browser: read location: %w", err)
	}
	return url, nil
}

// Click clicks the first element matching the selector.
func (s *Session) Click(selector string) error {
	if err := s.run(s.cfg.ElementTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: click %q: %w", selector, err)
	}
	return nil
}

// Fill clears and types into the first element matching the selector.
func (s *Session) Fill(selector, value string) error {
	if err := s.run(s.cfg.ElementTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: fill %q: %w", selector, err)
	}
	return nil
}

// SelectOption sets a <select> element to the given value.
func (s *Session) SelectOption(selector, value string) error {
	if err := s.run(s.cfg.ElementTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(
			`document.querySelector(%q).dispatchEvent(new Event('change', {bubbles: true}))`,
			selector), nil),
	); err != nil {
		return fmt.Errorf("browser: select %q=%q: %w", selector, value, err)
	}
	return nil
}

// WaitVisible waits until the selector is visible, bounded by timeout.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	if err := s.run(timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: wait for %q: %w", selector, err)
	}
	return nil
}

// IsVisible reports whether the selector is currently visible, without
// waiting for it to appear.
func (s *Session) IsVisible(selector string) bool {
	var visible bool
	js := fmt.Sprintf(`(function() {
		var el = document.querySelector(%q);
		if (!el) return false;
		var rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	})()`, selector)
	if err := s.run(s.cfg.ElementTimeout, chromedp.Evaluate(js, &visible)); err != nil {
		return false
	}
	return visible
}

// Sleep pauses for page content to settle. Kept as an explicit session
// operation so callers never sleep around a dead tab.
func (s *Session) Sleep(d time.Duration) {
	_ = s.run(d+time.Second, chromedp.Sleep(d))
}

// WaitURLChange blocks until the tab's location differs from fromURL, or
// the timeout passes. Used for the post-login step: when the site asks for
// a one-time code the operator completes it by hand and the URL change is
// the signal that the session is in.
func (s *Session) WaitURLChange(fromURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		current, err := s.CurrentURL()
		if err == nil && current != fromURL {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("browser: url did not change from %s within %v", fromURL, timeout)
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
