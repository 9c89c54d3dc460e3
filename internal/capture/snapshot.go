// Package capture renders the month page in headless Chromium and saves it
// as a PNG.
package capture

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "thesiscal/internal/log"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 960
	DefaultTimeout = 30 * time.Second

	// readySelector matches the page root once it has rendered.
	readySelector = `[data-ready="true"]`
)

// Options describe one capture.
type Options struct {
	// URL of the page, e.g. "http://127.0.0.1:8080/calendar?month=2024-03".
	URL string
	// Output is the PNG path; its directory is created if missing.
	Output  string
	Width   int
	Height  int
	Timeout time.Duration
}

func (o Options) withDefaults() (Options, error) {
	if o.URL == "" {
		return o, errors.New("capture: URL is required")
	}
	if o.Output == "" {
		return o, errors.New("capture: output path is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}

// PageURL builds the /calendar URL served on listen. An empty or wildcard
// host is replaced by 127.0.0.1. Empty month or session are left out.
func PageURL(listen, month, session string) (string, error) {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", fmt.Errorf("capture: listen address %q: %w", listen, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	u := url.URL{Scheme: "http", Host: net.JoinHostPort(host, port), Path: "/calendar"}
	q := url.Values{}
	if month != "" {
		q.Set("month", month)
	}
	if session != "" {
		q.Set("session", session)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Snapshot navigates to opts.URL, waits for the page root to report
// data-ready="true" and writes a full-page PNG to opts.Output.
func Snapshot(parent context.Context, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, opts.Timeout)
	defer cancelTimeout()

	start := time.Now()
	var png []byte
	err = chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return fmt.Errorf("capture: chromedp run: %w", err)
	}

	if err := writeFile(opts.Output, png); err != nil {
		return err
	}
	appLog.Info("snapshot written", "output", opts.Output, "bytes", len(png), "took", time.Since(start).String())
	return nil
}

// writeFile replaces path atomically so /preview.png never serves a partial image.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.png")
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("capture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
