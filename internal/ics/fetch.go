// Package ics reads ICS subscriptions into day-level occurrences and writes a
// selected date range back out as an all-day event.
package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	appLog "thesiscal/internal/log"
)

// ErrNotModifiedWithoutCache is returned when the server answers 304 but the
// cache holds no body to reuse.
var ErrNotModifiedWithoutCache = errors.New("ics: 304 Not Modified with empty cache")

// maxFeedSize caps a single ICS payload.
const maxFeedSize = 16 << 20

// Source is one ICS subscription.
type Source struct {
	ID   string
	Name string
	URL  string
}

// Feed is the body of one source, either fresh or reused from the cache.
type Feed struct {
	Source    Source
	Body      []byte
	FromCache bool
}

// cacheMeta is the conditional-request state saved next to a cached body.
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// Fetcher downloads ICS feeds with ETag/Last-Modified revalidation against a
// per-URL disk cache. A feed that cannot be reached falls back to its cached
// body when there is one.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher returns a Fetcher caching under cacheDir. A nil client gets a
// 15 second timeout.
func NewFetcher(cacheDir string, client *http.Client) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/ics-cache"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{client: client, cacheDir: cacheDir}
}

// FetchAll fetches every source. Failed sources are logged and reported in the
// error slice; the others still produce feeds.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) ([]Feed, []error) {
	feeds := make([]Feed, 0, len(sources))
	var errs []error
	for _, src := range sources {
		feed, err := f.Fetch(ctx, src)
		if err != nil {
			appLog.Error("ics fetch failed", err, "id", src.ID, "url", RedactURL(src.URL))
			errs = append(errs, fmt.Errorf("ics: source %s: %w", src.ID, err))
			continue
		}
		feeds = append(feeds, feed)
	}
	return feeds, errs
}

// Fetch downloads one source, revalidating against the cache.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (Feed, error) {
	if src.URL == "" {
		return Feed{}, errors.New("ics: source URL is empty")
	}
	dir := f.cachePath(src.URL)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Feed{}, err
	}
	meta, _ := readMeta(dir)
	cached, _ := os.ReadFile(filepath.Join(dir, "body.ics"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return Feed{}, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Debug("ics fetch start", "id", src.ID, "url", RedactURL(src.URL))
	resp, err := f.client.Do(req)
	if err != nil {
		return fallback(src, cached, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
		if err != nil {
			return fallback(src, cached, err)
		}
		next := cacheMeta{
			URL:          src.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := writeCache(dir, next, body); err != nil {
			appLog.Error("ics cache save failed", err, "id", src.ID)
		}
		appLog.Info("ics fetched", "id", src.ID, "bytes", len(body))
		return Feed{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return Feed{}, ErrNotModifiedWithoutCache
		}
		appLog.Debug("ics not modified", "id", src.ID)
		return Feed{Source: src, Body: cached, FromCache: true}, nil

	default:
		return fallback(src, cached, fmt.Errorf("ics: unexpected status %s", resp.Status))
	}
}

func fallback(src Source, cached []byte, cause error) (Feed, error) {
	if len(cached) == 0 {
		return Feed{}, cause
	}
	appLog.Warn("ics fetch degraded, serving cached body", "id", src.ID, "url", RedactURL(src.URL), "cause", cause.Error())
	return Feed{Source: src, Body: cached, FromCache: true}, nil
}

func (f *Fetcher) cachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func readMeta(dir string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// writeCache stores the body before the metadata so meta never points at a
// missing body.
func writeCache(dir string, meta cacheMeta, body []byte) error {
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		return err
	}
	meta.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600)
}

// RedactURL keeps only scheme and host; subscription URLs usually embed a
// private token in the path or query.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
