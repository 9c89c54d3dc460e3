package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRevalidatesWithETag(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(scheduleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), srv.Client())
	src := Source{ID: "lab", URL: srv.URL + "/private/token.ics"}

	first, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, scheduleFeed, first.Body)

	second, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, scheduleFeed, second.Body)

	failing.Store(true)
	third, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, third.FromCache)
	assert.Equal(t, scheduleFeed, third.Body)
}

func TestFetchFailsWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), srv.Client())
	_, err := f.Fetch(context.Background(), Source{ID: "x", URL: srv.URL})
	assert.ErrorIs(t, err, ErrNotModifiedWithoutCache)

	_, err = f.Fetch(context.Background(), Source{ID: "empty"})
	assert.Error(t, err)
}

func TestFetchAllKeepsGoodSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.ics" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(scheduleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), srv.Client())
	feeds, errs := f.FetchAll(context.Background(), []Source{
		{ID: "ok", URL: srv.URL + "/ok.ics"},
		{ID: "missing", URL: srv.URL + "/missing.ics"},
	})
	require.Len(t, feeds, 1)
	assert.Equal(t, "ok", feeds[0].Source.ID)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "missing")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://example.com/...(redacted)", RedactURL("https://example.com/cal/secret.ics?token=abc"))
	assert.Equal(t, "ics://...(redacted)", RedactURL("not a url"))
}
