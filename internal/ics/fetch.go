package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	appLog "socsite/internal/log"
)

// Source is one ICS feed.
type Source struct {
	ID  string
	URL string
}

// FetchResult is the body obtained for a source, fresh or cached.
type FetchResult struct {
	Source    Source
	Body      []byte
	FromCache bool
}

type cacheEntry struct {
	etag         string
	lastModified string
	body         []byte
	updatedAt    time.Time
}

// Fetcher downloads feeds with conditional requests (ETag/Last-Modified).
// The last good body per URL is kept in memory so a failing calendar host
// does not empty the events page.
type Fetcher struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		client: client,
		cache:  make(map[string]cacheEntry),
	}
}

// FetchAll fetches every source. Results only include sources that produced
// a body; failures are logged and returned.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) ([]FetchResult, []error) {
	results := make([]FetchResult, 0, len(sources))
	var errs []error

	for _, src := range sources {
		res, err := f.FetchOne(ctx, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", src.ID, err))
			appLog.Error("feed fetch failed", err, "id", src.ID, "url", redactURL(src.URL))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// FetchOne fetches a single source, falling back to the cached body on
// network errors and non-200 responses.
func (f *Fetcher) FetchOne(ctx context.Context, src Source) (FetchResult, error) {
	if src.URL == "" {
		return FetchResult{}, errors.New("source URL is empty")
	}

	f.mu.Lock()
	cached, hasCache := f.cache[src.URL]
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	if hasCache {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	appLog.Debug("feed fetch start", "id", src.ID, "url", redactURL(src.URL))

	fromCache := func(reason error) (FetchResult, error) {
		if !hasCache {
			return FetchResult{}, reason
		}
		appLog.Warn("feed fetch degraded, using cached body", "id", src.ID, "reason", reason.Error())
		return FetchResult{Source: src, Body: cached.body, FromCache: true}, nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fromCache(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fromCache(err)
		}
		f.mu.Lock()
		f.cache[src.URL] = cacheEntry{
			etag:         resp.Header.Get("ETag"),
			lastModified: resp.Header.Get("Last-Modified"),
			body:         body,
			updatedAt:    time.Now().UTC(),
		}
		f.mu.Unlock()
		appLog.Info("feed fetch success", "id", src.ID, "bytes", len(body))
		return FetchResult{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if !hasCache {
			return FetchResult{}, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Debug("feed not modified", "id", src.ID)
		return FetchResult{Source: src, Body: cached.body, FromCache: true}, nil

	default:
		return fromCache(errors.New(resp.Status))
	}
}

// redactURL keeps scheme and host only; calendar URLs often embed tokens.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
