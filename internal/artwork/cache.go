// Package artwork fetches and caches cover images for identified tracks.
//
// URLs are normalized before lookup or fetch so that differing requested
// sizes of the same asset collapse to a single cache entry, and the cache
// survives the preview/apply boundary inside the session artifact.
package artwork

import (
	"context"
	"regexp"
	"strings"
	"sync"

	internalhttp "github.com/chefkjd/MixSplitR/internal/http"
	"golang.org/x/sync/errgroup"
)

// fixedResolution is the single high resolution every templated artwork URL
// is rewritten to.
const fixedResolution = "600x600"

// sizeSegment matches CDN path segments like "100x100bb" or "300x300".
var sizeSegment = regexp.MustCompile(`\b\d{2,4}x\d{2,4}(bb)?\b`)

// NormalizeURL rewrites templated or sized artwork URLs to one fixed high
// resolution so size variants of the same asset share a cache entry.
func NormalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	rawURL = strings.ReplaceAll(rawURL, "{w}x{h}", fixedResolution)
	return sizeSegment.ReplaceAllStringFunc(rawURL, func(m string) string {
		if strings.HasSuffix(m, "bb") {
			return fixedResolution + "bb"
		}
		return fixedResolution
	})
}

// Cache maps normalized artwork URLs to image bytes.
type Cache struct {
	mu     sync.Mutex
	images map[string][]byte
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string][]byte)}
}

// FromMap creates a Cache pre-populated from a session artifact.
func FromMap(images map[string][]byte) *Cache {
	c := NewCache()
	for url, data := range images {
		c.images[NormalizeURL(url)] = data
	}
	return c
}

// Get returns the cached image for a (possibly unnormalized) URL.
func (c *Cache) Get(rawURL string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.images[NormalizeURL(rawURL)]
	return data, ok
}

// Put stores an image under the normalized URL.
func (c *Cache) Put(rawURL string, data []byte) {
	if rawURL == "" || len(data) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[NormalizeURL(rawURL)] = data
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// Snapshot copies the cache contents for serialization.
func (c *Cache) Snapshot() map[string][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]byte, len(c.images))
	for url, data := range c.images {
		out[url] = data
	}
	return out
}

// Fetcher downloads artwork with a small bounded pool. The pool is separate
// from, and smaller than, the identification pool: artwork fetches are
// bandwidth-bound, not rate-capped.
type Fetcher struct {
	httpClient *internalhttp.Client
	workers    int
}

// NewFetcher creates a Fetcher with the given pool size.
func NewFetcher(httpClient *internalhttp.Client, workers int) *Fetcher {
	if workers <= 0 {
		workers = 5
	}
	return &Fetcher{httpClient: httpClient, workers: workers}
}

// FetchAll downloads every URL not already cached and merges the results
// into cache. Individual download failures are absences, not errors; the
// merge happens only after all downloads have finished.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, cache *Cache) {
	distinct := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		u := NormalizeURL(raw)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		if _, ok := cache.Get(u); ok {
			continue
		}
		seen[u] = struct{}{}
		distinct = append(distinct, u)
	}
	if len(distinct) == 0 {
		return
	}

	results := make([][]byte, len(distinct))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, u := range distinct {
		i, u := i, u
		g.Go(func() error {
			data, err := f.httpClient.Get(ctx, u)
			if err == nil {
				results[i] = data
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, u := range distinct {
		if len(results[i]) > 0 {
			cache.Put(u, results[i])
		}
	}
}
