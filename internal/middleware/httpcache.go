package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Cached responses live under one of two scopes. Article detail pages are
// keyed by slug so a write only drops that article's pages; every other
// public read (lists, feeds, sitemap, category counts) shares the listing
// scope, which any article write invalidates.
const (
	APICachePrefix = "blog:api-cache:"
	articleScope   = APICachePrefix + "article:"
	listingScope   = APICachePrefix + "listing:"

	defaultHTTPCacheTTL     = 15 * time.Second
	defaultHTTPCacheMaxBody = 1 << 20
	staleWhileRevalidate    = 60
	cacheStateHeader        = "X-Blog-Cache"
)

type HTTPCacheOptions struct {
	TTL                    time.Duration
	EnableCDNHeader        bool
	EnableForceCacheHeader bool
	Disable                bool
	// SkipPaths are never cached. A trailing "*" matches a prefix.
	SkipPaths              []string
	// ArticlePaths are detail routes ending in "/*" whose next segment is
	// an article slug, e.g. "/api/articles/*".
	ArticlePaths           []string
	MaxBodyBytes           int
}

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

type httpCache struct {
	kv   KV
	opts HTTPCacheOptions
}

// HTTPCache serves anonymous GET responses from kv for opts.TTL. Authenticated
// requests bypass the cache and are marked private.
func HTTPCache(kv KV, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}
	hc := &httpCache{kv: kv, opts: opts}
	return func(c *gin.Context) {
		if opts.Disable || kv == nil || c.Request.Method != http.MethodGet ||
			matchPath(c.Request.URL.Path, opts.SkipPaths) || wantsFresh(c) {
			c.Next()
			return
		}
		if IsAuthenticated(c) {
			c.Next()
			if c.Writer.Status() == http.StatusOK {
				markPrivate(c.Writer.Header())
			}
			return
		}
		hc.serve(c)
	}
}

func (hc *httpCache) serve(c *gin.Context) {
	ctx := c.Request.Context()
	key := hc.key(c.Request.URL)
	if page, ok := hc.load(ctx, key); ok {
		hc.headers(c.Writer.Header(), "hit")
		c.Data(page.Status, page.ContentType, page.Body)
		c.Abort()
		return
	}

	rec := &bodyRecorder{ResponseWriter: c.Writer, limit: hc.opts.MaxBodyBytes}
	c.Writer = rec
	c.Next()

	status := rec.Status()
	if status != http.StatusOK || !cacheable(rec.Header()) {
		return
	}
	hc.headers(rec.Header(), "miss")
	if rec.overflow || len(rec.body) == 0 {
		return
	}
	raw, err := json.Marshal(cachedPage{
		Status:      status,
		ContentType: rec.Header().Get("Content-Type"),
		Body:        rec.body,
	})
	if err != nil {
		return
	}
	_ = hc.kv.Set(ctx, key, raw, hc.opts.TTL)
}

// key places the request under its article scope when the path is an
// article detail route, otherwise under the listing scope.
func (hc *httpCache) key(u *url.URL) string {
	if slug := articleSlug(u.Path, hc.opts.ArticlePaths); slug != "" {
		return articleScope + slug + ":" + u.RequestURI()
	}
	return listingScope + u.RequestURI()
}

func (hc *httpCache) load(ctx context.Context, key string) (cachedPage, bool) {
	raw, err := hc.kv.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return cachedPage{}, false
	}
	var page cachedPage
	if err := json.Unmarshal(raw, &page); err != nil || page.Status != http.StatusOK {
		return cachedPage{}, false
	}
	if page.ContentType == "" {
		page.ContentType = "application/json; charset=utf-8"
	}
	return page, true
}

func (hc *httpCache) headers(h http.Header, state string) {
	ttl := strconv.Itoa(int(hc.opts.TTL / time.Second))
	swr := strconv.Itoa(staleWhileRevalidate)
	h.Set(cacheStateHeader, state)
	if hc.opts.EnableCDNHeader {
		h.Set("CDN-Cache-Control", "max-age="+ttl+", stale-while-revalidate="+swr)
		h.Set("Cloudflare-CDN-Cache-Control", "max-age="+ttl+", stale-while-revalidate="+swr)
	}
	if h.Get("Cache-Control") != "" {
		return
	}
	var parts []string
	if hc.opts.EnableForceCacheHeader {
		parts = append(parts, "max-age="+ttl)
	}
	if hc.opts.EnableCDNHeader {
		parts = append(parts, "s-maxage="+ttl, "stale-while-revalidate="+swr)
	}
	if len(parts) > 0 {
		h.Set("Cache-Control", strings.Join(parts, ", "))
	}
}

// PurgeArticleCache drops the listing scope and the detail pages of every
// given slug. It returns the number of keys removed.
func PurgeArticleCache(ctx context.Context, kv KV, slugs ...string) (int64, error) {
	if kv == nil {
		return 0, nil
	}
	total, err := kv.DeletePrefix(ctx, listingScope)
	if err != nil {
		return total, err
	}
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		n, err := kv.DeletePrefix(ctx, articleScope+slug+":")
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// articleSlug returns the slug segment when path sits directly under one of
// the article detail routes.
func articleSlug(path string, routes []string) string {
	for _, route := range routes {
		prefix := strings.TrimSuffix(strings.TrimSpace(route), "*")
		if prefix == "" || !strings.HasPrefix(path, prefix) {
			continue
		}
		slug := strings.TrimPrefix(path, prefix)
		if slug != "" && !strings.Contains(slug, "/") {
			return slug
		}
	}
	return ""
}

func matchPath(path string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasSuffix(p, "*"):
			if strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
				return true
			}
		case path == p:
			return true
		}
	}
	return false
}

// wantsFresh reports whether the client added a cache-busting timestamp.
func wantsFresh(c *gin.Context) bool {
	q := c.Request.URL.Query()
	for _, key := range []string{"ts", "timestamp", "_t", "t"} {
		if strings.TrimSpace(q.Get(key)) != "" {
			return true
		}
	}
	return false
}

func cacheable(h http.Header) bool {
	cc := strings.ToLower(h.Get("Cache-Control"))
	return !strings.Contains(cc, "no-cache") &&
		!strings.Contains(cc, "no-store") &&
		!strings.Contains(cc, "private")
}

func markPrivate(h http.Header) {
	const v = "private, max-age=0, no-cache, no-store, must-revalidate"
	h.Set("CDN-Cache-Control", v)
	h.Set("Cache-Control", v)
	h.Set("Cloudflare-CDN-Cache-Control", v)
}

// bodyRecorder tees up to limit bytes of the response body.
type bodyRecorder struct {
	gin.ResponseWriter
	body     []byte
	limit    int
	overflow bool
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.record(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.record([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *bodyRecorder) record(data []byte) {
	if w.overflow {
		return
	}
	if len(w.body)+len(data) > w.limit {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}
