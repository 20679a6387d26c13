package syndication

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtprotection/blog-core/internal/config"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

type fakeSource struct {
	rows     []models.ArticleModel
	resolver *category.Resolver
	queries  []article.PublicQuery
}

func (f *fakeSource) ListPublished(_ context.Context, pq article.PublicQuery, q pagination.Query) ([]models.ArticleModel, int64, error) {
	f.queries = append(f.queries, pq)
	start := q.Offset()
	if start >= len(f.rows) {
		return nil, int64(len(f.rows)), nil
	}
	end := start + q.Limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[start:end], int64(len(f.rows)), nil
}

func (f *fakeSource) Describe(a *models.ArticleModel) category.Description {
	return f.resolver.Describe(a.Categories, f.resolver.DefaultKey())
}

func published(n int) []models.ArticleModel {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := make([]models.ArticleModel, n)
	for i := range rows {
		p := at.Add(-time.Duration(i) * time.Hour)
		rows[i] = models.ArticleModel{
			Base:        models.Base{ID: "id-" + string(rune('a'+i%26)), UpdatedAt: p},
			Title:       "Post & more",
			Slug:        "post-" + string(rune('a'+i%26)),
			Excerpt:     "Short <b>excerpt</b>",
			Content:     "<p>Body</p>",
			Author:      "Sam Writer",
			Categories:  models.StringArray{"Credit Scores"},
			Status:      models.StatusPublished,
			PublishedAt: &p,
		}
	}
	return rows
}

func serve(t *testing.T, src Source, site config.SiteConfig, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(src, site).RegisterRoutes(r.Group("/api"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "api.example.com"
	r.ServeHTTP(w, req)
	return w
}

var site = config.SiteConfig{Title: "Debt Blog", Description: "Guides", URL: "https://example.com", ArticlePath: "/blog"}

func TestRSSFeed(t *testing.T) {
	src := &fakeSource{rows: published(3), resolver: category.MustBuiltin()}
	w := serve(t, src, site, "/api/feed.xml?category=credit-scores")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")

	var doc rssDoc
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Debt Blog", doc.Channel.Title)
	require.Len(t, doc.Channel.Items, 3)
	item := doc.Channel.Items[0]
	assert.Equal(t, "Post & more", item.Title)
	assert.Equal(t, "https://example.com/blog/post-a", item.Link)
	assert.Equal(t, "Short <b>excerpt</b>", item.Description.Value)
	assert.Equal(t, []string{"Credit Scores"}, item.Categories)
	assert.Equal(t, "credit-scores", src.queries[0].Category)
}

func TestAtomFeedAndTypeSwitch(t *testing.T) {
	src := &fakeSource{rows: published(2), resolver: category.MustBuiltin()}
	w := serve(t, src, site, "/api/feed?type=atom")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/atom+xml")

	var doc atomDoc
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "<p>Body</p>", doc.Entries[0].Content.Value)
	assert.Equal(t, "Sam Writer", doc.Entries[0].Author.Name)
	assert.Equal(t, "2026-03-01T09:00:00Z", doc.Updated)
}

func TestCanonicalURLWins(t *testing.T) {
	rows := published(1)
	rows[0].CanonicalURL = "https://partner.example.org/story"
	w := serve(t, &fakeSource{rows: rows, resolver: category.MustBuiltin()}, site, "/api/feed.xml")
	assert.Contains(t, w.Body.String(), "<link>https://partner.example.org/story</link>")
}

func TestSitemapPagesThroughEverything(t *testing.T) {
	src := &fakeSource{rows: published(pagination.MaxLimit + 5), resolver: category.MustBuiltin()}
	w := serve(t, src, site, "/api/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)

	var set urlSet
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &set))
	assert.Len(t, set.URLs, pagination.MaxLimit+5+2)
	assert.Equal(t, "https://example.com", set.URLs[0].Loc)
	assert.Equal(t, "https://example.com/blog", set.URLs[1].Loc)
	assert.Len(t, src.queries, 2)
}

func TestSiteURLFallsBackToRequestHost(t *testing.T) {
	noURL := config.SiteConfig{Title: "Blog", ArticlePath: ""}
	w := serve(t, &fakeSource{rows: published(1), resolver: category.MustBuiltin()}, noURL, "/api/sitemap.xml")
	assert.Contains(t, w.Body.String(), "<loc>http://api.example.com/post-a</loc>")
}
