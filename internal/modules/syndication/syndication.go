// Package syndication serves RSS, Atom and sitemap documents for published
// articles.
package syndication

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/config"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

const (
	// FeedSize is how many recent articles a feed carries.
	FeedSize = 20
	// maxSitemapURLs is the sitemap protocol limit for a single file.
	maxSitemapURLs = 50000
)

// Source lists published articles. *article.Service implements it.
type Source interface {
	ListPublished(ctx context.Context, pq article.PublicQuery, q pagination.Query) ([]models.ArticleModel, int64, error)
	Describe(a *models.ArticleModel) category.Description
}

type Handler struct {
	src  Source
	site config.SiteConfig
}

func NewHandler(src Source, site config.SiteConfig) *Handler {
	return &Handler{src: src, site: site}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", h.feed)
	rg.GET("/feed.xml", h.rss)
	rg.GET("/atom.xml", h.atom)
	rg.GET("/sitemap", h.sitemap)
	rg.GET("/sitemap.xml", h.sitemap)
}

// siteURL falls back to the request origin when no site URL is configured.
func (h *Handler) siteURL(c *gin.Context) string {
	if h.site.URL != "" {
		return h.site.URL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if v := c.GetHeader("X-Forwarded-Proto"); v != "" {
		scheme = strings.TrimSpace(strings.Split(v, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) articleURL(base string, a *models.ArticleModel) string {
	if a.CanonicalURL != "" {
		return a.CanonicalURL
	}
	return base + h.site.ArticlePath + "/" + a.Slug
}
