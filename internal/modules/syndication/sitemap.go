package syndication

import (
	"encoding/xml"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

type urlSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// GET /sitemap.xml
func (h *Handler) sitemap(c *gin.Context) {
	base := h.siteURL(c)
	set := urlSet{URLs: []sitemapURL{
		{Loc: base, ChangeFreq: "daily", Priority: "1.0"},
	}}
	if h.site.ArticlePath != "" {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + h.site.ArticlePath, ChangeFreq: "daily", Priority: "0.9"})
	}

	ctx := c.Request.Context()
	for page := 1; len(set.URLs) < maxSitemapURLs; page++ {
		rows, total, err := h.src.ListPublished(ctx, article.PublicQuery{}, pagination.New(page, pagination.MaxLimit))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		for i := range rows {
			if len(set.URLs) >= maxSitemapURLs {
				break
			}
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        h.articleURL(base, &rows[i]),
				LastMod:    rows[i].UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}
		if len(rows) == 0 || int64(page*pagination.MaxLimit) >= total {
			break
		}
	}
	writeXML(c, "application/xml; charset=utf-8", set)
}
