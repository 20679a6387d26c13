package syndication

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
	"github.com/debtprotection/blog-core/internal/pkg/response"
)

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
	Description cdata    `xml:"description"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type atomDoc struct {
	XMLName  xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	ID       string      `xml:"id"`
	Link     atomLink    `xml:"link"`
	Updated  string      `xml:"updated"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	Title     string      `xml:"title"`
	ID        string      `xml:"id"`
	Link      atomLink    `xml:"link"`
	Published string      `xml:"published"`
	Updated   string      `xml:"updated"`
	Author    atomAuthor  `xml:"author"`
	Category  []atomTerm  `xml:"category"`
	Summary   string      `xml:"summary,omitempty"`
	Content   atomContent `xml:"content"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomTerm struct {
	Term string `xml:"term,attr"`
}

type atomContent struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",cdata"`
}

type entry struct {
	article  *models.ArticleModel
	link     string
	label    string
	released time.Time
}

// GET /feed?type=rss|atom&category=
func (h *Handler) feed(c *gin.Context) {
	if c.DefaultQuery("type", "rss") == "atom" {
		h.atom(c)
		return
	}
	h.rss(c)
}

func (h *Handler) entries(c *gin.Context) (string, []entry, bool) {
	rows, _, err := h.src.ListPublished(c.Request.Context(),
		article.PublicQuery{Category: c.Query("category")}, pagination.New(1, FeedSize))
	if err != nil {
		response.InternalError(c, err)
		return "", nil, false
	}
	base := h.siteURL(c)
	out := make([]entry, len(rows))
	for i := range rows {
		a := &rows[i]
		released := a.CreatedAt
		if a.PublishedAt != nil {
			released = *a.PublishedAt
		}
		out[i] = entry{
			article:  a,
			link:     h.articleURL(base, a),
			label:    h.src.Describe(a).Label,
			released: released,
		}
	}
	return base, out, true
}

// lastUpdate is the newest entry's modification time, or now for an empty feed.
func lastUpdate(entries []entry) time.Time {
	var t time.Time
	for _, e := range entries {
		if e.article.UpdatedAt.After(t) {
			t = e.article.UpdatedAt
		}
	}
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}

func (h *Handler) rss(c *gin.Context) {
	base, entries, ok := h.entries(c)
	if !ok {
		return
	}
	doc := rssDoc{Version: "2.0", Channel: rssChannel{
		Title:         h.site.Title,
		Link:          base,
		Description:   h.site.Description,
		LastBuildDate: lastUpdate(entries).Format(time.RFC1123Z),
	}}
	for _, e := range entries {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       e.article.Title,
			Link:        e.link,
			GUID:        rssGUID{Value: e.article.ID},
			PubDate:     e.released.UTC().Format(time.RFC1123Z),
			Categories:  []string{e.label},
			Description: cdata{Value: e.article.Excerpt},
		})
	}
	writeXML(c, "application/rss+xml; charset=utf-8", doc)
}

func (h *Handler) atom(c *gin.Context) {
	base, entries, ok := h.entries(c)
	if !ok {
		return
	}
	doc := atomDoc{
		Title:    h.site.Title,
		Subtitle: h.site.Description,
		ID:       base + "/",
		Link:     atomLink{Href: base},
		Updated:  lastUpdate(entries).Format(time.RFC3339),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, atomEntry{
			Title:     e.article.Title,
			ID:        "urn:uuid:" + e.article.ID,
			Link:      atomLink{Href: e.link},
			Published: e.released.UTC().Format(time.RFC3339),
			Updated:   e.article.UpdatedAt.UTC().Format(time.RFC3339),
			Author:    atomAuthor{Name: e.article.Author},
			Category:  []atomTerm{{Term: e.label}},
			Summary:   e.article.Excerpt,
			Content:   atomContent{Type: "html", Value: e.article.Content},
		})
	}
	writeXML(c, "application/atom+xml; charset=utf-8", doc)
}

func writeXML(c *gin.Context, contentType string, doc interface{}) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), body...))
}
