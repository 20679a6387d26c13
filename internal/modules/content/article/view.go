package article

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
)

const anonymousAuthor = "Anonymous"

// featuredImageView is the public form of an article's featured media.
type featuredImageView struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Caption string `json:"caption"`
}

// summaryView is one row of a public list.
type summaryView struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Excerpt       string             `json:"excerpt"`
	Content       string             `json:"content,omitempty"`
	Author        string             `json:"author"`
	AuthorEmail   string             `json:"authorEmail,omitempty"`
	ImageURL      string             `json:"imageUrl"`
	FeaturedImage *featuredImageView `json:"featuredImage,omitempty"`
	category.Description
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadingTime int       `json:"readingTime"`
	WordCount   int       `json:"wordCount"`
	Views       int       `json:"views"`
	IsFeatured  bool      `json:"isFeatured"`
}

// detailView is a full public article.
type detailView struct {
	summaryView
	ContentMarkdown string        `json:"contentMarkdown"`
	AuthorID        *string       `json:"authorId"`
	Status          string        `json:"status"`
	ScheduledAt     *time.Time    `json:"scheduledAt"`
	AllowComments   bool          `json:"allowComments"`
	SEOTitle        string        `json:"seoTitle"`
	SEODescription  string        `json:"seoDescription"`
	CanonicalURL    string        `json:"canonicalUrl"`
	SocialImage     string        `json:"socialImage"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	Recommendations []summaryView `json:"recommendations,omitempty"`
}

// adminView is the editor form of an article.
type adminView struct {
	*models.ArticleModel
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
}

// presenter shapes articles for responses.
type presenter struct {
	resolver *category.Resolver
	baseURL  string
}

func (p presenter) summary(a *models.ArticleModel, withContent bool) summaryView {
	v := summaryView{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Author:      authorName(a),
		ImageURL:    absoluteURL(p.baseURL, a.ImageURL),
		Description: p.resolver.Describe(a.Categories, p.resolver.DefaultKey()),
		Tags:        nonNil(a.Tags),
		PublishedAt: a.CreatedAt,
		ReadingTime: a.ReadingTime,
		WordCount:   a.WordCount,
		Views:       a.Views,
		IsFeatured:  a.IsFeatured,
	}
	if withContent {
		v.Content = a.Content
	}
	if a.PublishedAt != nil {
		v.PublishedAt = *a.PublishedAt
	}
	if a.AuthorUser != nil {
		v.AuthorEmail = a.AuthorUser.Email
	}
	if a.FeaturedImage != nil {
		v.FeaturedImage = &featuredImageView{
			ID:      a.FeaturedImage.ID,
			URL:     absoluteURL(p.baseURL, a.FeaturedImage.URL),
			AltText: a.FeaturedImage.AltText,
			Caption: a.FeaturedImage.Caption,
		}
	}
	return v
}

func (p presenter) summaries(rows []models.ArticleModel, withContent bool) []summaryView {
	out := make([]summaryView, len(rows))
	for i := range rows {
		out[i] = p.summary(&rows[i], withContent)
	}
	return out
}

func (p presenter) detail(a *models.ArticleModel) detailView {
	return detailView{
		summaryView:     p.summary(a, true),
		ContentMarkdown: a.ContentMarkdown,
		AuthorID:        a.AuthorID,
		Status:          a.Status.String(),
		ScheduledAt:     a.ScheduledAt,
		AllowComments:   a.AllowComments,
		SEOTitle:        a.SEOTitle,
		SEODescription:  a.SEODescription,
		CanonicalURL:    a.CanonicalURL,
		SocialImage:     absoluteURL(p.baseURL, a.SocialImage),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (p presenter) admin(a *models.ArticleModel) adminView {
	d := p.resolver.Describe(a.Categories, p.resolver.DefaultKey())
	return adminView{ArticleModel: a, Category: d.Key, CategoryLabel: d.Label}
}

func (p presenter) admins(rows []models.ArticleModel) []adminView {
	out := make([]adminView, len(rows))
	for i := range rows {
		out[i] = p.admin(&rows[i])
	}
	return out
}

func authorName(a *models.ArticleModel) string {
	if a.Author != "" {
		return a.Author
	}
	if a.AuthorUser != nil {
		if n := a.AuthorUser.DisplayName(); n != "" {
			return n
		}
	}
	return anonymousAuthor
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// absoluteURL prefixes root-relative paths with base. Absolute URLs and empty values pass through.
func absoluteURL(base, raw string) string {
	if raw == "" || base == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return raw
	}
	return base + raw
}

// requestBaseURL is the configured public base URL, or the scheme and host the request arrived on.
func requestBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return configured
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
