package article

import (
	"strings"
	"time"

	"github.com/debtprotection/blog-core/internal/models"
)

// Input is the writable surface of an article. Nil fields are left untouched on update.
type Input struct {
	Title           *string               `json:"title"`
	Slug            *string               `json:"slug"`
	Content         *string               `json:"content"`
	ContentMarkdown *string               `json:"contentMarkdown"`
	Excerpt         *string               `json:"excerpt"`
	Author          *string               `json:"author"`
	AuthorName      *string               `json:"authorName"`
	ImageURL        *string               `json:"imageUrl"`
	Image           *string               `json:"image"`
	FeaturedImageID *string               `json:"featuredImageId"`
	Categories      *[]string             `json:"categories"`
	Category        *string               `json:"category"`
	Tags            *[]string             `json:"tags"`
	Status          *models.ArticleStatus `json:"status"`
	ScheduledAt     *time.Time            `json:"scheduledAt"`
	SEOTitle        *string               `json:"seoTitle"`
	SEODescription  *string               `json:"seoDescription"`
	CanonicalURL    *string               `json:"canonicalUrl"`
	SocialImage     *string               `json:"socialImage"`
	AllowComments   *bool                 `json:"allowComments"`
	IsFeatured      *bool                 `json:"isFeatured"`
}

// StatusInput is the body of POST /posts/:id/publish.
type StatusInput struct {
	Status *models.ArticleStatus `json:"status" binding:"required"`
}

// ListQuery holds the query parameters of the authenticated list.
type ListQuery struct {
	Status string `form:"status"`
	Author string `form:"author"`
	Tag    string `form:"tag"`
	Search string `form:"q"`
}

// PublicQuery holds the query parameters of the public lists.
type PublicQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Tag      string `form:"tag"`
	Featured *bool  `form:"featured"`
}

// Summary is the per-status count for the posts dashboard.
type Summary struct {
	TotalPosts     int64 `json:"totalPosts"`
	PublishedPosts int64 `json:"publishedPosts"`
	DraftPosts     int64 `json:"draftPosts"`
	ScheduledPosts int64 `json:"scheduledPosts"`
	ReviewPosts    int64 `json:"reviewPosts"`
	ArchivedPosts  int64 `json:"archivedPosts"`
}

func trimPtr(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func firstSet(ps ...*string) *string {
	for _, p := range ps {
		if p != nil {
			return p
		}
	}
	return nil
}

func cleanList(in []string) models.StringArray {
	out := make(models.StringArray, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// apply copies in onto a. Only admins may override the stored author name.
func (in *Input) apply(a *models.ArticleModel, actor Actor, conv *Converter) error {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		a.Slug = strings.TrimSpace(*in.Slug)
	}
	if name := firstSet(in.AuthorName, in.Author); name != nil && actor.IsAdmin() {
		if v := strings.TrimSpace(*name); v != "" {
			a.Author = v
		}
	}
	if img := firstSet(in.ImageURL, in.Image); img != nil {
		a.ImageURL = strings.TrimSpace(*img)
	}
	if in.FeaturedImageID != nil {
		if id := trimPtr(in.FeaturedImageID); id != "" {
			a.FeaturedImageID = &id
		} else {
			a.FeaturedImageID = nil
		}
	}
	switch {
	case in.Categories != nil:
		a.Categories = cleanList(*in.Categories)
	case in.Category != nil:
		a.Categories = cleanList([]string{*in.Category})
	}
	if in.Tags != nil {
		a.Tags = cleanList(*in.Tags)
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.ScheduledAt != nil {
		at := *in.ScheduledAt
		a.ScheduledAt = &at
	}
	if in.SEOTitle != nil {
		a.SEOTitle = trimPtr(in.SEOTitle)
	}
	if in.SEODescription != nil {
		a.SEODescription = trimPtr(in.SEODescription)
	}
	if in.CanonicalURL != nil {
		a.CanonicalURL = trimPtr(in.CanonicalURL)
	}
	if in.SocialImage != nil {
		a.SocialImage = trimPtr(in.SocialImage)
	}
	if in.AllowComments != nil {
		a.AllowComments = *in.AllowComments
	}
	if in.IsFeatured != nil {
		a.IsFeatured = *in.IsFeatured
	}

	if err := in.applyBody(a, conv); err != nil {
		return err
	}

	if in.Excerpt != nil {
		a.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	// A body change without an explicit excerpt replaces the derived one.
	bodyChanged := in.Content != nil || in.ContentMarkdown != nil
	if bodyChanged && (in.Excerpt == nil || a.Excerpt == "") {
		a.Excerpt = ""
	}
	if a.Excerpt == "" && strings.TrimSpace(a.Content) != "" {
		a.Excerpt = DeriveContentMetrics(a.Content).Excerpt
	}
	return nil
}

// applyBody keeps content (HTML) and contentMarkdown in step. Whichever side
// the caller supplied wins; the other is derived from it.
func (in *Input) applyBody(a *models.ArticleModel, conv *Converter) error {
	switch {
	case in.Content != nil && in.ContentMarkdown != nil:
		a.Content = *in.Content
		a.ContentMarkdown = *in.ContentMarkdown
	case in.Content != nil:
		a.Content = *in.Content
		a.ContentMarkdown = ""
		if conv != nil && strings.TrimSpace(a.Content) != "" {
			out, err := conv.ToMarkdown(a.Content)
			if err != nil {
				return err
			}
			a.ContentMarkdown = out
		}
	case in.ContentMarkdown != nil:
		a.ContentMarkdown = *in.ContentMarkdown
		a.Content = ""
		if conv != nil && strings.TrimSpace(a.ContentMarkdown) != "" {
			out, err := conv.ToHTML(a.ContentMarkdown)
			if err != nil {
				return err
			}
			a.Content = out
		}
	}
	return nil
}
