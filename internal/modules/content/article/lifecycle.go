package article

import (
	"context"
	"strings"
	"time"

	"github.com/debtprotection/blog-core/internal/models"
)

// Lifecycle prepares an article for persistence: slug normalization and
// uniqueness, publish stamping and derived counters.
type Lifecycle struct {
	exists SlugExistsFunc
	now    func() time.Time
}

func NewLifecycle(exists SlugExistsFunc) *Lifecycle {
	return &Lifecycle{exists: exists, now: time.Now}
}

// Outcome describes what Prepare changed.
type Outcome struct {
	// BaseSlug is the normalized slug before any -N suffix was added.
	BaseSlug      string
	SlugChecked   bool
	StatusChanged bool
	PublishedNow  bool
}

// Prepare must run before every write. previous is the stored version, or nil on create.
func (l *Lifecycle) Prepare(ctx context.Context, next, previous *models.ArticleModel) (Outcome, error) {
	var out Outcome

	if !next.Status.Valid() {
		return out, invalid("status", "unknown status")
	}
	if next.Status == models.StatusPublished && strings.TrimSpace(next.Content) == "" {
		return out, invalid("content", "content is required for published articles")
	}

	titleChanged := previous == nil || previous.Title != next.Title
	switch {
	case next.Title != "" && (next.Slug == "" || titleChanged):
		next.Slug = GenerateSlug(next.Title)
	case next.Slug != "":
		next.Slug = GenerateSlug(next.Slug)
	}
	if next.Slug == "" {
		next.Slug = FallbackSlug
	}
	out.BaseSlug = next.Slug

	if previous == nil || previous.Slug != next.Slug {
		slug, err := EnsureUniqueSlug(ctx, next.Slug, next.ID, l.exists)
		if err != nil {
			return out, err
		}
		next.Slug = slug
		out.SlugChecked = true
	}

	if previous != nil && previous.PublishedAt != nil && next.PublishedAt == nil {
		next.PublishedAt = previous.PublishedAt
	}
	out.StatusChanged = previous == nil || previous.Status != next.Status
	if out.StatusChanged && next.Status == models.StatusPublished && next.PublishedAt == nil {
		now := l.now()
		next.PublishedAt = &now
		out.PublishedNow = true
	}

	if previous == nil || previous.Content != next.Content {
		m := DeriveContentMetrics(next.Content)
		next.WordCount = m.WordCount
		next.ReadingTime = m.ReadingTime
	}

	return out, nil
}
