package article

import (
	"context"
	"time"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

// SortOrder picks the list ordering.
type SortOrder int

const (
	SortNewest SortOrder = iota
	SortRecentlyPublished
)

// ListFilter narrows a list query. Zero values mean "no constraint".
type ListFilter struct {
	Statuses        []models.ArticleStatus
	AuthorID        string
	Author          string
	Tag             string
	Search          string
	Categories      []string // raw stored spellings, matched with any-of
	ExcludeIDs      []string
	ScheduledBefore *time.Time
	Featured        *bool
	Sort            SortOrder
}

// Store persists articles. Create and Save must return an error wrapping
// ErrDuplicateSlug when the slug unique index rejects the write.
type Store interface {
	ExistsWithSlug(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, a *models.ArticleModel) error
	Save(ctx context.Context, a *models.ArticleModel) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.ArticleModel, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.ArticleModel, error)
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter, q pagination.Query) ([]models.ArticleModel, int64, error)
	CountByStatus(ctx context.Context, authorID string) (map[models.ArticleStatus]int64, error)
	PublishedCategories(ctx context.Context) ([][]string, error)
}
