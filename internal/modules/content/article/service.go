package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
	"github.com/debtprotection/blog-core/internal/pkg/metrics"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

const (
	// maxWriteAttempts bounds retries after the slug unique index rejects a write.
	maxWriteAttempts = 5
	// RecommendationLimit is how many related articles a detail page shows.
	RecommendationLimit = 4
	// PublishJobName is the cron job that releases scheduled articles.
	PublishJobName = "publish_scheduled"

	publishBatch = 100
)

// MediaRemover deletes a media item and its stored object.
type MediaRemover interface {
	Remove(ctx context.Context, id string) error
}

// SlugHistory remembers slugs an article has moved away from.
type SlugHistory interface {
	Track(ctx context.Context, oldSlug, articleID string) error
	Resolve(ctx context.Context, slug string) (string, error)
	Forget(ctx context.Context, articleID string) error
}

// Service implements the article workflows on top of a Store.
type Service struct {
	store     Store
	resolver  *category.Resolver
	lifecycle *Lifecycle
	conv      *Converter
	media     MediaRemover
	history   SlugHistory
	onChange  func(ctx context.Context, slugs ...string)
	log       *zap.Logger
	now       func() time.Time
}

func NewService(store Store, resolver *category.Resolver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		resolver:  resolver,
		lifecycle: NewLifecycle(store.ExistsWithSlug),
		conv:      NewConverter(),
		log:       log,
		now:       time.Now,
	}
}

// SetMediaRemover enables cascading deletion of featured images.
func (s *Service) SetMediaRemover(m MediaRemover) { s.media = m }

// SetSlugHistory makes renamed articles reachable under their old slugs.
func (s *Service) SetSlugHistory(h SlugHistory) { s.history = h }

// OnChange registers a hook run after every successful write with the slugs
// the write touched, e.g. for cache invalidation.
func (s *Service) OnChange(fn func(ctx context.Context, slugs ...string)) { s.onChange = fn }

func (s *Service) Resolver() *category.Resolver { return s.resolver }

func (s *Service) changed(ctx context.Context, slugs ...string) {
	if s.onChange != nil {
		s.onChange(ctx, slugs...)
	}
}

// Create writes a new article owned by actor.
func (s *Service) Create(ctx context.Context, actor Actor, in Input, profile Profile) (*models.ArticleModel, error) {
	status := models.StatusDraft
	if in.Status != nil {
		status = *in.Status
	}
	if err := Authorize(actor, nil, &status); err != nil {
		return nil, err
	}

	a := &models.ArticleModel{
		Author:        actor.DisplayName(),
		Status:        status,
		AllowComments: true,
	}
	if actor.ID != "" {
		id := actor.ID
		a.AuthorID = &id
	}
	if err := in.apply(a, actor, s.conv); err != nil {
		return nil, err
	}
	if err := Validate(a, profile); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, a, nil); err != nil {
		return nil, err
	}
	s.log.Info("article created",
		zap.String("id", a.ID),
		zap.String("slug", a.Slug),
		zap.Stringer("status", a.Status),
		zap.String("actor", actor.ID),
	)
	return a, nil
}

// Update applies in to the article id.
func (s *Service) Update(ctx context.Context, actor Actor, id string, in Input) (*models.ArticleModel, error) {
	previous, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, previous, in.Status); err != nil {
		return nil, err
	}

	next := *previous
	if err := in.apply(&next, actor, s.conv); err != nil {
		return nil, err
	}
	if in.FeaturedImageID != nil {
		next.FeaturedImage = nil
	}
	if err := Validate(&next, ProfileBase); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, &next, previous); err != nil {
		return nil, err
	}
	return &next, nil
}

// SetStatus moves an article to status, subject to the same rules as Update.
func (s *Service) SetStatus(ctx context.Context, actor Actor, id string, status models.ArticleStatus) (*models.ArticleModel, error) {
	return s.Update(ctx, actor, id, Input{Status: &status})
}

// Delete removes the article and, when set, its featured image.
func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing, nil); err != nil {
		return err
	}

	if err := s.remove(ctx, existing); err != nil {
		return err
	}
	s.changed(ctx, existing.Slug)
	s.log.Info("article deleted", zap.String("id", id), zap.String("actor", actor.ID))
	return nil
}

// DeleteByAuthor removes every article owned by the user authorID, e.g. when
// the account is deleted.
func (s *Service) DeleteByAuthor(ctx context.Context, authorID string) (int, error) {
	var slugs []string
	defer func() {
		if len(slugs) > 0 {
			s.changed(ctx, slugs...)
		}
	}()
	for {
		rows, _, err := s.store.List(ctx, ListFilter{AuthorID: authorID}, pagination.New(1, pagination.MaxLimit))
		if err != nil {
			return len(slugs), err
		}
		if len(rows) == 0 {
			return len(slugs), nil
		}
		for i := range rows {
			if err := s.remove(ctx, &rows[i]); err != nil && !errors.Is(err, ErrNotFound) {
				return len(slugs), err
			}
			slugs = append(slugs, rows[i].Slug)
		}
	}
}

// remove deletes the featured image, then the row. A failed image cleanup is only logged.
func (s *Service) remove(ctx context.Context, a *models.ArticleModel) error {
	if a.FeaturedImageID != nil && s.media != nil {
		if err := s.media.Remove(ctx, *a.FeaturedImageID); err != nil {
			s.log.Warn("featured image cleanup failed",
				zap.String("article", a.ID),
				zap.String("media", *a.FeaturedImageID),
				zap.Error(err),
			)
		}
	}
	if err := s.store.Delete(ctx, a.ID); err != nil {
		return err
	}
	if s.history != nil {
		if err := s.history.Forget(ctx, a.ID); err != nil {
			s.log.Warn("slug history cleanup failed", zap.String("article", a.ID), zap.Error(err))
		}
	}
	return nil
}

// Get returns an article the actor is allowed to see in the admin panel.
func (s *Service) Get(ctx context.Context, actor Actor, id string) (*models.ArticleModel, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, a, nil); err != nil {
		return nil, err
	}
	return a, nil
}

// List is the admin panel list. Non-admins only ever see their own articles.
func (s *Service) List(ctx context.Context, actor Actor, lq ListQuery, q pagination.Query) ([]models.ArticleModel, int64, error) {
	var f ListFilter
	if lq.Status != "" && lq.Status != category.All {
		status, err := models.ParseArticleStatus(lq.Status)
		if err != nil {
			return nil, 0, &ValidationError{Err: err}
		}
		f.Statuses = []models.ArticleStatus{status}
	}
	if actor.IsAdmin() {
		f.Author = lq.Author
	} else {
		if actor.ID == "" {
			return nil, 0, ErrForbidden
		}
		f.AuthorID = actor.ID
	}
	f.Tag = lq.Tag
	f.Search = lq.Search
	return s.store.List(ctx, f, q)
}

// Summary counts articles per status, scoped to the actor for non-admins.
func (s *Service) Summary(ctx context.Context, actor Actor) (Summary, error) {
	authorID := ""
	if !actor.IsAdmin() {
		authorID = actor.ID
	}
	counts, err := s.store.CountByStatus(ctx, authorID)
	if err != nil {
		return Summary{}, err
	}
	var out Summary
	for _, n := range counts {
		out.TotalPosts += n
	}
	out.PublishedPosts = counts[models.StatusPublished]
	out.DraftPosts = counts[models.StatusDraft]
	out.ScheduledPosts = counts[models.StatusScheduled]
	out.ReviewPosts = counts[models.StatusReview]
	out.ArchivedPosts = counts[models.StatusArchived]
	return out, nil
}

// ListPublished lists published articles, newest publication first.
// The category parameter is resolved leniently: unknown values list everything.
func (s *Service) ListPublished(ctx context.Context, pq PublicQuery, q pagination.Query) ([]models.ArticleModel, int64, error) {
	f := ListFilter{
		Statuses: []models.ArticleStatus{models.StatusPublished},
		Search:   pq.Search,
		Tag:      pq.Tag,
		Featured: pq.Featured,
		Sort:     SortRecentlyPublished,
	}
	key := s.resolver.Resolve(pq.Category, category.ResolveOptions{Fallback: category.All, AllowAll: true})
	if key != category.All {
		f.Categories = s.resolver.QueryVariants(key)
	}
	return s.store.List(ctx, f, q)
}

// GetPublished returns a published article by slug and counts the view.
func (s *Service) GetPublished(ctx context.Context, slug string) (*models.ArticleModel, error) {
	a, err := s.store.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.store.IncrementViews(ctx, a.ID); err != nil {
		s.log.Warn("view count update failed", zap.String("id", a.ID), zap.Error(err))
	} else {
		a.Views++
	}
	return a, nil
}

// GetPublishedQuiet is GetPublished without touching the view counter.
func (s *Service) GetPublishedQuiet(ctx context.Context, slug string) (*models.ArticleModel, error) {
	return s.store.GetPublishedBySlug(ctx, slug)
}

// MovedSlug returns the current slug of a published article that used to be
// reachable under slug. ErrNotFound when there is none.
func (s *Service) MovedSlug(ctx context.Context, slug string) (string, error) {
	if s.history == nil || slug == "" {
		return "", ErrNotFound
	}
	id, err := s.history.Resolve(ctx, slug)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNotFound
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if a.Status != models.StatusPublished || a.Slug == slug {
		return "", ErrNotFound
	}
	return a.Slug, nil
}

// Recommendations returns up to limit published articles related to a:
// those sharing one of its categories first, then the most recent ones.
func (s *Service) Recommendations(ctx context.Context, a *models.ArticleModel, limit int) ([]models.ArticleModel, error) {
	if limit <= 0 {
		limit = RecommendationLimit
	}
	published := []models.ArticleStatus{models.StatusPublished}
	exclude := []string{a.ID}

	var out []models.ArticleModel
	if cats := a.Categories.Compact(); len(cats) > 0 {
		related, _, err := s.store.List(ctx, ListFilter{
			Statuses:   published,
			Categories: cats,
			ExcludeIDs: exclude,
			Sort:       SortRecentlyPublished,
		}, pagination.Query{Page: 1, Limit: limit})
		if err != nil {
			return nil, err
		}
		out = related
	}
	if len(out) >= limit {
		return out[:limit], nil
	}

	for _, r := range out {
		exclude = append(exclude, r.ID)
	}
	latest, _, err := s.store.List(ctx, ListFilter{
		Statuses:   published,
		ExcludeIDs: exclude,
		Sort:       SortRecentlyPublished,
	}, pagination.Query{Page: 1, Limit: limit - len(out)})
	if err != nil {
		return nil, err
	}
	return append(out, latest...), nil
}

// PublishDue publishes every Scheduled article whose scheduledAt has passed.
// It returns how many were published. Articles that fail are skipped for the
// rest of the run so they cannot hold back the ones queued behind them.
func (s *Service) PublishDue(ctx context.Context) (int, error) {
	now := s.now()
	published := 0
	var failures []error
	var skip []string
	for {
		due, _, err := s.store.List(ctx, ListFilter{
			Statuses:        []models.ArticleStatus{models.StatusScheduled},
			ScheduledBefore: &now,
			ExcludeIDs:      skip,
		}, pagination.Query{Page: 1, Limit: publishBatch})
		if err != nil {
			return published, err
		}
		for i := range due {
			previous, err := s.store.GetByID(ctx, due[i].ID)
			if err != nil {
				skip = append(skip, due[i].ID)
				failures = append(failures, err)
				continue
			}
			next := *previous
			next.Status = models.StatusPublished
			if err := s.persist(ctx, &next, previous); err != nil {
				s.log.Warn("scheduled publish failed", zap.String("id", next.ID), zap.Error(err))
				skip = append(skip, next.ID)
				failures = append(failures, fmt.Errorf("%s: %w", next.ID, err))
				continue
			}
			published++
			s.log.Info("scheduled article published", zap.String("id", next.ID), zap.String("slug", next.Slug))
		}
		if len(due) < publishBatch {
			break
		}
	}
	return published, errors.Join(failures...)
}

// Describe is the category display form of a.
func (s *Service) Describe(a *models.ArticleModel) category.Description {
	return s.resolver.Describe(a.Categories, s.resolver.DefaultKey())
}

// PublishedCategories feeds the category count endpoint.
func (s *Service) PublishedCategories(ctx context.Context) ([][]string, error) {
	return s.store.PublishedCategories(ctx)
}

// persist runs Prepare and writes a. A unique-index race on the slug re-runs
// Prepare, which picks the next free suffix.
func (s *Service) persist(ctx context.Context, a *models.ArticleModel, previous *models.ArticleModel) error {
	requestedSlug := a.Slug
	publishedBefore := a.PublishedAt
	var (
		out Outcome
		err error
	)
	for attempt := 1; ; attempt++ {
		a.Slug = requestedSlug
		a.PublishedAt = publishedBefore
		out, err = s.lifecycle.Prepare(ctx, a, previous)
		if err != nil {
			return err
		}
		if previous == nil {
			err = s.store.Create(ctx, a)
		} else {
			err = s.store.Save(ctx, a)
		}
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateSlug) || attempt >= maxWriteAttempts {
			return err
		}
		metrics.SlugCollisions.Inc()
		s.log.Debug("slug taken during write, retrying",
			zap.String("slug", a.Slug),
			zap.Int("attempt", attempt),
		)
	}

	if previous != nil && previous.Slug != "" && previous.Slug != a.Slug && s.history != nil {
		if err := s.history.Track(ctx, previous.Slug, a.ID); err != nil {
			s.log.Warn("slug history update failed",
				zap.String("article", a.ID),
				zap.String("old_slug", previous.Slug),
				zap.Error(err),
			)
		}
	}
	if out.StatusChanged {
		metrics.ArticleTransitions.WithLabelValues(a.Status.String()).Inc()
	}
	if previous != nil && previous.Slug != a.Slug {
		s.changed(ctx, a.Slug, previous.Slug)
	} else {
		s.changed(ctx, a.Slug)
	}
	return nil
}
