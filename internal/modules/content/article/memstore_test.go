package article

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

// memStore is an in-memory Store with the same unique-slug behavior as the
// MySQL index.
type memStore struct {
	mu   sync.Mutex
	rows map[string]models.ArticleModel

	// stealSlugs makes the next write of a listed slug lose a race against
	// a concurrent writer, which is inserted first.
	stealSlugs map[string]bool
	// alwaysDuplicate fails every write with ErrDuplicateSlug.
	alwaysDuplicate bool
	writes          int
	viewsErr        error
	seq             int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]models.ArticleModel{}, stealSlugs: map[string]bool{}}
}

func (m *memStore) ExistsWithSlug(_ context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTaken(slug, excludeID), nil
}

func (m *memStore) slugTaken(slug, excludeID string) bool {
	for id, r := range m.rows {
		if r.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

func (m *memStore) write(a *models.ArticleModel) error {
	m.writes++
	if m.alwaysDuplicate {
		return ErrDuplicateSlug
	}
	if m.stealSlugs[a.Slug] {
		delete(m.stealSlugs, a.Slug)
		m.rows["racer-"+a.Slug] = models.ArticleModel{
			Base:  models.Base{ID: "racer-" + a.Slug},
			Title: "racer",
			Slug:  a.Slug,
		}
		return ErrDuplicateSlug
	}
	if m.slugTaken(a.Slug, a.ID) {
		return ErrDuplicateSlug
	}
	return nil
}

func (m *memStore) Create(_ context.Context, a *models.ArticleModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := m.write(a); err != nil {
		return err
	}
	m.seq++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Minute)
	}
	a.UpdatedAt = a.CreatedAt
	m.rows[a.ID] = *a
	return nil
}

func (m *memStore) Save(_ context.Context, a *models.ArticleModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write(a); err != nil {
		return err
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.ArticleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memStore) GetPublishedBySlug(_ context.Context, slug string) (*models.ArticleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Slug == slug && r.Status == models.StatusPublished {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) IncrementViews(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.viewsErr != nil {
		return m.viewsErr
	}
	r := m.rows[id]
	r.Views++
	m.rows[id] = r
	return nil
}

func (m *memStore) List(_ context.Context, f ListFilter, q pagination.Query) ([]models.ArticleModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.ArticleModel
	for _, r := range m.rows {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Sort == SortRecentlyPublished {
			pi, pj := publishedOrZero(out[i]), publishedOrZero(out[j])
			if !pi.Equal(pj) {
				return pi.After(pj)
			}
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	start := q.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func publishedOrZero(a models.ArticleModel) time.Time {
	if a.PublishedAt == nil {
		return time.Time{}
	}
	return *a.PublishedAt
}

func matches(r models.ArticleModel, f ListFilter) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, r.Status) {
		return false
	}
	if f.AuthorID != "" && (r.AuthorID == nil || *r.AuthorID != f.AuthorID) {
		return false
	}
	if f.Author != "" && r.Author != f.Author {
		return false
	}
	if f.Tag != "" && !containsString(r.Tags, f.Tag) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		hay := strings.ToLower(r.Title + " " + r.Content + " " + r.Excerpt)
		if !strings.Contains(hay, s) {
			return false
		}
	}
	if len(f.Categories) > 0 {
		hit := false
		for _, c := range r.Categories {
			if containsString(f.Categories, c) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if containsString(f.ExcludeIDs, r.ID) {
		return false
	}
	if f.ScheduledBefore != nil && (r.ScheduledAt == nil || r.ScheduledAt.After(*f.ScheduledBefore)) {
		return false
	}
	if f.Featured != nil && r.IsFeatured != *f.Featured {
		return false
	}
	return true
}

func containsStatus(list []models.ArticleStatus, s models.ArticleStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *memStore) CountByStatus(_ context.Context, authorID string) (map[models.ArticleStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[models.ArticleStatus]int64{}
	for _, r := range m.rows {
		if authorID != "" && (r.AuthorID == nil || *r.AuthorID != authorID) {
			continue
		}
		out[r.Status]++
	}
	return out, nil
}

func (m *memStore) PublishedCategories(context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]string
	for _, r := range m.rows {
		if r.Status == models.StatusPublished {
			out = append(out, r.Categories)
		}
	}
	return out, nil
}
