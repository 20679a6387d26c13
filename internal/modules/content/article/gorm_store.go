package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/debtprotection/blog-core/internal/database"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the MySQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ExistsWithSlug(ctx context.Context, slug, excludeID string) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&models.ArticleModel{}).Where("slug = ?", slug)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var n int64
	if err := tx.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) Create(ctx context.Context, a *models.ArticleModel) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
	return translateWriteError(err, a.Slug)
}

func (s *GormStore) Save(ctx context.Context, a *models.ArticleModel) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
	return translateWriteError(err, a.Slug)
}

func translateWriteError(err error, slug string) error {
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
	}
	return err
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.ArticleModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*models.ArticleModel, error) {
	var a models.ArticleModel
	err := s.db.WithContext(ctx).
		Preload("AuthorUser").
		Preload("FeaturedImage").
		First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) GetPublishedBySlug(ctx context.Context, slug string) (*models.ArticleModel, error) {
	var a models.ArticleModel
	err := s.db.WithContext(ctx).
		Preload("AuthorUser").
		Preload("FeaturedImage").
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) IncrementViews(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (s *GormStore) List(ctx context.Context, f ListFilter, q pagination.Query) ([]models.ArticleModel, int64, error) {
	tx, err := applyFilter(s.db.WithContext(ctx).Model(&models.ArticleModel{}), f)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case SortRecentlyPublished:
		tx = tx.Order("published_at DESC").Order("created_at DESC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var rows []models.ArticleModel
	err = tx.Preload("AuthorUser").
		Omit("content_markdown").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&rows).Error
	return rows, total, err
}

func applyFilter(tx *gorm.DB, f ListFilter) (*gorm.DB, error) {
	if len(f.Statuses) > 0 {
		tx = tx.Where("status IN ?", f.Statuses)
	}
	if f.AuthorID != "" {
		tx = tx.Where("author_id = ?", f.AuthorID)
	}
	if f.Author != "" {
		tx = tx.Where("author = ?", f.Author)
	}
	if f.Tag != "" {
		tag, err := json.Marshal(f.Tag)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("JSON_CONTAINS(tags, ?)", string(tag))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		tx = tx.Where("(title LIKE ? OR content LIKE ? OR excerpt LIKE ?)", like, like, like)
	}
	if len(f.Categories) > 0 {
		values, err := json.Marshal(f.Categories)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("JSON_OVERLAPS(categories, CAST(? AS JSON))", string(values))
	}
	if len(f.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", f.ExcludeIDs)
	}
	if f.ScheduledBefore != nil {
		tx = tx.Where("scheduled_at IS NOT NULL AND scheduled_at <= ?", *f.ScheduledBefore)
	}
	if f.Featured != nil {
		tx = tx.Where("is_featured = ?", *f.Featured)
	}
	return tx, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *GormStore) CountByStatus(ctx context.Context, authorID string) (map[models.ArticleStatus]int64, error) {
	var rows []struct {
		Status models.ArticleStatus
		N      int64
	}
	tx := s.db.WithContext(ctx).Model(&models.ArticleModel{}).Select("status, COUNT(*) AS n").Group("status")
	if authorID != "" {
		tx = tx.Where("author_id = ?", authorID)
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[models.ArticleStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] += r.N
	}
	return out, nil
}

func (s *GormStore) PublishedCategories(ctx context.Context) ([][]string, error) {
	var rows []struct {
		Categories models.StringArray
	}
	err := s.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Select("categories").
		Where("status = ?", models.StatusPublished).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Categories
	}
	return out, nil
}
