// Package slughistory remembers the slugs articles used to have so that old
// links keep resolving after a title change.
package slughistory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/models"
)

// ErrNotFound is returned by Remove when no redirect exists for the slug.
var ErrNotFound = errors.New("slug redirect not found")

// Service stores slug redirects in the slug_redirects table.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Track records that oldSlug now points at articleID. An existing entry for
// the slug is repointed.
func (s *Service) Track(ctx context.Context, oldSlug, articleID string) error {
	row := models.SlugRedirectModel{Slug: oldSlug, ArticleID: articleID}
	return s.db.WithContext(ctx).
		Where(models.SlugRedirectModel{Slug: oldSlug}).
		Assign(models.SlugRedirectModel{ArticleID: articleID}).
		FirstOrCreate(&row).Error
}

// Resolve returns the article an old slug points at, or "" when unknown.
func (s *Service) Resolve(ctx context.Context, slug string) (string, error) {
	var row models.SlugRedirectModel
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.ArticleID, nil
}

// Forget drops every redirect for a deleted article.
func (s *Service) Forget(ctx context.Context, articleID string) error {
	return s.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.SlugRedirectModel{}).Error
}

// ForArticle lists the old slugs of one article, newest first.
func (s *Service) ForArticle(ctx context.Context, articleID string) ([]models.SlugRedirectModel, error) {
	var rows []models.SlugRedirectModel
	err := s.db.WithContext(ctx).Where("article_id = ?", articleID).Order("updated_at DESC").Find(&rows).Error
	return rows, err
}

// Remove deletes one redirect so the old slug stops resolving.
func (s *Service) Remove(ctx context.Context, slug string) error {
	res := s.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.SlugRedirectModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
