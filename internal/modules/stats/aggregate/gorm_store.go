package aggregate

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Overview(ctx context.Context, monthStart time.Time) (Overview, error) {
	db := s.db.WithContext(ctx)
	var o Overview

	var users struct {
		Total    int64
		Active   int64
		NewUsers int64
	}
	err := db.Model(&models.UserModel{}).Select(
		"COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
			"COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS new_users",
		models.UserActive, monthStart,
	).Scan(&users).Error
	if err != nil {
		return o, err
	}
	o.TotalUsers, o.ActiveUsers, o.NewUsersThisMonth = users.Total, users.Active, users.NewUsers

	var byStatus []struct {
		Status models.ArticleStatus
		Count  int64
		Views  int64
	}
	err = db.Model(&models.ArticleModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(views), 0) AS views").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return o, err
	}
	for _, row := range byStatus {
		o.TotalViews += row.Views
		switch row.Status {
		case models.StatusPublished:
			o.PublishedArticles = row.Count
		case models.StatusDraft:
			o.DraftArticles = row.Count
		case models.StatusReview:
			o.ReviewArticles = row.Count
		case models.StatusScheduled:
			o.ScheduledArticles = row.Count
		}
	}

	if err := db.Model(&models.AuthorModel{}).Count(&o.AuthorCount).Error; err != nil {
		return o, err
	}
	return o, nil
}

func (s *GormStore) MonthlyArticles(ctx context.Context, from time.Time) ([]MonthCount, error) {
	var rows []MonthCount
	err := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Select(
			"YEAR(created_at) AS year, MONTH(created_at) AS month, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS published, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS drafts",
			models.StatusPublished, models.StatusDraft,
		).
		Where("created_at >= ?", from).
		Group("YEAR(created_at), MONTH(created_at)").
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) LatestArticles(ctx context.Context, limit int) ([]models.ArticleModel, error) {
	var rows []models.ArticleModel
	err := s.db.WithContext(ctx).
		Select("id", "title", "author", "status", "published_at", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) LatestUsers(ctx context.Context, limit int) ([]models.UserModel, error) {
	var rows []models.UserModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (s *GormStore) TopAuthors(ctx context.Context, limit int) ([]TopAuthor, error) {
	var rows []TopAuthor
	err := s.db.WithContext(ctx).
		Table("articles").
		Select("articles.author AS name, COALESCE(MAX(authors.bio), '') AS bio, "+
			"COUNT(*) AS published, COALESCE(SUM(articles.views), 0) AS views, "+
			"MAX(COALESCE(articles.published_at, articles.created_at)) AS latest_published").
		Joins("LEFT JOIN authors ON authors.name = articles.author").
		Where("articles.status = ?", models.StatusPublished).
		Group("articles.author").
		Order("published DESC, latest_published DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
