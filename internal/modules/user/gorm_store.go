package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/database"
	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) first(ctx context.Context, query string, arg interface{}) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*models.UserModel, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.UserModel, error) {
	return s.first(ctx, "email = ?", NormalizeEmail(email))
}

func (s *GormStore) Create(ctx context.Context, u *models.UserModel) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if database.IsDuplicateKey(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *GormStore) Save(ctx context.Context, u *models.UserModel) error {
	err := s.db.WithContext(ctx).Save(u).Error
	if database.IsDuplicateKey(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, role models.UserRole, q pagination.Query) ([]models.UserModel, int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.UserModel{})
	if role != "" {
		tx = tx.Where("role = ?", role)
	}
	var rows []models.UserModel
	meta, err := pagination.Paginate(tx.Order("created_at DESC"), q, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, meta.Total, nil
}

func (s *GormStore) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
