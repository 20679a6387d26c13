package author

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/database"
	"github.com/debtprotection/blog-core/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]models.AuthorModel, error) {
	var out []models.AuthorModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) Create(ctx context.Context, a *models.AuthorModel) error {
	err := s.db.WithContext(ctx).Create(a).Error
	if database.IsDuplicateKey(err) {
		return ErrExists
	}
	return err
}

func (s *GormStore) Upsert(ctx context.Context, name, bio string) (*models.AuthorModel, error) {
	var a models.AuthorModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&a).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			a = models.AuthorModel{Name: name, Bio: bio}
			return tx.Create(&a).Error
		case err != nil:
			return err
		case bio != "" && bio != a.Bio:
			a.Bio = bio
			return tx.Model(&a).Update("bio", bio).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
