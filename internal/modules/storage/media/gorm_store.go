package media

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, m *models.MediaModel) error {
	return s.db.WithContext(ctx).Omit("Uploader").Create(m).Error
}

func (s *GormStore) Save(ctx context.Context, m *models.MediaModel) error {
	return s.db.WithContext(ctx).Omit("Uploader").Save(m).Error
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.MediaModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*models.MediaModel, error) {
	var m models.MediaModel
	err := s.db.WithContext(ctx).Preload("Uploader").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) List(ctx context.Context, f ListFilter, q pagination.Query) ([]models.MediaModel, int64, error) {
	tx := s.filtered(ctx, f)
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.MediaModel
	err := tx.Order("created_at DESC").
		Preload("Uploader").
		Offset(q.Offset()).Limit(q.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *GormStore) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.MediaModel{})
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		tx = tx.Where("filename LIKE ? OR original_name LIKE ? OR alt_text LIKE ?", like, like, like)
	}
	if prefix := f.Kind.MIMEPrefix(); prefix != "" {
		tx = tx.Where("mime_type LIKE ?", prefix+"%")
	}
	if f.UploadedBy != "" {
		tx = tx.Where("uploaded_by = ?", f.UploadedBy)
	}
	return tx
}

func (s *GormStore) Stats(ctx context.Context, uploaderID string) (Stats, error) {
	var st Stats
	tx := s.db.WithContext(ctx).Model(&models.MediaModel{}).Select(
		"COUNT(*) AS total_files, " +
			"COALESCE(SUM(CASE WHEN mime_type LIKE 'image/%' THEN 1 ELSE 0 END), 0) AS image_count, " +
			"COALESCE(SUM(CASE WHEN mime_type LIKE 'video/%' THEN 1 ELSE 0 END), 0) AS video_count, " +
			"COALESCE(SUM(CASE WHEN mime_type LIKE 'application/%' THEN 1 ELSE 0 END), 0) AS document_count, " +
			"COALESCE(SUM(size), 0) AS total_size")
	if uploaderID != "" {
		tx = tx.Where("uploaded_by = ?", uploaderID)
	}
	err := tx.Scan(&st).Error
	return st, err
}

func (s *GormStore) ListByUploader(ctx context.Context, userID string) ([]models.MediaModel, error) {
	var rows []models.MediaModel
	err := s.db.WithContext(ctx).Where("uploaded_by = ?", userID).Find(&rows).Error
	return rows, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
