package legacy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
)

// Collection file names inside a mongodump database directory.
const (
	UsersFile    = "users.bson"
	AuthorsFile  = "authors.bson"
	MediaFile    = "media.bson"
	ArticlesFile = "articles.bson"
)

// Batch is everything decoded from one dump directory.
type Batch struct {
	Users    []models.UserModel
	Authors  []models.AuthorModel
	Media    []models.MediaModel
	Articles []models.ArticleModel
	// Warnings lists documents that were converted with a fallback.
	Warnings []string
}

// Load reads the collection files in dir. Missing files are skipped.
func Load(dir string) (*Batch, error) {
	b := &Batch{}

	users, err := loadFile[userDoc](dir, UsersFile)
	if err != nil {
		return nil, err
	}
	for _, d := range users {
		u := d.model()
		if u.ID == "" || u.Email == "" {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s: skipped user without id or email", UsersFile))
			continue
		}
		b.Users = append(b.Users, u)
	}

	authors, err := loadFile[authorDoc](dir, AuthorsFile)
	if err != nil {
		return nil, err
	}
	for _, d := range authors {
		a := d.model()
		if a.ID == "" || a.Name == "" {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s: skipped author without id or name", AuthorsFile))
			continue
		}
		b.Authors = append(b.Authors, a)
	}

	media, err := loadFile[mediaDoc](dir, MediaFile)
	if err != nil {
		return nil, err
	}
	for _, d := range media {
		m := d.model()
		if m.ID == "" || m.Filename == "" {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s: skipped media without id or filename", MediaFile))
			continue
		}
		b.Media = append(b.Media, m)
	}

	articles, err := loadFile[articleDoc](dir, ArticlesFile)
	if err != nil {
		return nil, err
	}
	for _, d := range articles {
		a, statusOK := d.model()
		if a.ID == "" {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s: skipped article without id", ArticlesFile))
			continue
		}
		if !statusOK {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s: article %s has unknown status %q, imported as Draft", ArticlesFile, a.ID, d.Status))
		}
		b.Articles = append(b.Articles, a)
	}

	return b, nil
}

func loadFile[T any](dir, name string) ([]T, error) {
	payload, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	docs, err := decodeDocs[T](payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return docs, nil
}

// Counts tallies one collection.
type Counts struct {
	Imported int
	Skipped  int
	Failed   int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d imported, %d skipped, %d failed", c.Imported, c.Skipped, c.Failed)
}

type Report struct {
	Users    Counts
	Authors  Counts
	Media    Counts
	Articles Counts
}

// Importer writes a Batch. Rows whose ID already exists are skipped, so
// running it twice is harmless.
type Importer struct {
	db        *gorm.DB
	lifecycle *article.Lifecycle
	conv      *article.Converter
	log       *zap.Logger
}

func NewImporter(db *gorm.DB, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	store := article.NewGormStore(db)
	return &Importer{
		db:        db,
		lifecycle: article.NewLifecycle(store.ExistsWithSlug),
		conv:      article.NewConverter(),
		log:       log,
	}
}

// Import inserts users, authors, media and articles in that order so
// references resolve.
func (im *Importer) Import(ctx context.Context, b *Batch) (Report, error) {
	var rep Report
	for _, w := range b.Warnings {
		im.log.Warn("legacy import", zap.String("warning", w))
	}

	for i := range b.Users {
		if err := im.insert(ctx, &b.Users[i], &rep.Users); err != nil {
			return rep, err
		}
	}
	for i := range b.Authors {
		if err := im.insert(ctx, &b.Authors[i], &rep.Authors); err != nil {
			return rep, err
		}
	}
	for i := range b.Media {
		m := &b.Media[i]
		if m.UploadedBy != nil && !im.exists(ctx, &models.UserModel{}, *m.UploadedBy) {
			m.UploadedBy = nil
		}
		if err := im.insert(ctx, m, &rep.Media); err != nil {
			return rep, err
		}
	}
	for i := range b.Articles {
		a := &b.Articles[i]
		if im.exists(ctx, &models.ArticleModel{}, a.ID) {
			rep.Articles.Skipped++
			continue
		}
		if a.AuthorID != nil && !im.exists(ctx, &models.UserModel{}, *a.AuthorID) {
			a.AuthorID = nil
		}
		if a.FeaturedImageID != nil && !im.exists(ctx, &models.MediaModel{}, *a.FeaturedImageID) {
			a.FeaturedImageID = nil
		}
		if err := im.prepare(ctx, a); err != nil {
			im.log.Warn("legacy import: article rejected", zap.String("id", a.ID), zap.String("title", a.Title), zap.Error(err))
			rep.Articles.Failed++
			continue
		}
		if err := im.insert(ctx, a, &rep.Articles); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// prepare runs the article lifecycle. The baseline carries the same title,
// so a stored slug is normalised and de-duplicated instead of regenerated.
func (im *Importer) prepare(ctx context.Context, a *models.ArticleModel) error {
	if strings.TrimSpace(a.ContentMarkdown) == "" && strings.TrimSpace(a.Content) != "" {
		md, err := im.conv.ToMarkdown(a.Content)
		if err != nil {
			return fmt.Errorf("convert content: %w", err)
		}
		a.ContentMarkdown = md
	}
	baseline := &models.ArticleModel{Base: a.Base, Title: a.Title, Status: a.Status}
	if _, err := im.lifecycle.Prepare(ctx, a, baseline); err != nil {
		return err
	}
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		stamp := a.CreatedAt
		if stamp.IsZero() {
			stamp = a.UpdatedAt
		}
		a.PublishedAt = timePtr(stamp)
	}
	return nil
}

func (im *Importer) exists(ctx context.Context, model interface{}, id string) bool {
	var n int64
	if err := im.db.WithContext(ctx).Model(model).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		im.log.Warn("legacy import: lookup failed", zap.String("id", id), zap.Error(err))
		return false
	}
	return n > 0
}

// insert skips rows that clash on the primary key or a unique index.
func (im *Importer) insert(ctx context.Context, row interface{}, counts *Counts) error {
	res := im.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		counts.Skipped++
		return nil
	}
	counts.Imported++
	return nil
}
