// Package media stores uploaded files and keeps the media library rows that
// describe them.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/metrics"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

// FetchTimeout bounds downloads for URL uploads.
const FetchTimeout = 10 * time.Second

var (
	ErrForbidden   = errors.New("you can only modify your own uploads")
	ErrNoFile      = errors.New("no file or URL provided")
	ErrInvalidType = errors.New("file type is not allowed")
	ErrTooLarge    = errors.New("file is too large")
	ErrInvalidURL  = errors.New("please provide a valid HTTP or HTTPS URL")
	ErrFetch       = errors.New("the provided URL is not accessible or does not contain a valid image")
)

// Accept is an allowlist of MIME types.
type Accept map[string]bool

var (
	// AcceptImages is used by the editor's image upload.
	AcceptImages = Accept{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	// AcceptLibrary is what the media library takes.
	AcceptLibrary = Accept{
		"image/jpeg":         true,
		"image/jpg":          true,
		"image/png":          true,
		"image/gif":          true,
		"image/webp":         true,
		"video/mp4":          true,
		"video/webm":         true,
		"video/ogg":          true,
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	}
)

// File is an upload waiting to be stored.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	AltText     string
	Caption     string
}

type UpdateInput struct {
	AltText  *string   `json:"altText"`
	Caption  *string   `json:"caption"`
	Tags     *[]string `json:"tags"`
	IsPublic *bool     `json:"isPublic"`
}

type Service struct {
	store    Store
	driver   Driver
	drivers  map[string]Driver
	maxBytes int64
	client   *http.Client
	log      *zap.Logger
}

func NewService(store Store, driver Driver, maxBytes int64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		driver:   driver,
		drivers:  map[string]Driver{driver.Name(): driver},
		maxBytes: maxBytes,
		client:   &http.Client{Timeout: FetchTimeout},
		log:      log,
	}
}

// AddDriver registers a driver used only to delete objects written by it,
// e.g. the local driver after switching to s3.
func (s *Service) AddDriver(d Driver) {
	if _, ok := s.drivers[d.Name()]; !ok {
		s.drivers[d.Name()] = d
	}
}

// MaxBytes is the upload size limit.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

func canModify(actor *models.UserModel, m *models.MediaModel) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	return m.UploadedBy != nil && *m.UploadedBy == actor.ID
}

// Upload validates f against accept, writes it through the driver and
// records it. The stored object is removed again when the row cannot be saved.
func (s *Service) Upload(ctx context.Context, uploader *models.UserModel, f File, accept Accept) (*models.MediaModel, error) {
	if len(f.Data) == 0 {
		return nil, ErrNoFile
	}
	if s.maxBytes > 0 && int64(len(f.Data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: limit is %dMB", ErrTooLarge, s.maxBytes>>20)
	}
	contentType := detectContentType(f.Name, f.Data, f.ContentType)
	if accept != nil && !accept[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, contentType)
	}

	name := buildFileName(f.Name, ".dat")
	publicURL, err := s.driver.Put(ctx, name, f.Data, contentType)
	if err != nil {
		return nil, err
	}
	metrics.MediaUploadBytes.WithLabelValues(s.driver.Name()).Add(float64(len(f.Data)))

	original := strings.TrimSpace(f.Name)
	if original == "" {
		original = name
	}
	m := &models.MediaModel{
		Filename:     name,
		OriginalName: original,
		URL:          publicURL,
		MimeType:     contentType,
		Size:         int64(len(f.Data)),
		Driver:       s.driver.Name(),
		AltText:      strings.TrimSpace(f.AltText),
		Caption:      strings.TrimSpace(f.Caption),
		Tags:         models.StringArray{},
	}
	if uploader != nil {
		id := uploader.ID
		m.UploadedBy = &id
		m.Uploader = uploader
	}
	if err := s.store.Create(ctx, m); err != nil {
		if derr := s.driver.Delete(ctx, name); derr != nil {
			s.log.Warn("media: cleanup after failed insert", zap.String("file", name), zap.Error(derr))
		}
		return nil, err
	}
	return m, nil
}

// UploadFromURL downloads an image and stores it like a regular upload.
func (s *Service) UploadFromURL(ctx context.Context, uploader *models.UserModel, rawURL, altText, caption string) (*models.MediaModel, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ErrInvalidURL
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Info("media: url download failed", zap.String("url", u.String()), zap.Error(err))
		return nil, ErrFetch
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}
	contentType := normalizeMIME(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", ErrFetch, contentType)
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 1 << 30
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	name := nameFromURL(u.Path)
	if !strings.Contains(name, ".") {
		name += ".jpg"
	}
	return s.Upload(ctx, uploader, File{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		AltText:     altText,
		Caption:     caption,
	}, AcceptImages)
}

func (s *Service) Get(ctx context.Context, id string) (*models.MediaModel, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, q pagination.Query) ([]models.MediaModel, int64, error) {
	return s.store.List(ctx, f, q)
}

// Stats covers the whole library for admins and the actor's own uploads otherwise.
func (s *Service) Stats(ctx context.Context, actor *models.UserModel) (Stats, error) {
	uploader := ""
	if actor != nil && actor.Role != models.RoleAdmin {
		uploader = actor.ID
	}
	return s.store.Stats(ctx, uploader)
}

func (s *Service) Update(ctx context.Context, actor *models.UserModel, id string, in UpdateInput) (*models.MediaModel, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, m) {
		return nil, ErrForbidden
	}
	if in.AltText != nil {
		m.AltText = strings.TrimSpace(*in.AltText)
	}
	if in.Caption != nil {
		m.Caption = strings.TrimSpace(*in.Caption)
	}
	if in.Tags != nil {
		m.Tags = models.StringArray(*in.Tags).Compact()
	}
	if in.IsPublic != nil {
		m.IsPublic = *in.IsPublic
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes an item the actor uploaded, or any item for admins.
func (s *Service) Delete(ctx context.Context, actor *models.UserModel, id string) error {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, m) {
		return ErrForbidden
	}
	return s.remove(ctx, m)
}

// Remove deletes an item without an ownership check. Article and user
// deletion cascade through it.
func (s *Service) Remove(ctx context.Context, id string) error {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, m)
}

// RemoveByUploader deletes everything userID uploaded.
func (s *Service) RemoveByUploader(ctx context.Context, userID string) (int, error) {
	rows, err := s.store.ListByUploader(ctx, userID)
	if err != nil {
		return 0, err
	}
	var errs []error
	removed := 0
	for i := range rows {
		if err := s.remove(ctx, &rows[i]); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// remove drops the stored object, then the row. A failed object delete is
// only logged.
func (s *Service) remove(ctx context.Context, m *models.MediaModel) error {
	if d, ok := s.drivers[m.Driver]; ok {
		if err := d.Delete(ctx, m.Filename); err != nil {
			s.log.Warn("media: delete stored object", zap.String("id", m.ID), zap.String("file", m.Filename), zap.Error(err))
		}
	} else {
		s.log.Warn("media: no driver for stored object", zap.String("id", m.ID), zap.String("driver", m.Driver))
	}
	return s.store.Delete(ctx, m.ID)
}
