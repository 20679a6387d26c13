package media

import (
	"context"
	"errors"
	"strings"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

var ErrNotFound = errors.New("media not found")

// Kind narrows a listing to a family of MIME types.
type Kind string

const (
	KindAny       Kind = ""
	KindImages    Kind = "images"
	KindVideos    Kind = "videos"
	KindDocuments Kind = "documents"
)

// ParseKind maps the ?type= query value; unknown values list everything.
func ParseKind(raw string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindImages, KindVideos, KindDocuments:
		return k
	default:
		return KindAny
	}
}

// MIMEPrefix is the mime_type prefix a kind matches.
func (k Kind) MIMEPrefix() string {
	switch k {
	case KindImages:
		return "image/"
	case KindVideos:
		return "video/"
	case KindDocuments:
		return "application/"
	default:
		return ""
	}
}

type ListFilter struct {
	Search     string
	Kind       Kind
	UploadedBy string
}

// Stats summarises a media library, optionally for a single uploader.
type Stats struct {
	TotalFiles    int64 `json:"totalFiles"`
	ImageCount    int64 `json:"imageCount"`
	VideoCount    int64 `json:"videoCount"`
	DocumentCount int64 `json:"documentCount"`
	TotalSize     int64 `json:"totalSize"`
}

type Store interface {
	Create(ctx context.Context, m *models.MediaModel) error
	Save(ctx context.Context, m *models.MediaModel) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.MediaModel, error)
	List(ctx context.Context, f ListFilter, q pagination.Query) ([]models.MediaModel, int64, error)
	Stats(ctx context.Context, uploaderID string) (Stats, error)
	// ListByUploader returns every item uploaded by userID, for cascades.
	ListByUploader(ctx context.Context, userID string) ([]models.MediaModel, error)
}
