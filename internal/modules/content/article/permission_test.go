package article

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/debtprotection/blog-core/internal/models"
)

func statusPtr(s models.ArticleStatus) *models.ArticleStatus { return &s }

func TestAuthorize(t *testing.T) {
	admin := Actor{ID: "admin", Role: models.RoleAdmin}
	author := Actor{ID: "u1", Role: models.RoleAuthor}
	reader := Actor{ID: "u2", Role: models.RoleUser}

	ownerID := "u1"
	own := &models.ArticleModel{AuthorID: &ownerID, Status: models.StatusDraft}
	otherID := "u9"
	foreign := &models.ArticleModel{AuthorID: &otherID, Status: models.StatusDraft}
	published := &models.ArticleModel{AuthorID: &ownerID, Status: models.StatusPublished}
	archived := &models.ArticleModel{AuthorID: &ownerID, Status: models.StatusArchived}

	tests := []struct {
		name      string
		actor     Actor
		existing  *models.ArticleModel
		requested *models.ArticleStatus
		want      error
	}{
		{"admin publishes anything", admin, foreign, statusPtr(models.StatusPublished), nil},
		{"admin unpublishes", admin, published, statusPtr(models.StatusDraft), nil},
		{"reader creates", reader, nil, statusPtr(models.StatusDraft), ErrForbidden},
		{"reader edits", reader, own, nil, ErrForbidden},
		{"author creates draft", author, nil, statusPtr(models.StatusDraft), nil},
		{"author creates published", author, nil, statusPtr(models.StatusPublished), ErrAuthorCannotPublish},
		{"author submits for review", author, own, statusPtr(models.StatusReview), nil},
		{"author archives draft", author, own, statusPtr(models.StatusArchived), ErrAuthorCannotArchive},
		{"author archives published", author, published, statusPtr(models.StatusArchived), ErrAuthorCannotArchive},
		{"author restores archived", author, archived, statusPtr(models.StatusDraft), ErrAuthorCannotArchive},
		{"author edits archived content", author, archived, nil, nil},
		{"author unpublishes to draft", author, published, statusPtr(models.StatusDraft), nil},
		{"admin archives", admin, published, statusPtr(models.StatusArchived), nil},
		{"author publishes", author, own, statusPtr(models.StatusPublished), ErrAuthorCannotPublish},
		{"author schedules", author, own, statusPtr(models.StatusScheduled), ErrAuthorCannotPublish},
		{"author edits content only", author, own, nil, nil},
		{"author keeps published status", author, published, statusPtr(models.StatusPublished), nil},
		{"author touches foreign article", author, foreign, nil, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.existing, tt.requested)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
