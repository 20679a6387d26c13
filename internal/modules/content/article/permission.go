package article

import "github.com/debtprotection/blog-core/internal/models"

// Actor is the authenticated user performing a mutation.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  models.UserRole
}

// IsAdmin reports whether the actor may act on any article.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// DisplayName is what gets stored as the article's author string.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

// Authorize checks whether actor may create (existing == nil) or mutate existing,
// optionally moving it to requested. Admins may do anything. Authors may only
// touch their own articles and may only move them between Draft and Review.
func Authorize(actor Actor, existing *models.ArticleModel, requested *models.ArticleStatus) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleAuthor:
	default:
		return ErrForbidden
	}

	if existing != nil && !existing.IsOwnedBy(actor.ID) {
		return ErrForbidden
	}
	if requested == nil {
		return nil
	}
	if existing != nil && existing.Status == *requested {
		return nil
	}
	if existing != nil && existing.Status == models.StatusArchived {
		return ErrAuthorCannotArchive
	}
	switch *requested {
	case models.StatusPublished, models.StatusScheduled:
		return ErrAuthorCannotPublish
	case models.StatusArchived:
		return ErrAuthorCannotArchive
	case models.StatusDraft, models.StatusReview:
		return nil
	default:
		return invalid("status", "unknown status")
	}
}
