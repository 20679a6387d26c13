package user

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

var (
	ErrInvalidRole  = errors.New("role must be one of admin, author, or user")
	ErrSelfDemotion = errors.New("you cannot change your own role to a non-admin account")
	ErrLastAdmin    = errors.New("at least one admin is required, assign another admin before changing this role")
	ErrSelfDelete   = errors.New("you cannot delete your own account")
)

// AuthorSyncer keeps an author profile for users who write.
type AuthorSyncer interface {
	Sync(ctx context.Context, name, bio string)
}

// ArticleCascade deletes the articles owned by a user.
type ArticleCascade interface {
	DeleteByAuthor(ctx context.Context, authorID string) (int, error)
}

// MediaCascade deletes the media a user uploaded.
type MediaCascade interface {
	RemoveByUploader(ctx context.Context, userID string) (int, error)
}

type ProfileInput struct {
	Name      *string `json:"name"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Image     *string `json:"image"`
}

func (in ProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&in.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&in.Image, is.URL),
	)
}

type RoleInput struct {
	Role      string `json:"role"`
	AuthorBio string `json:"authorBio"`
}

// DeleteReport tells the caller what a user deletion cascaded to.
type DeleteReport struct {
	Articles int `json:"articles"`
	Media    int `json:"media"`
}

// AdminService implements account management for the admin panel.
type AdminService struct {
	users    Store
	authors  AuthorSyncer
	articles ArticleCascade
	media    MediaCascade
	log      *zap.Logger
}

func NewAdminService(users Store, authors AuthorSyncer, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{users: users, authors: authors, log: log}
}

// SetCascades wires what deleting a user also deletes.
func (s *AdminService) SetCascades(articles ArticleCascade, media MediaCascade) {
	s.articles = articles
	s.media = media
}

func (s *AdminService) List(ctx context.Context, role models.UserRole, q pagination.Query) ([]Public, int64, error) {
	rows, total, err := s.users.List(ctx, role, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Public, len(rows))
	for i := range rows {
		out[i] = ToPublic(&rows[i])
	}
	return out, total, nil
}

func (s *AdminService) Profile(ctx context.Context, id string) (*models.UserModel, error) {
	return s.users.FindUserByID(ctx, id)
}

// UpdateProfile changes the signed-in user's own name and email.
func (s *AdminService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*models.UserModel, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.FirstName != nil || in.LastName != nil {
		u.SyncName()
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = NormalizeEmail(*in.Email)
	}
	if in.Image != nil {
		u.Image = strings.TrimSpace(*in.Image)
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangeRole sets id's role. An admin cannot demote themselves and the last
// admin cannot be demoted. Promoting to author upserts the author profile.
func (s *AdminService) ChangeRole(ctx context.Context, actorID, id string, in RoleInput) (*models.UserModel, error) {
	role, ok := models.ParseUserRole(in.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if actorID == id && role != models.RoleAdmin {
		return nil, ErrSelfDemotion
	}
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleAdmin && role != models.RoleAdmin {
		admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	u.Role = role
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	if role == models.RoleAuthor && s.authors != nil {
		if name := strings.TrimSpace(u.Name); name != "" {
			s.authors.Sync(ctx, name, strings.TrimSpace(in.AuthorBio))
		}
	}
	s.log.Info("user role changed", zap.String("user", id), zap.String("role", string(role)), zap.String("actor", actorID))
	return u, nil
}

// DeleteUser removes id with everything it owns. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id string) (DeleteReport, error) {
	var rep DeleteReport
	if actorID == id {
		return rep, ErrSelfDelete
	}
	if _, err := s.users.FindUserByID(ctx, id); err != nil {
		return rep, err
	}

	if s.articles != nil {
		n, err := s.articles.DeleteByAuthor(ctx, id)
		rep.Articles = n
		if err != nil {
			return rep, err
		}
	}
	if s.media != nil {
		n, err := s.media.RemoveByUploader(ctx, id)
		rep.Media = n
		if err != nil {
			return rep, err
		}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return rep, err
	}
	s.log.Info("user deleted", zap.String("user", id), zap.String("actor", actorID),
		zap.Int("articles", rep.Articles), zap.Int("media", rep.Media))
	return rep, nil
}
