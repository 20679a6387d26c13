// Package auth implements email/password registration and login for the admin panel.
package auth

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/user"
	"github.com/debtprotection/blog-core/internal/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("check your email and password, then try again")
	ErrPanelForbidden     = errors.New("you don't have permission to access the admin panel")
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// AuthorSyncer keeps an author profile for users who write.
type AuthorSyncer interface {
	Sync(ctx context.Context, name, bio string)
}

type RegisterDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	AuthorBio string `json:"authorBio"`
}

func (d RegisterDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Email, validation.Required.Error("Email is required"), is.EmailFormat),
		validation.Field(&d.Password,
			validation.Required.Error("Password is required"),
			validation.Length(minPasswordLen, maxPasswordLen),
		),
		validation.Field(&d.Role, validation.In("", "user", "author", "admin").Error("role must be user, author or admin")),
	)
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Email, validation.Required.Error("Email is required")),
		validation.Field(&d.Password, validation.Required.Error("Password is required")),
	)
}

// Session is what register and login return.
type Session struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

type Service struct {
	users   user.Store
	signer  *jwt.Signer
	authors AuthorSyncer
	log     *zap.Logger
}

func NewService(users user.Store, signer *jwt.Signer, authors AuthorSyncer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, signer: signer, authors: authors, log: log}
}

// Register creates an account. The very first account, or any account created
// while no admin exists, becomes admin. Otherwise a requested "admin" role is
// downgraded to "user"; "author" may be self-selected.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Session, error) {
	dto.Email = user.NormalizeEmail(dto.Email)
	dto.Role = strings.ToLower(strings.TrimSpace(dto.Role))
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	role := models.RoleUser
	switch {
	case admins == 0:
		role = models.RoleAdmin
	case dto.Role == string(models.RoleAuthor):
		role = models.RoleAuthor
	}

	hash, err := user.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}
	u := &models.UserModel{
		FirstName:    strings.TrimSpace(dto.FirstName),
		LastName:     strings.TrimSpace(dto.LastName),
		Email:        dto.Email,
		Role:         role,
		PasswordHash: hash,
		Status:       models.UserActive,
	}
	u.SyncName()
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("account registered", zap.String("id", u.ID), zap.String("role", string(u.Role)))

	if u.Role == models.RoleAuthor && s.authors != nil {
		s.authors.Sync(ctx, u.Name, dto.AuthorBio)
	}
	return s.session(u)
}

// Login checks credentials. Only admins and authors may sign in to the panel.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindUserByEmail(ctx, dto.Email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(u, dto.Password) || u.Status == models.UserSuspended {
		return nil, ErrInvalidCredentials
	}
	if u.Role != models.RoleAdmin && u.Role != models.RoleAuthor {
		return nil, ErrPanelForbidden
	}
	return s.session(u)
}

func (s *Service) session(u *models.UserModel) (*Session, error) {
	token, err := s.signer.Sign(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: user.ToPublic(u), Token: token}, nil
}
