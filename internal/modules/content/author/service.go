// Package author manages the public author profiles shown next to articles.
package author

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/models"
)

var ErrExists = errors.New("author with this name already exists")

const maxNameRunes = 191

// Store persists author profiles. Create returns ErrExists on a name clash.
type Store interface {
	List(ctx context.Context) ([]models.AuthorModel, error)
	Create(ctx context.Context, a *models.AuthorModel) error
	// Upsert creates the profile named name, or updates its bio when bio is non-empty.
	Upsert(ctx context.Context, name, bio string) (*models.AuthorModel, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Input is the body of POST /authors.
type Input struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("Author name is required"),
			validation.RuneLength(0, maxNameRunes),
		),
	)
}

func (s *Service) List(ctx context.Context) ([]models.AuthorModel, error) {
	return s.store.List(ctx)
}

func (s *Service) Create(ctx context.Context, in Input) (*models.AuthorModel, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Bio = strings.TrimSpace(in.Bio)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := &models.AuthorModel{Name: in.Name, Bio: in.Bio}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Sync keeps an author profile for a user who writes under name. Failures are
// logged and swallowed: a missing profile never blocks the account change.
func (s *Service) Sync(ctx context.Context, name, bio string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, err := s.store.Upsert(ctx, name, strings.TrimSpace(bio)); err != nil {
		s.log.Warn("author profile sync failed", zap.String("name", name), zap.Error(err))
	}
}
