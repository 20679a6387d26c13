package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
	"github.com/debtprotection/blog-core/internal/modules/user"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

type fakeUsers struct {
	byEmail map[string]*models.UserModel
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]*models.UserModel{}} }

func (f *fakeUsers) FindUserByID(context.Context, string) (*models.UserModel, error) {
	return nil, user.ErrNotFound
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.UserModel, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *models.UserModel) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) Save(_ context.Context, u *models.UserModel) error {
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) Delete(context.Context, string) error { return nil }

func (f *fakeUsers) List(context.Context, models.UserRole, pagination.Query) ([]models.UserModel, int64, error) {
	return nil, 0, nil
}

func (f *fakeUsers) CountByRole(context.Context, models.UserRole) (int64, error) { return 0, nil }

func TestCreateAdmin(t *testing.T) {
	users := newFakeUsers()
	ctx := context.Background()

	_, _, err := createAdmin(ctx, users, "admin@example.com", "Admin", "short")
	assert.Error(t, err)

	u, created, err := createAdmin(ctx, users, " Admin@Example.com ", "Admin", "long enough")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, models.UserActive, u.Status)
	assert.True(t, user.CheckPassword(u, "long enough"))

	again, created, err := createAdmin(ctx, users, "admin@example.com", "Other", "different pw")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, user.CheckPassword(again, "long enough"))
}

func TestSetRoleAndResetPassword(t *testing.T) {
	users := newFakeUsers()
	ctx := context.Background()
	users.byEmail["kim@example.com"] = &models.UserModel{Email: "kim@example.com", Role: models.RoleUser, Status: models.UserSuspended}

	u, err := setRole(ctx, users, "KIM@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = setRole(ctx, users, "nobody@example.com", models.RoleAdmin)
	assert.True(t, errors.Is(err, user.ErrNotFound))

	_, err = resetPassword(ctx, users, "kim@example.com", "123")
	assert.Error(t, err)

	u, err = resetPassword(ctx, users, "kim@example.com", "new password")
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, u.Status)
	assert.True(t, user.CheckPassword(users.byEmail["kim@example.com"], "new password"))
}

type syncRecorder map[string]string

func (s syncRecorder) Sync(_ context.Context, name, bio string) { s[name] = bio }

type createRecorder struct {
	inputs []article.Input
}

func (c *createRecorder) Create(_ context.Context, actor article.Actor, in article.Input, profile article.Profile) (*models.ArticleModel, error) {
	if actor.Role != models.RoleAdmin || profile != article.ProfileStrict {
		return nil, errors.New("unexpected actor or profile")
	}
	c.inputs = append(c.inputs, in)
	return &models.ArticleModel{Slug: article.GenerateSlug(*in.Title), Author: *in.AuthorName}, nil
}

func TestSeedUsesPublishedStrictCreates(t *testing.T) {
	authors := syncRecorder{}
	articles := &createRecorder{}
	var out bytes.Buffer

	require.NoError(t, seed(context.Background(), &out, authors, articles))
	assert.Len(t, authors, len(demoAuthors))
	require.Len(t, articles.inputs, len(demoArticles))

	for _, in := range articles.inputs {
		assert.Equal(t, models.StatusPublished, *in.Status)
		_, known := authors[*in.AuthorName]
		assert.True(t, known, "author %q has a profile", *in.AuthorName)
	}
	assert.Contains(t, out.String(), "understanding-debt-management-strategies")
}

func TestDemoArticlesUseBuiltinCategories(t *testing.T) {
	resolver, err := category.NewResolver(category.Builtin, category.DefaultKey)
	require.NoError(t, err)
	for _, d := range demoArticles {
		key := resolver.Resolve(d.Category, category.ResolveOptions{})
		assert.NotEmpty(t, key, d.Category)
		assert.Equal(t, d.Category, resolver.Label(key))
	}
}
