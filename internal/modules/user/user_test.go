package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/debtprotection/blog-core/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	u := &models.UserModel{PasswordHash: hash}
	assert.True(t, CheckPassword(u, "correct horse"))
	assert.False(t, CheckPassword(u, "battery staple"))
	assert.False(t, CheckPassword(&models.UserModel{}, ""))
	assert.False(t, CheckPassword(nil, "x"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestToPublicOmitsHash(t *testing.T) {
	u := &models.UserModel{
		Base:         models.Base{ID: "u1", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		Email:        "a@b.c",
		Role:         models.RoleAuthor,
		PasswordHash: "secret",
	}
	p := ToPublic(u)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, models.RoleAuthor, p.Role)
	assert.Equal(t, u.CreatedAt, p.CreatedAt)
}
