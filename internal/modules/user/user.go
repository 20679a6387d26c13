// Package user holds account persistence and password handling shared by
// authentication, the admin panel and the operator CLI.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("an account with that email already exists")
)

// PasswordCost is the bcrypt work factor for new hashes.
const PasswordCost = 12

// Store persists accounts.
type Store interface {
	FindUserByID(ctx context.Context, id string) (*models.UserModel, error)
	FindUserByEmail(ctx context.Context, email string) (*models.UserModel, error)
	Create(ctx context.Context, u *models.UserModel) error
	Save(ctx context.Context, u *models.UserModel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, role models.UserRole, q pagination.Query) ([]models.UserModel, int64, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

// NormalizeEmail lowercases and trims an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
// Accounts without a hash never match.
func CheckPassword(u *models.UserModel, password string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Public is the account as returned to clients.
type Public struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Role      models.UserRole `json:"role"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ToPublic strips credentials from u.
func ToPublic(u *models.UserModel) Public {
	return Public{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.Name,
		Image:     u.Image,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
