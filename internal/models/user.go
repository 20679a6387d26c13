package models

import (
	"strings"
	"time"
)

// UserRole gates what an account may do.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleAuthor UserRole = "author"
	RoleUser   UserRole = "user"
)

// ParseUserRole lower-cases raw and reports whether it names a known role.
func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleAuthor:
		return RoleAuthor, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

// UserModel is an account that can sign in to the admin panel.
type UserModel struct {
	Base
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Name          string     `json:"name"`
	Email         string     `json:"email"         gorm:"size:191;uniqueIndex;not null"`
	Image         string     `json:"image"`
	EmailVerified *time.Time `json:"emailVerified"`
	Role          UserRole   `json:"role"          gorm:"type:varchar(16);index;not null;default:user"`
	PasswordHash  string     `json:"-"`
	Status        string     `json:"status"        gorm:"type:varchar(16);not null;default:active"`
}

func (UserModel) TableName() string { return "users" }

// SyncName rebuilds Name from first and last name when either is set.
func (u *UserModel) SyncName() {
	if u.FirstName == "" && u.LastName == "" {
		return
	}
	u.Name = strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName falls back to the email when no name is known.
func (u *UserModel) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	return u.Email
}

// AuthorModel is a public author profile shown next to articles.
type AuthorModel struct {
	Base
	Name string `json:"name" gorm:"size:191;uniqueIndex;not null"`
	Bio  string `json:"bio"  gorm:"type:text"`
}

func (AuthorModel) TableName() string { return "authors" }
