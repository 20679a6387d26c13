package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/user"
)

const minPasswordLen = 8

var (
	userEmail    string
	userName     string
	userPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active admin account unless the email is already registered",
	RunE: withUsers(func(ctx context.Context, out io.Writer, users user.Store) error {
		u, created, err := createAdmin(ctx, users, userEmail, userName, userPassword)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintln(out, "user already exists, nothing changed")
		} else {
			fmt.Fprintln(out, "admin created")
		}
		printUser(out, u)
		return nil
	}),
}

var makeAdminCmd = &cobra.Command{
	Use:   "make-admin",
	Short: "Promote an existing account to admin",
	RunE: withUsers(func(ctx context.Context, out io.Writer, users user.Store) error {
		u, err := setRole(ctx, users, userEmail, models.RoleAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now an admin\n", u.Email)
		printUser(out, u)
		return nil
	}),
}

var checkUserCmd = &cobra.Command{
	Use:   "check-user",
	Short: "Show an account and optionally test a password against it",
	RunE: withUsers(func(ctx context.Context, out io.Writer, users user.Store) error {
		u, err := users.FindUserByEmail(ctx, user.NormalizeEmail(userEmail))
		if err != nil {
			return err
		}
		printUser(out, u)
		fmt.Fprintf(out, "  has password: %t\n", u.PasswordHash != "")
		if userPassword != "" {
			fmt.Fprintf(out, "  password matches: %t\n", user.CheckPassword(u, userPassword))
		}
		return nil
	}),
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password and reactivate the account",
	RunE: withUsers(func(ctx context.Context, out io.Writer, users user.Store) error {
		u, err := resetPassword(ctx, users, userEmail, userPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "password updated for %s\n", u.Email)
		return nil
	}),
}

func init() {
	for _, cmd := range []*cobra.Command{createAdminCmd, makeAdminCmd, checkUserCmd, resetPasswordCmd} {
		cmd.Flags().StringVarP(&userEmail, "email", "e", "", "Account email (required)")
		_ = cmd.MarkFlagRequired("email")
		rootCmd.AddCommand(cmd)
	}
	createAdminCmd.Flags().StringVarP(&userName, "name", "n", "Admin User", "Display name")
	createAdminCmd.Flags().StringVarP(&userPassword, "password", "p", "", "Password (required)")
	_ = createAdminCmd.MarkFlagRequired("password")
	checkUserCmd.Flags().StringVarP(&userPassword, "password", "p", "", "Password to test")
	resetPasswordCmd.Flags().StringVarP(&userPassword, "password", "p", "", "New password (required)")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}

func withUsers(fn func(ctx context.Context, out io.Writer, users user.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := open()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd.Context(), cmd.OutOrStdout(), user.NewGormStore(s.db))
	}
}

// createAdmin reports created=false, leaving the row alone, when email is taken.
func createAdmin(ctx context.Context, users user.Store, email, name, password string) (*models.UserModel, bool, error) {
	email = user.NormalizeEmail(email)
	existing, err := users.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, false, err
	}
	if len(password) < minPasswordLen {
		return nil, false, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	u := &models.UserModel{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func setRole(ctx context.Context, users user.Store, email string, role models.UserRole) (*models.UserModel, error) {
	u, err := users.FindUserByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func resetPassword(ctx context.Context, users user.Store, email, password string) (*models.UserModel, error) {
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	u, err := users.FindUserByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	u.Status = models.UserActive
	if err := users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func printUser(out io.Writer, u *models.UserModel) {
	fmt.Fprintf(out, "  id:     %s\n  email:  %s\n  name:   %s\n  role:   %s\n  status: %s\n",
		u.ID, u.Email, u.Name, u.Role, u.Status)
}
