package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/formatter"
	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/repositories"
	"github.com/vkdrive/vkdrive/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// UsersCreate inserts an account directly into the database.
//
// Registration through the API only creates regular users, so the first
// admin has to be bootstrapped here.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	firstName := cmd.String("first-name")
	lastName := cmd.String("last-name")
	admin := cmd.Bool("admin")

	if err := models.ValidatePassword(password); err != nil {
		return err
	}

	users, cleanup, err := r.openUserRepository(cmd.String("config"))
	if err != nil {
		return err
	}
	defer cleanup()

	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}

	user := models.NewUser(email, firstName, lastName, role)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := users.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "email", email, "role", role)
	return r.writePlain("✓ Created %s account %s (#%d)\n", role, email, user.Sequence)
}

// UsersList prints all accounts in the database.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	users, cleanup, err := r.openUserRepository(cmd.String("config"))
	if err != nil {
		return err
	}
	defer cleanup()

	list, total, err := users.List(repositories.ListCriteria{
		Search: cmd.String("search"),
		Limit:  1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	r.writePlain("%s", formatter.UsersToText(list))
	return r.writePlain("\n%d accounts\n", total)
}

// openUserRepository opens the configured database and returns a repository
// plus a cleanup function closing the connection.
func (r *Runner) openUserRepository(configPath string) (*repositories.UserRepository, func(), error) {
	config := r.config
	if loaded, err := shared.LoadConfig(configPath); err == nil {
		config = loaded
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewUserRepository(db), func() { db.Close() }, nil
}
