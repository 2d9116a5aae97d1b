package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	// FindByLogin resolves a username or an email, whichever matches.
	FindByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}
