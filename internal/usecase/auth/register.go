package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid registration input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type RegisterUsecase struct {
	userRepo repo.UserRepository
	hasher   PasswordHasher
}

func NewRegisterUsecase(userRepo repo.UserRepository, hasher PasswordHasher) *RegisterUsecase {
	return &RegisterUsecase{userRepo: userRepo, hasher: hasher}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// Register creates the user with a bcrypt credential hash. Usernames and
// emails are unique across roles.
func (u *RegisterUsecase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(strings.ToLower(in.Email))

	if username == "" || email == "" || len(in.Password) < 8 {
		return nil, ErrInvalidInput
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleMerchant {
		return nil, ErrInvalidInput
	}

	taken, err := u.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("user registered")

	return user, nil
}
