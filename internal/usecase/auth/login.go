package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// TokenIssuer turns a verified login into a bearer credential for the HTTP
// surface. The interactive CLI keeps the user in memory and ignores the token.
type TokenIssuer interface {
	Issue(user *model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

type LoginUsecase struct {
	userRepo repo.UserRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
}

func NewLoginUsecase(userRepo repo.UserRepository, verifier PasswordVerifier, issuer TokenIssuer) *LoginUsecase {
	return &LoginUsecase{userRepo: userRepo, verifier: verifier, issuer: issuer}
}

type LoginOutput struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login accepts a username or an email. A missing user and a wrong password
// are indistinguishable to the caller.
func (u *LoginUsecase) Login(ctx context.Context, usernameOrEmail string, password string) (LoginOutput, error) {
	login := strings.TrimSpace(usernameOrEmail)
	if login == "" || password == "" {
		return LoginOutput{}, ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByLogin(ctx, login)
	if errors.Is(err, repo.ErrUserNotFound) {
		return LoginOutput{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginOutput{}, err
	}

	if !u.verifier.Verify(user.PasswordHash, password) {
		log.Warn().Int64("user_id", user.ID).Msg("login rejected: bad password")
		return LoginOutput{}, ErrInvalidCredentials
	}

	out := LoginOutput{User: user}

	if u.issuer != nil {
		token, expiresAt, err := u.issuer.Issue(user, time.Now())
		if err != nil {
			return LoginOutput{}, err
		}
		out.Token = token
		out.ExpiresAt = expiresAt
	}

	log.Info().Int64("user_id", user.ID).Msg("login ok")
	return out, nil
}
