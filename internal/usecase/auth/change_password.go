package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type ChangePasswordUsecase struct {
	userRepo repo.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
}

func NewChangePasswordUsecase(userRepo repo.UserRepository, hasher PasswordHasher, verifier PasswordVerifier) *ChangePasswordUsecase {
	return &ChangePasswordUsecase{userRepo: userRepo, hasher: hasher, verifier: verifier}
}

// ChangePassword verifies the current password against the stored hash before
// accepting the new one. The hash is re-read from the store so a stale session
// cannot rotate a credential it no longer holds.
func (u *ChangePasswordUsecase) ChangePassword(ctx context.Context, user model.User, oldPassword string, newPassword string) error {
	if user.ID <= 0 {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return ErrInvalidInput
	}

	stored, err := u.userRepo.FindByID(ctx, user.ID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if !u.verifier.Verify(stored.PasswordHash, oldPassword) {
		log.Warn().Int64("user_id", user.ID).Msg("password change rejected: bad current password")
		return ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	log.Info().Int64("user_id", user.ID).Msg("password changed")
	return nil
}
