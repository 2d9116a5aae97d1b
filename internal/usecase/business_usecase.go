package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type BusinessUsecase struct {
	businessRepo repo.BusinessRepository
}

func NewBusinessUsecase(businessRepo repo.BusinessRepository) *BusinessUsecase {
	return &BusinessUsecase{businessRepo: businessRepo}
}

type BusinessAttrs struct {
	Name         string
	Description  string
	ContactEmail string
}

// Register creates the merchant's business profile. One per merchant.
func (u *BusinessUsecase) Register(ctx context.Context, merchant model.User, attrs BusinessAttrs) (model.Business, error) {
	if merchant.ID <= 0 || !merchant.IsMerchant() {
		return model.Business{}, ErrUnauthorized
	}
	if strings.TrimSpace(attrs.Name) == "" {
		return model.Business{}, ErrInvalidAttributes
	}

	_, err := u.businessRepo.FindByOwnerID(ctx, merchant.ID)
	if err == nil {
		return model.Business{}, ErrInvalidAttributes
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Business{}, storeErr(err)
	}

	b, err := u.businessRepo.Create(ctx, model.Business{
		OwnerID:      merchant.ID,
		Name:         strings.TrimSpace(attrs.Name),
		Description:  attrs.Description,
		ContactEmail: strings.TrimSpace(attrs.ContactEmail),
	})
	if err != nil {
		return model.Business{}, storeErr(err)
	}

	log.Info().
		Int64("business_id", b.ID).
		Int64("owner_id", merchant.ID).
		Msg("business registered")

	return b, nil
}

func (u *BusinessUsecase) Update(ctx context.Context, merchant model.User, attrs BusinessAttrs) (model.Business, error) {
	if merchant.ID <= 0 || !merchant.IsMerchant() {
		return model.Business{}, ErrUnauthorized
	}
	if strings.TrimSpace(attrs.Name) == "" {
		return model.Business{}, ErrInvalidAttributes
	}

	b, err := u.businessRepo.FindByOwnerID(ctx, merchant.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Business{}, ErrNotFound
	}
	if err != nil {
		return model.Business{}, storeErr(err)
	}

	b.Name = strings.TrimSpace(attrs.Name)
	b.Description = attrs.Description
	b.ContactEmail = strings.TrimSpace(attrs.ContactEmail)

	if err := u.businessRepo.Update(ctx, b); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Business{}, ErrNotFound
		}
		return model.Business{}, storeErr(err)
	}
	return b, nil
}

func (u *BusinessUsecase) GetMine(ctx context.Context, merchant model.User) (model.Business, error) {
	if merchant.ID <= 0 || !merchant.IsMerchant() {
		return model.Business{}, ErrUnauthorized
	}

	b, err := u.businessRepo.FindByOwnerID(ctx, merchant.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Business{}, ErrNotFound
	}
	if err != nil {
		return model.Business{}, storeErr(err)
	}
	return b, nil
}
