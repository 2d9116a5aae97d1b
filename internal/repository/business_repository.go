package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type BusinessRepository interface {
	Create(ctx context.Context, b model.Business) (model.Business, error)
	FindByID(ctx context.Context, id int64) (model.Business, error)
	FindByOwnerID(ctx context.Context, ownerID int64) (model.Business, error)
	Update(ctx context.Context, b model.Business) error
}
