package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Catalog listing filter. Q matches name/description case-insensitively.
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	Category   string
	BusinessID *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

type ProductRepository interface {
	// ListActive returns only products whose availability flag is set.
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	// ListByBusinessID returns every product of a business, active or not.
	ListByBusinessID(ctx context.Context, businessID int64) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SetActive(ctx context.Context, id int64, active bool) error
}
