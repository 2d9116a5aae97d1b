package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type InventoryRepository interface {
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// DecreaseStockIfEnough decrements in one conditional statement and
	// reports false when the remaining stock does not cover qty. Never a
	// separate read-then-write.
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error
}
