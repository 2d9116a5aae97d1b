package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	// ListByBusinessID returns orders containing at least one product of the
	// business, newest first.
	ListByBusinessID(ctx context.Context, businessID int64, page int, limit int) ([]model.Order, int64, error)
	// ContainsProductOfBusiness reports whether any line of the order
	// references a product owned by the business.
	ContainsProductOfBusiness(ctx context.Context, orderID int64, businessID int64) (bool, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	// UpdateStatusIfCurrent moves the order to next only while it still
	// holds current, in one conditional statement. Reports false when the
	// row is gone or already left current. Never a separate
	// read-then-write.
	UpdateStatusIfCurrent(ctx context.Context, orderID int64, current model.OrderStatus, next model.OrderStatus) (bool, error)
}
