package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type OrderUsecase struct {
	tx           repo.TransactionManager
	orderRepo    repo.OrderRepository
	orderItems   repo.OrderItemRepository
	businessRepo repo.BusinessRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	businessRepo repo.BusinessRepository,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		orderRepo:    orderRepo,
		orderItems:   orderItems,
		businessRepo: businessRepo,
	}
}

type OrderLineOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	Number          string            `json:"number"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	ShippingAddress string            `json:"shipping_address"`
	TotalAmount     int64             `json:"total_amount"`
	CreatedAt       string            `json:"created_at"`
	Lines           []OrderLineOutput `json:"items"`
}

type PlaceOrderInput struct {
	ShippingAddress string
}

// PlaceOrder converts the customer's cart into an order inside one
// transaction: conditional stock decrement per line, price and name snapshot,
// order plus lines created, cart cleared. Any line failing the stock check
// aborts the whole thing; the rollback leaves stock for earlier lines
// untouched.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, customer model.User, in PlaceOrderInput) (OrderOutput, error) {
	if customer.ID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return OrderOutput{}, ErrInvalidAttributes
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, customer.ID)
		if err != nil {
			return storeErr(err)
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		orderLines := make([]model.OrderItem, 0, len(cartItems))
		var total int64

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotAvailable
			}
			if err != nil {
				return storeErr(err)
			}
			if !p.IsActive {
				return ErrNotAvailable
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return storeErr(err)
			}
			if !ok {
				return &InsufficientStockError{ProductID: ci.ProductID}
			}

			orderLines = append(orderLines, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
			})
			total += p.Price * ci.Quantity
		}

		now := time.Now()
		order := model.Order{
			Number:          uuid.NewString(),
			UserID:          customer.ID,
			Status:          model.OrderStatusPending,
			ShippingAddress: address,
			TotalAmount:     total,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return storeErr(err)
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderLines); err != nil {
			return storeErr(err)
		}

		if err := r.CartItems().ClearByUserID(ctx, customer.ID); err != nil {
			return storeErr(err)
		}

		order.ID = orderID
		out = toOrderOutput(order, orderLines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	log.Info().
		Int64("user_id", customer.ID).
		Int64("order_id", out.ID).
		Str("order_number", out.Number).
		Int64("total", out.TotalAmount).
		Msg("order placed")

	return out, nil
}

// UpdateOrderStatus moves the order along the lifecycle. Only merchants whose
// business owns at least one product on the order may do so.
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, merchant model.User, orderID int64, newStatus model.OrderStatus) (OrderOutput, error) {
	if merchant.ID <= 0 || !merchant.IsMerchant() {
		return OrderOutput{}, ErrUnauthorized
	}
	if !newStatus.Valid() {
		return OrderOutput{}, ErrInvalidTransition
	}

	business, err := u.businessRepo.FindByOwnerID(ctx, merchant.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrUnauthorized
	}
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrNotFound
	}
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}

	owns, err := u.orderRepo.ContainsProductOfBusiness(ctx, orderID, business.ID)
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}
	if !owns {
		return OrderOutput{}, ErrUnauthorized
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return OrderOutput{}, ErrInvalidTransition
	}

	// Conditional write: a concurrent transition that landed first leaves
	// the order outside the status we checked, and this one must not win.
	moved, err := u.orderRepo.UpdateStatusIfCurrent(ctx, orderID, order.Status, newStatus)
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}
	if !moved {
		return OrderOutput{}, ErrInvalidTransition
	}

	log.Info().
		Int64("order_id", orderID).
		Str("old_status", order.Status.String()).
		Str("new_status", newStatus.String()).
		Int64("merchant_id", merchant.ID).
		Msg("order status updated")

	order.Status = newStatus
	return u.withLines(ctx, order)
}

// CancelOrder sets the customer's own order to CANCELLED. Allowed from
// PENDING and PAID only. Stock is not restored here; restocking is an
// explicit merchant action.
func (u *OrderUsecase) CancelOrder(ctx context.Context, customer model.User, orderID int64) (OrderOutput, error) {
	if customer.ID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrNotFound
	}
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}
	if order.UserID != customer.ID {
		return OrderOutput{}, ErrUnauthorized
	}

	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return OrderOutput{}, ErrInvalidTransition
	}

	moved, err := u.orderRepo.UpdateStatusIfCurrent(ctx, orderID, order.Status, model.OrderStatusCancelled)
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}
	if !moved {
		return OrderOutput{}, ErrInvalidTransition
	}

	log.Info().
		Int64("order_id", orderID).
		Int64("user_id", customer.ID).
		Msg("order cancelled")

	order.Status = model.OrderStatusCancelled
	return u.withLines(ctx, order)
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customer model.User, page int, limit int) ([]OrderOutput, int64, error) {
	if customer.ID <= 0 {
		return nil, 0, ErrUnauthorized
	}
	page, limit = normalizePage(page, limit)

	orders, total, err := u.orderRepo.ListByUserID(ctx, customer.ID, page, limit)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	outs, err := u.withLinesAll(ctx, orders)
	if err != nil {
		return nil, 0, err
	}
	return outs, total, nil
}

// GetMyOrder hides other customers' orders behind not-found.
func (u *OrderUsecase) GetMyOrder(ctx context.Context, customer model.User, orderID int64) (OrderOutput, error) {
	if customer.ID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrNotFound
	}
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}
	if order.UserID != customer.ID {
		return OrderOutput{}, ErrNotFound
	}

	return u.withLines(ctx, order)
}

// ListBusinessOrders lists orders touching the merchant's products.
func (u *OrderUsecase) ListBusinessOrders(ctx context.Context, merchant model.User, page int, limit int) ([]OrderOutput, int64, error) {
	if merchant.ID <= 0 || !merchant.IsMerchant() {
		return nil, 0, ErrUnauthorized
	}
	page, limit = normalizePage(page, limit)

	business, err := u.businessRepo.FindByOwnerID(ctx, merchant.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, 0, ErrUnauthorized
	}
	if err != nil {
		return nil, 0, storeErr(err)
	}

	orders, total, err := u.orderRepo.ListByBusinessID(ctx, business.ID, page, limit)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	outs, err := u.withLinesAll(ctx, orders)
	if err != nil {
		return nil, 0, err
	}
	return outs, total, nil
}

func (u *OrderUsecase) withLines(ctx context.Context, order model.Order) (OrderOutput, error) {
	items, err := u.orderItems.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderOutput{}, storeErr(err)
	}
	return toOrderOutput(order, items), nil
}

func (u *OrderUsecase) withLinesAll(ctx context.Context, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out, err := u.withLines(ctx, o)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return page, limit
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	lines := make([]OrderLineOutput, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderLineOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			Subtotal:  it.UnitPriceSnapshot * it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		Number:          o.Number,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		ShippingAddress: o.ShippingAddress,
		TotalAmount:     o.TotalAmount,
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
		Lines:           lines,
	}
}
