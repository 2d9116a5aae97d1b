package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// Cart business logic. The acting user is passed in explicitly; there is no
// ambient session.
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(cartItemRepo repo.CartItemRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type CartView struct {
	Lines []CartLine `json:"items"`
	Total int64      `json:"total"`
}

type AddToCartInput struct {
	ProductID int64
	Quantity  int64
}

// AddToCart creates or increments the customer's line for the product. The
// combined quantity is capped by the current stock; this is a soft check,
// checkout re-validates.
func (u *CartUsecase) AddToCart(ctx context.Context, customer model.User, in AddToCartInput) (CartView, error) {
	if customer.ID <= 0 {
		return CartView{}, ErrUnauthorized
	}
	if in.Quantity <= 0 {
		return CartView{}, ErrInvalidQuantity
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, ErrNotFound
	}
	if err != nil {
		return CartView{}, storeErr(err)
	}
	if !p.IsActive {
		return CartView{}, ErrNotAvailable
	}

	var existingQty int64
	item, err := u.cartItemRepo.FindByUserAndProduct(ctx, customer.ID, in.ProductID)
	if err == nil {
		existingQty = item.Quantity
	} else if !errors.Is(err, repo.ErrNotFound) {
		return CartView{}, storeErr(err)
	}

	if existingQty+in.Quantity > p.Stock {
		return CartView{}, ErrOutOfStock
	}

	if err := u.cartItemRepo.Upsert(ctx, customer.ID, in.ProductID, in.Quantity); err != nil {
		return CartView{}, storeErr(err)
	}

	log.Debug().
		Int64("user_id", customer.ID).
		Int64("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Msg("cart: item added")

	return u.GetCart(ctx, customer)
}

// UpdateQuantity overwrites the line quantity. Zero or negative is rejected;
// removal is an explicit operation.
func (u *CartUsecase) UpdateQuantity(ctx context.Context, customer model.User, productID int64, qty int64) (CartView, error) {
	if customer.ID <= 0 {
		return CartView{}, ErrUnauthorized
	}
	if qty <= 0 {
		return CartView{}, ErrInvalidQuantity
	}

	if _, err := u.cartItemRepo.FindByUserAndProduct(ctx, customer.ID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartView{}, ErrNotFound
		}
		return CartView{}, storeErr(err)
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, ErrNotFound
	}
	if err != nil {
		return CartView{}, storeErr(err)
	}
	if qty > p.Stock {
		return CartView{}, ErrInvalidQuantity
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, customer.ID, productID, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartView{}, ErrNotFound
		}
		return CartView{}, storeErr(err)
	}

	return u.GetCart(ctx, customer)
}

// RemoveFromCart deletes the line. Absent line is a no-op, not an error.
func (u *CartUsecase) RemoveFromCart(ctx context.Context, customer model.User, productID int64) (CartView, error) {
	if customer.ID <= 0 {
		return CartView{}, ErrUnauthorized
	}

	if err := u.cartItemRepo.Delete(ctx, customer.ID, productID); err != nil {
		return CartView{}, storeErr(err)
	}

	return u.GetCart(ctx, customer)
}

// GetCart builds the current view: quantity times the current product price
// per line. Side-effect free.
func (u *CartUsecase) GetCart(ctx context.Context, customer model.User) (CartView, error) {
	if customer.ID <= 0 {
		return CartView{}, ErrUnauthorized
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, customer.ID)
	if err != nil {
		return CartView{}, storeErr(err)
	}

	lines := make([]CartLine, 0, len(items))
	var total int64

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			// Stale line; the product is gone. Skip it in the view.
			continue
		}
		if err != nil {
			return CartView{}, storeErr(err)
		}

		subtotal := it.Quantity * p.Price
		lines = append(lines, CartLine{
			ProductID: it.ProductID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})
		total += subtotal
	}

	return CartView{Lines: lines, Total: total}, nil
}

// CartTotal returns just the running total.
func (u *CartUsecase) CartTotal(ctx context.Context, customer model.User) (int64, error) {
	view, err := u.GetCart(ctx, customer)
	if err != nil {
		return 0, err
	}
	return view.Total, nil
}
