package usecase

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	businessRepo  repo.BusinessRepository
	tx            repo.TransactionManager
}

func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	businessRepo repo.BusinessRepository,
	tx repo.TransactionManager,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		businessRepo:  businessRepo,
		tx:            tx,
	}
}

type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	Category   string
	BusinessID *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// List returns one page of available products.
func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, ErrInvalidAttributes
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, ErrInvalidAttributes
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, ErrInvalidAttributes
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, ErrInvalidAttributes
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, ErrInvalidAttributes
	}

	items, total, err := u.productRepo.ListActive(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		Category:   strings.TrimSpace(in.Category),
		BusinessID: in.BusinessID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, storeErr(err)
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// All is the lazy form of List: it pages through the catalog on demand and
// can be ranged over any number of times, each range starting from the top.
func (u *ProductUsecase) All(ctx context.Context, in ListProductsInput) iter.Seq2[model.Product, error] {
	const pageSize = 50

	return func(yield func(model.Product, error) bool) {
		page := 1
		for {
			in.Page = page
			in.Limit = pageSize

			out, err := u.List(ctx, in)
			if err != nil {
				yield(model.Product{}, err)
				return
			}
			for _, p := range out.Items {
				if !yield(p, nil) {
					return
				}
			}
			if int64(page*pageSize) >= out.Total || len(out.Items) == 0 {
				return
			}
			page++
		}
	}
}

type ProductAttrs struct {
	Name        string
	Description string
	Category    string
	Price       int64
	Stock       int64
	IsActive    bool
}

func validateProductAttrs(a ProductAttrs) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidAttributes
	}
	if a.Price < 0 || a.Stock < 0 {
		return ErrInvalidAttributes
	}
	return nil
}

// Create adds a product under the merchant's business.
func (u *ProductUsecase) Create(ctx context.Context, merchant model.User, attrs ProductAttrs) (model.Product, error) {
	business, err := u.requireBusiness(ctx, merchant)
	if err != nil {
		return model.Product{}, err
	}
	if err := validateProductAttrs(attrs); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		BusinessID:  business.ID,
		Name:        strings.TrimSpace(attrs.Name),
		Description: attrs.Description,
		Category:    strings.TrimSpace(attrs.Category),
		Price:       attrs.Price,
		Stock:       attrs.Stock,
		IsActive:    attrs.IsActive,
	})
	if err != nil {
		return model.Product{}, storeErr(err)
	}

	log.Info().
		Int64("product_id", p.ID).
		Int64("business_id", business.ID).
		Msg("product created")

	return p, nil
}

// Update rewrites name, description, category and price. The acting merchant
// must own the product through their business.
func (u *ProductUsecase) Update(ctx context.Context, merchant model.User, productID int64, attrs ProductAttrs) (model.Product, error) {
	business, err := u.requireBusiness(ctx, merchant)
	if err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, storeErr(err)
	}
	if p.BusinessID != business.ID {
		return model.Product{}, ErrUnauthorized
	}

	if err := validateProductAttrs(attrs); err != nil {
		return model.Product{}, err
	}

	p.Name = strings.TrimSpace(attrs.Name)
	p.Description = attrs.Description
	p.Category = strings.TrimSpace(attrs.Category)
	p.Price = attrs.Price

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, storeErr(err)
	}
	return p, nil
}

// SetAvailability toggles visibility without deleting anything, so old order
// lines keep a valid product reference.
func (u *ProductUsecase) SetAvailability(ctx context.Context, merchant model.User, productID int64, active bool) error {
	business, err := u.requireBusiness(ctx, merchant)
	if err != nil {
		return err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr(err)
	}
	if p.BusinessID != business.ID {
		return ErrUnauthorized
	}

	if err := u.productRepo.SetActive(ctx, productID, active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return storeErr(err)
	}
	return nil
}

// Restock sets the stock level and records an adjustment row. This is the
// explicit path for putting cancelled quantities back on the shelf.
func (u *ProductUsecase) Restock(ctx context.Context, merchant model.User, productID int64, newStock int64, reason string) error {
	business, err := u.requireBusiness(ctx, merchant)
	if err != nil {
		return err
	}
	if newStock < 0 {
		return ErrInvalidAttributes
	}

	var delta int64

	// Read, set and audit in one transaction so a checkout landing in
	// between cannot skew the recorded delta.
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storeErr(err)
		}
		if p.BusinessID != business.ID {
			return ErrUnauthorized
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			return storeErr(err)
		}

		delta = newStock - p.Stock
		adj := model.InventoryAdjustment{
			ProductID:  productID,
			MerchantID: merchant.ID,
			Delta:      delta,
			Reason:     strings.TrimSpace(reason),
		}
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int64("product_id", productID).
		Int64("delta", delta).
		Int64("merchant_id", merchant.ID).
		Msg("stock adjusted")

	return nil
}

// MyProducts lists the merchant's own products including inactive ones.
func (u *ProductUsecase) MyProducts(ctx context.Context, merchant model.User) ([]model.Product, error) {
	business, err := u.requireBusiness(ctx, merchant)
	if err != nil {
		return nil, err
	}

	items, err := u.productRepo.ListByBusinessID(ctx, business.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, storeErr(err)
	}
	return p, nil
}

func (u *ProductUsecase) requireBusiness(ctx context.Context, merchant model.User) (model.Business, error) {
	if merchant.ID <= 0 || !merchant.IsMerchant() {
		return model.Business{}, ErrUnauthorized
	}

	business, err := u.businessRepo.FindByOwnerID(ctx, merchant.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Business{}, ErrUnauthorized
	}
	if err != nil {
		return model.Business{}, storeErr(err)
	}
	return business, nil
}
