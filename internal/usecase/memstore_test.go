package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// In-memory backing store shared by the fake repositories. WithinTx holds the
// store lock for the whole callback and restores a snapshot on error, so
// transactional tests see real rollback behavior.
type memStore struct {
	mu sync.Mutex

	products    map[int64]model.Product
	nextProduct int64

	cart []model.CartItem

	orders    map[int64]model.Order
	nextOrder int64

	orderItems []model.OrderItem

	businesses   map[int64]model.Business
	nextBusiness int64

	adjustments []model.InventoryAdjustment
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[int64]model.Product{},
		orders:     map[int64]model.Order{},
		businesses: map[int64]model.Business{},
	}
}

func (s *memStore) addBusiness(ownerID int64, name string) model.Business {
	s.nextBusiness++
	b := model.Business{ID: s.nextBusiness, OwnerID: ownerID, Name: name}
	s.businesses[b.ID] = b
	return b
}

func (s *memStore) addProduct(businessID int64, name string, price int64, stock int64, active bool) model.Product {
	s.nextProduct++
	p := model.Product{
		ID:         s.nextProduct,
		BusinessID: businessID,
		Name:       name,
		Price:      price,
		Stock:      stock,
		IsActive:   active,
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCartLine(userID int64, productID int64, qty int64) {
	s.cart = append(s.cart, model.CartItem{UserID: userID, ProductID: productID, Quantity: qty})
}

func (s *memStore) stock(productID int64) int64 {
	return s.products[productID].Stock
}

type memSnapshot struct {
	products     map[int64]model.Product
	nextProduct  int64
	cart         []model.CartItem
	orders       map[int64]model.Order
	nextOrder    int64
	orderItems   []model.OrderItem
	businesses   map[int64]model.Business
	nextBusiness int64
	adjustments  []model.InventoryAdjustment
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:     make(map[int64]model.Product, len(s.products)),
		nextProduct:  s.nextProduct,
		cart:         append([]model.CartItem(nil), s.cart...),
		orders:       make(map[int64]model.Order, len(s.orders)),
		nextOrder:    s.nextOrder,
		orderItems:   append([]model.OrderItem(nil), s.orderItems...),
		businesses:   make(map[int64]model.Business, len(s.businesses)),
		nextBusiness: s.nextBusiness,
		adjustments:  append([]model.InventoryAdjustment(nil), s.adjustments...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.businesses {
		snap.businesses[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.nextProduct = snap.nextProduct
	s.cart = snap.cart
	s.orders = snap.orders
	s.nextOrder = snap.nextOrder
	s.orderItems = snap.orderItems
	s.businesses = snap.businesses
	s.nextBusiness = snap.nextBusiness
	s.adjustments = snap.adjustments
}

type memProducts struct{ s *memStore }

func (r memProducts) ListActive(_ context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var matched []model.Product
	needle := strings.ToLower(q.Q)
	for _, p := range r.s.products {
		if !p.IsActive {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.BusinessID != nil && p.BusinessID != *q.BusinessID {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	switch q.Sort {
	case "price_asc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "price_desc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case "new":
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	default:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Category != matched[j].Category {
				return matched[i].Category < matched[j].Category
			}
			return matched[i].Name < matched[j].Name
		})
	}

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r memProducts) ListByBusinessID(_ context.Context, businessID int64) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) FindByID(_ context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) Create(_ context.Context, p model.Product) (model.Product, error) {
	r.s.nextProduct++
	p.ID = r.s.nextProduct
	r.s.products[p.ID] = p
	return p, nil
}

func (r memProducts) Update(_ context.Context, p model.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.products[p.ID] = p
	return nil
}

func (r memProducts) SetActive(_ context.Context, id int64, active bool) error {
	p, ok := r.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.IsActive = active
	r.s.products[id] = p
	return nil
}

type memCart struct{ s *memStore }

func (r memCart) ListByUserID(_ context.Context, userID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, it := range r.s.cart {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r memCart) FindByUserAndProduct(_ context.Context, userID int64, productID int64) (model.CartItem, error) {
	for _, it := range r.s.cart {
		if it.UserID == userID && it.ProductID == productID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r memCart) Upsert(_ context.Context, userID int64, productID int64, addQty int64) error {
	for i, it := range r.s.cart {
		if it.UserID == userID && it.ProductID == productID {
			r.s.cart[i].Quantity += addQty
			return nil
		}
	}
	r.s.cart = append(r.s.cart, model.CartItem{UserID: userID, ProductID: productID, Quantity: addQty})
	return nil
}

func (r memCart) UpdateQuantity(_ context.Context, userID int64, productID int64, qty int64) error {
	for i, it := range r.s.cart {
		if it.UserID == userID && it.ProductID == productID {
			r.s.cart[i].Quantity = qty
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r memCart) Delete(_ context.Context, userID int64, productID int64) error {
	for i, it := range r.s.cart {
		if it.UserID == userID && it.ProductID == productID {
			r.s.cart = append(r.s.cart[:i], r.s.cart[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r memCart) ClearByUserID(_ context.Context, userID int64) error {
	kept := r.s.cart[:0:0]
	for _, it := range r.s.cart {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	r.s.cart = kept
	return nil
}

type memOrders struct{ s *memStore }

func (r memOrders) FindByID(_ context.Context, orderID int64) (model.Order, error) {
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) ListByUserID(_ context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var matched []model.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			matched = append(matched, o)
		}
	}
	return pageOrders(matched, page, limit)
}

func (r memOrders) ListByBusinessID(_ context.Context, businessID int64, page int, limit int) ([]model.Order, int64, error) {
	var matched []model.Order
	for _, o := range r.s.orders {
		if r.orderTouchesBusiness(o.ID, businessID) {
			matched = append(matched, o)
		}
	}
	return pageOrders(matched, page, limit)
}

func (r memOrders) ContainsProductOfBusiness(_ context.Context, orderID int64, businessID int64) (bool, error) {
	return r.orderTouchesBusiness(orderID, businessID), nil
}

func (r memOrders) orderTouchesBusiness(orderID int64, businessID int64) bool {
	for _, it := range r.s.orderItems {
		if it.OrderID != orderID {
			continue
		}
		if p, ok := r.s.products[it.ProductID]; ok && p.BusinessID == businessID {
			return true
		}
	}
	return false
}

func (r memOrders) Create(_ context.Context, order model.Order) (int64, error) {
	r.s.nextOrder++
	order.ID = r.s.nextOrder
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r memOrders) UpdateStatusIfCurrent(_ context.Context, orderID int64, current model.OrderStatus, next model.OrderStatus) (bool, error) {
	o, ok := r.s.orders[orderID]
	if !ok || o.Status != current {
		return false, nil
	}
	o.Status = next
	r.s.orders[orderID] = o
	return true, nil
}

// lockedOrders serializes each order repository call the way single SQL
// statements serialize against the store, so races between non-transactional
// callers behave like they would against the database.
type lockedOrders struct{ s *memStore }

func (r lockedOrders) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOrders{r.s}.FindByID(ctx, orderID)
}

func (r lockedOrders) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOrders{r.s}.ListByUserID(ctx, userID, page, limit)
}

func (r lockedOrders) ListByBusinessID(ctx context.Context, businessID int64, page int, limit int) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOrders{r.s}.ListByBusinessID(ctx, businessID, page, limit)
}

func (r lockedOrders) ContainsProductOfBusiness(ctx context.Context, orderID int64, businessID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOrders{r.s}.ContainsProductOfBusiness(ctx, orderID, businessID)
}

func (r lockedOrders) Create(ctx context.Context, order model.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOrders{r.s}.Create(ctx, order)
}

func (r lockedOrders) UpdateStatusIfCurrent(ctx context.Context, orderID int64, current model.OrderStatus, next model.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOrders{r.s}.UpdateStatusIfCurrent(ctx, orderID, current, next)
}

func pageOrders(matched []model.Order, page int, limit int) ([]model.Order, int64, error) {
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type memOrderItems struct{ s *memStore }

func (r memOrderItems) CreateBulk(_ context.Context, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		it.OrderID = orderID
		r.s.orderItems = append(r.s.orderItems, it)
	}
	return nil
}

func (r memOrderItems) ListByOrderID(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memInventory struct{ s *memStore }

func (r memInventory) SetStock(_ context.Context, productID int64, newStock int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = newStock
	r.s.products[productID] = p
	return nil
}

func (r memInventory) DecreaseStockIfEnough(_ context.Context, productID int64, qty int64) (bool, error) {
	p, ok := r.s.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.products[productID] = p
	return true, nil
}

func (r memInventory) IncreaseStock(_ context.Context, productID int64, qty int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock += qty
	r.s.products[productID] = p
	return nil
}

func (r memInventory) CreateAdjustment(_ context.Context, adj model.InventoryAdjustment) error {
	r.s.adjustments = append(r.s.adjustments, adj)
	return nil
}

type memBusinesses struct{ s *memStore }

func (r memBusinesses) Create(_ context.Context, b model.Business) (model.Business, error) {
	r.s.nextBusiness++
	b.ID = r.s.nextBusiness
	r.s.businesses[b.ID] = b
	return b, nil
}

func (r memBusinesses) FindByID(_ context.Context, id int64) (model.Business, error) {
	b, ok := r.s.businesses[id]
	if !ok {
		return model.Business{}, repo.ErrNotFound
	}
	return b, nil
}

func (r memBusinesses) FindByOwnerID(_ context.Context, ownerID int64) (model.Business, error) {
	for _, b := range r.s.businesses {
		if b.OwnerID == ownerID {
			return b, nil
		}
	}
	return model.Business{}, repo.ErrNotFound
}

func (r memBusinesses) Update(_ context.Context, b model.Business) error {
	if _, ok := r.s.businesses[b.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.businesses[b.ID] = b
	return nil
}

type memTxRepos struct{ s *memStore }

func (r memTxRepos) Orders() repo.OrderRepository         { return memOrders{r.s} }
func (r memTxRepos) OrderItems() repo.OrderItemRepository { return memOrderItems{r.s} }
func (r memTxRepos) CartItems() repo.CartItemRepository   { return memCart{r.s} }
func (r memTxRepos) Inventory() repo.InventoryRepository  { return memInventory{r.s} }
func (r memTxRepos) Products() repo.ProductRepository     { return memProducts{r.s} }

type memTx struct{ s *memStore }

func (t memTx) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snap := t.s.snapshot()
	if err := fn(memTxRepos{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
