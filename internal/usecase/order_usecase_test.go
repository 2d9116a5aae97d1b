package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"
)

func newOrderFixture() (*memStore, *usecase.OrderUsecase) {
	store := newMemStore()
	uc := usecase.NewOrderUsecase(memTx{store}, lockedOrders{store}, memOrderItems{store}, memBusinesses{store})
	return store, uc
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	customer := model.User{ID: 1, Username: "alice", Role: model.RoleCustomer}

	t.Run("creates a pending order from the cart", func(t *testing.T) {
		store, uc := newOrderFixture()
		a := store.addProduct(10, "Coffee Beans", 1500, 5, true)
		b := store.addProduct(10, "Filter Paper", 300, 20, true)
		store.addCartLine(customer.ID, a.ID, 2)
		store.addCartLine(customer.ID, b.ID, 4)

		out, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)

		assert.NotEmpty(t, out.Number)
		assert.Equal(t, model.OrderStatusPending.String(), out.Status)
		assert.Equal(t, int64(2*1500+4*300), out.TotalAmount)
		require.Len(t, out.Lines, 2)
		assert.Equal(t, "Coffee Beans", out.Lines[0].Name)
		assert.Equal(t, int64(1500), out.Lines[0].UnitPrice)

		assert.Equal(t, int64(3), store.stock(a.ID))
		assert.Equal(t, int64(16), store.stock(b.ID))
		assert.Empty(t, store.cart)
	})

	t.Run("empty cart", func(t *testing.T) {
		_, uc := newOrderFixture()

		_, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		assert.ErrorIs(t, err, usecase.ErrEmptyCart)
	})

	t.Run("blank shipping address", func(t *testing.T) {
		store, uc := newOrderFixture()
		p := store.addProduct(10, "Coffee Beans", 1500, 5, true)
		store.addCartLine(customer.ID, p.ID, 1)

		_, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "  "})
		assert.ErrorIs(t, err, usecase.ErrInvalidAttributes)
	})

	t.Run("insufficient stock on one line rolls everything back", func(t *testing.T) {
		store, uc := newOrderFixture()
		a := store.addProduct(10, "Coffee Beans", 1500, 5, true)
		b := store.addProduct(10, "Filter Paper", 300, 1, true)
		c := store.addProduct(10, "Mug", 900, 8, true)
		store.addCartLine(customer.ID, a.ID, 2)
		store.addCartLine(customer.ID, b.ID, 3)
		store.addCartLine(customer.ID, c.ID, 1)

		_, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.Error(t, err)

		var insufficient *usecase.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, b.ID, insufficient.ProductID)
		assert.ErrorIs(t, err, usecase.ErrOutOfStock)

		// Earlier lines were decremented inside the transaction; the
		// rollback must undo them.
		assert.Equal(t, int64(5), store.stock(a.ID))
		assert.Equal(t, int64(1), store.stock(b.ID))
		assert.Equal(t, int64(8), store.stock(c.ID))
		assert.Empty(t, store.orders)
		assert.Len(t, store.cart, 3)
	})

	t.Run("deactivated product aborts checkout", func(t *testing.T) {
		store, uc := newOrderFixture()
		a := store.addProduct(10, "Coffee Beans", 1500, 5, true)
		b := store.addProduct(10, "Discontinued", 300, 5, false)
		store.addCartLine(customer.ID, a.ID, 1)
		store.addCartLine(customer.ID, b.ID, 1)

		_, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		assert.ErrorIs(t, err, usecase.ErrNotAvailable)
		assert.Equal(t, int64(5), store.stock(a.ID))
		assert.Empty(t, store.orders)
	})

	t.Run("snapshot total survives later price change", func(t *testing.T) {
		store, uc := newOrderFixture()
		p := store.addProduct(10, "Coffee Beans", 1500, 5, true)
		store.addCartLine(customer.ID, p.ID, 2)

		out, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)

		p = store.products[p.ID]
		p.Price = 9900
		p.Name = "Premium Coffee Beans"
		store.products[p.ID] = p

		got, err := uc.GetMyOrder(ctx, customer, out.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), got.TotalAmount)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, "Coffee Beans", got.Lines[0].Name)
		assert.Equal(t, int64(1500), got.Lines[0].UnitPrice)
	})

	t.Run("two customers race for the last unit", func(t *testing.T) {
		store, uc := newOrderFixture()
		p := store.addProduct(10, "Coffee Beans", 1500, 1, true)
		first := model.User{ID: 1, Role: model.RoleCustomer}
		second := model.User{ID: 2, Role: model.RoleCustomer}
		store.addCartLine(first.ID, p.ID, 1)
		store.addCartLine(second.ID, p.ID, 1)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, u := range []model.User{first, second} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = uc.PlaceOrder(ctx, u, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
			}()
		}
		wg.Wait()

		var won, lost int
		for _, err := range errs {
			if err == nil {
				won++
			} else {
				assert.ErrorIs(t, err, usecase.ErrOutOfStock)
				lost++
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, lost)
		assert.Equal(t, int64(0), store.stock(p.ID))
		assert.Len(t, store.orders, 1)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	customer := model.User{ID: 1, Role: model.RoleCustomer}
	merchant := model.User{ID: 2, Role: model.RoleMerchant}

	// Seeds a pending order for the customer holding one product of the
	// merchant's business.
	seed := func(t *testing.T) (*memStore, *usecase.OrderUsecase, int64) {
		t.Helper()
		store, uc := newOrderFixture()
		business := store.addBusiness(merchant.ID, "Roastery")
		p := store.addProduct(business.ID, "Coffee Beans", 1500, 5, true)
		store.addCartLine(customer.ID, p.ID, 1)

		out, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)
		return store, uc, out.ID
	}

	t.Run("pending to paid", func(t *testing.T) {
		_, uc, orderID := seed(t)

		out, err := uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, "PAID", out.Status)
	})

	t.Run("full lifecycle to delivered", func(t *testing.T) {
		_, uc, orderID := seed(t)

		for _, next := range []model.OrderStatus{
			model.OrderStatusPaid,
			model.OrderStatusShipped,
			model.OrderStatusDelivered,
		} {
			_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, next)
			require.NoError(t, err, "transition to %s", next)
		}
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		_, uc, orderID := seed(t)

		_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusShipped)
		assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
	})

	t.Run("terminal states reject everything", func(t *testing.T) {
		_, uc, orderID := seed(t)

		for _, next := range []model.OrderStatus{
			model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusDelivered,
		} {
			_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, next)
			require.NoError(t, err)
		}

		for _, next := range []model.OrderStatus{
			model.OrderStatusPending, model.OrderStatusPaid,
			model.OrderStatusShipped, model.OrderStatusCancelled,
		} {
			_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, next)
			assert.ErrorIs(t, err, usecase.ErrInvalidTransition, "from DELIVERED to %s", next)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		_, uc, orderID := seed(t)

		_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatus("REFUNDED"))
		assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
	})

	t.Run("merchant of an unrelated business", func(t *testing.T) {
		store, uc, orderID := seed(t)
		other := model.User{ID: 9, Role: model.RoleMerchant}
		store.addBusiness(other.ID, "Bakery")

		_, err := uc.UpdateOrderStatus(ctx, other, orderID, model.OrderStatusPaid)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})

	t.Run("customers cannot drive the lifecycle", func(t *testing.T) {
		_, uc, orderID := seed(t)

		_, err := uc.UpdateOrderStatus(ctx, customer, orderID, model.OrderStatusPaid)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	customer := model.User{ID: 1, Role: model.RoleCustomer}
	merchant := model.User{ID: 2, Role: model.RoleMerchant}

	seed := func(t *testing.T) (*memStore, *usecase.OrderUsecase, int64, int64) {
		t.Helper()
		store, uc := newOrderFixture()
		business := store.addBusiness(merchant.ID, "Roastery")
		p := store.addProduct(business.ID, "Coffee Beans", 1500, 5, true)
		store.addCartLine(customer.ID, p.ID, 2)

		out, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)
		return store, uc, out.ID, p.ID
	}

	t.Run("pending order, stock stays decremented", func(t *testing.T) {
		store, uc, orderID, productID := seed(t)

		out, err := uc.CancelOrder(ctx, customer, orderID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", out.Status)

		// No automatic restock; putting units back is a merchant action.
		assert.Equal(t, int64(3), store.stock(productID))
	})

	t.Run("paid order can still be cancelled", func(t *testing.T) {
		_, uc, orderID, _ := seed(t)

		_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusPaid)
		require.NoError(t, err)

		_, err = uc.CancelOrder(ctx, customer, orderID)
		assert.NoError(t, err)
	})

	t.Run("shipped order cannot", func(t *testing.T) {
		_, uc, orderID, _ := seed(t)

		_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusPaid)
		require.NoError(t, err)
		_, err = uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusShipped)
		require.NoError(t, err)

		_, err = uc.CancelOrder(ctx, customer, orderID)
		assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
	})

	t.Run("someone else's order", func(t *testing.T) {
		_, uc, orderID, _ := seed(t)

		_, err := uc.CancelOrder(ctx, model.User{ID: 42, Role: model.RoleCustomer}, orderID)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})

	// Ship and cancel are both legal from PAID, but only one may land: the
	// loser's write is conditional on the status it checked and must fail
	// instead of overwriting the winner.
	t.Run("ship and cancel race from paid", func(t *testing.T) {
		store, uc, orderID, _ := seed(t)

		_, err := uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusPaid)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var shipErr, cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, shipErr = uc.UpdateOrderStatus(ctx, merchant, orderID, model.OrderStatusShipped)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = uc.CancelOrder(ctx, customer, orderID)
		}()
		wg.Wait()

		final := store.orders[orderID].Status
		switch {
		case shipErr == nil && cancelErr != nil:
			assert.ErrorIs(t, cancelErr, usecase.ErrInvalidTransition)
			assert.Equal(t, model.OrderStatusShipped, final)
		case cancelErr == nil && shipErr != nil:
			assert.ErrorIs(t, shipErr, usecase.ErrInvalidTransition)
			assert.Equal(t, model.OrderStatusCancelled, final)
		default:
			t.Fatalf("exactly one transition must win: shipErr=%v cancelErr=%v final=%s", shipErr, cancelErr, final)
		}
	})
}

func TestOrderQueries(t *testing.T) {
	ctx := context.Background()
	customer := model.User{ID: 1, Role: model.RoleCustomer}
	merchant := model.User{ID: 2, Role: model.RoleMerchant}

	t.Run("other customers' orders read as not found", func(t *testing.T) {
		store, uc := newOrderFixture()
		p := store.addProduct(10, "Coffee Beans", 1500, 5, true)
		store.addCartLine(customer.ID, p.ID, 1)
		out, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)

		_, err = uc.GetMyOrder(ctx, model.User{ID: 42, Role: model.RoleCustomer}, out.ID)
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("my orders lists only mine", func(t *testing.T) {
		store, uc := newOrderFixture()
		p := store.addProduct(10, "Coffee Beans", 1500, 50, true)
		other := model.User{ID: 42, Role: model.RoleCustomer}
		for _, u := range []model.User{customer, customer, other} {
			store.addCartLine(u.ID, p.ID, 1)
			_, err := uc.PlaceOrder(ctx, u, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
			require.NoError(t, err)
		}

		outs, total, err := uc.ListMyOrders(ctx, customer, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, outs, 2)
	})

	t.Run("business orders include only orders touching its products", func(t *testing.T) {
		store, uc := newOrderFixture()
		mine := store.addBusiness(merchant.ID, "Roastery")
		otherMerchant := model.User{ID: 9, Role: model.RoleMerchant}
		theirs := store.addBusiness(otherMerchant.ID, "Bakery")

		beans := store.addProduct(mine.ID, "Coffee Beans", 1500, 50, true)
		bread := store.addProduct(theirs.ID, "Sourdough", 600, 50, true)

		store.addCartLine(customer.ID, beans.ID, 1)
		_, err := uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)

		store.addCartLine(customer.ID, bread.ID, 1)
		_, err = uc.PlaceOrder(ctx, customer, usecase.PlaceOrderInput{ShippingAddress: "1 Main St"})
		require.NoError(t, err)

		outs, total, err := uc.ListBusinessOrders(ctx, merchant, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, outs, 1)
		require.Len(t, outs[0].Lines, 1)
		assert.Equal(t, "Coffee Beans", outs[0].Lines[0].Name)
	})

	t.Run("merchant without a business", func(t *testing.T) {
		_, uc := newOrderFixture()

		_, _, err := uc.ListBusinessOrders(ctx, model.User{ID: 7, Role: model.RoleMerchant}, 1, 10)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})
}
