package cli

import (
	"context"
	"fmt"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"
)

func (s *Shell) customerMenu() {
	for {
		choice := s.choose(fmt.Sprintf("Customer Menu (%s)", s.user.Username), []string{
			"Browse products",
			"Search products",
			"View cart",
			"Add to cart",
			"Update cart quantity",
			"Remove from cart",
			"Checkout",
			"My orders",
			"Cancel an order",
			"Change password",
		})

		switch choice {
		case -1:
			return
		case 0:
			s.browseProducts("")
		case 1:
			s.browseProducts(s.prompt("Search: "))
		case 2:
			s.viewCart()
		case 3:
			s.addToCart()
		case 4:
			s.updateCartQuantity()
		case 5:
			s.removeFromCart()
		case 6:
			s.checkout()
		case 7:
			s.myOrders()
		case 8:
			s.cancelOrder()
		case 9:
			s.changePassword()
		}
	}
}

// browseProducts walks the whole filtered catalog through the lazy sequence.
func (s *Shell) browseProducts(q string) {
	var items []model.Product

	for p, err := range s.app.Products.All(context.Background(), usecase.ListProductsInput{Q: q}) {
		if err != nil {
			s.printErr(err)
			return
		}
		items = append(items, p)
	}

	renderProducts(s.out, items)
}

func (s *Shell) viewCart() {
	cart, err := s.app.Cart.GetCart(context.Background(), *s.user)
	if err != nil {
		s.printErr(err)
		return
	}
	renderCart(s.out, cart)
}

func (s *Shell) addToCart() {
	productID, ok := s.readInt64("Product ID: ")
	if !ok {
		return
	}
	qty, ok := s.readInt64("Quantity: ")
	if !ok {
		return
	}

	cart, err := s.app.Cart.AddToCart(context.Background(), *s.user, usecase.AddToCartInput{
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintln(s.out, "Added.")
	renderCart(s.out, cart)
}

func (s *Shell) updateCartQuantity() {
	productID, ok := s.readInt64("Product ID: ")
	if !ok {
		return
	}
	qty, ok := s.readInt64("New quantity: ")
	if !ok {
		return
	}

	cart, err := s.app.Cart.UpdateQuantity(context.Background(), *s.user, productID, qty)
	if err != nil {
		s.printErr(err)
		return
	}
	renderCart(s.out, cart)
}

func (s *Shell) removeFromCart() {
	productID, ok := s.readInt64("Product ID: ")
	if !ok {
		return
	}

	cart, err := s.app.Cart.RemoveFromCart(context.Background(), *s.user, productID)
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintln(s.out, "Removed.")
	renderCart(s.out, cart)
}

func (s *Shell) checkout() {
	s.viewCart()

	address := s.promptRequired("Shipping address: ")
	if !s.confirm("Place order? [y/N]: ") {
		fmt.Fprintln(s.out, "Cancelled.")
		return
	}

	out, err := s.app.Orders.PlaceOrder(context.Background(), *s.user, usecase.PlaceOrderInput{
		ShippingAddress: address,
	})
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintln(s.out, "Order placed!")
	renderReceipt(s.out, out, s.app.Cfg.TaxRate)
}

func (s *Shell) myOrders() {
	orders, _, err := s.app.Orders.ListMyOrders(context.Background(), *s.user, 1, 50)
	if err != nil {
		s.printErr(err)
		return
	}
	renderOrders(s.out, orders)

	if len(orders) == 0 {
		return
	}
	if id, ok := s.readInt64("Order ID for details (0 to skip): "); ok && id > 0 {
		out, err := s.app.Orders.GetMyOrder(context.Background(), *s.user, id)
		if err != nil {
			s.printErr(err)
			return
		}
		renderReceipt(s.out, out, s.app.Cfg.TaxRate)
	}
}

func (s *Shell) cancelOrder() {
	orderID, ok := s.readInt64("Order ID to cancel: ")
	if !ok {
		return
	}

	out, err := s.app.Orders.CancelOrder(context.Background(), *s.user, orderID)
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintf(s.out, "Order %s cancelled.\n", out.Number)
}
