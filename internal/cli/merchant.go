package cli

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"
)

func (s *Shell) merchantMenu() {
	for {
		choice := s.choose(fmt.Sprintf("Merchant Menu (%s)", s.user.Username), []string{
			"My business",
			"Register business",
			"Update business",
			"My products",
			"Add product",
			"Update product",
			"Toggle availability",
			"Restock",
			"Orders for my products",
			"Update order status",
			"Change password",
		})

		switch choice {
		case -1:
			return
		case 0:
			s.showBusiness()
		case 1:
			s.registerBusiness()
		case 2:
			s.updateBusiness()
		case 3:
			s.myProducts()
		case 4:
			s.addProduct()
		case 5:
			s.updateProduct()
		case 6:
			s.toggleAvailability()
		case 7:
			s.restock()
		case 8:
			s.businessOrders()
		case 9:
			s.updateOrderStatus()
		case 10:
			s.changePassword()
		}
	}
}

func (s *Shell) showBusiness() {
	b, err := s.app.Businesses.GetMine(context.Background(), *s.user)
	if errors.Is(err, usecase.ErrNotFound) {
		fmt.Fprintln(s.out, "No business registered yet.")
		return
	}
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintf(s.out, "%s (#%d)\n%s\nContact: %s\n", b.Name, b.ID, b.Description, b.ContactEmail)
}

func (s *Shell) registerBusiness() {
	attrs := usecase.BusinessAttrs{
		Name:         s.promptRequired("Business name: "),
		Description:  s.prompt("Description: "),
		ContactEmail: s.prompt("Contact email: "),
	}

	b, err := s.app.Businesses.Register(context.Background(), *s.user, attrs)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Business %q registered.\n", b.Name)
}

func (s *Shell) updateBusiness() {
	attrs := usecase.BusinessAttrs{
		Name:         s.promptRequired("Business name: "),
		Description:  s.prompt("Description: "),
		ContactEmail: s.prompt("Contact email: "),
	}

	if _, err := s.app.Businesses.Update(context.Background(), *s.user, attrs); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintln(s.out, "Updated.")
}

func (s *Shell) myProducts() {
	items, err := s.app.Products.MyProducts(context.Background(), *s.user)
	if err != nil {
		s.printErr(err)
		return
	}
	renderProducts(s.out, items)
}

func (s *Shell) addProduct() {
	attrs, ok := s.readProductAttrs()
	if !ok {
		return
	}

	p, err := s.app.Products.Create(context.Background(), *s.user, attrs)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Product %q created with ID %d.\n", p.Name, p.ID)
}

func (s *Shell) updateProduct() {
	productID, ok := s.readInt64("Product ID: ")
	if !ok {
		return
	}
	attrs, ok := s.readProductAttrs()
	if !ok {
		return
	}

	if _, err := s.app.Products.Update(context.Background(), *s.user, productID, attrs); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintln(s.out, "Updated.")
}

func (s *Shell) toggleAvailability() {
	productID, ok := s.readInt64("Product ID: ")
	if !ok {
		return
	}
	active := s.confirm("Make available? [y/N]: ")

	if err := s.app.Products.SetAvailability(context.Background(), *s.user, productID, active); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintln(s.out, "Saved.")
}

func (s *Shell) restock() {
	productID, ok := s.readInt64("Product ID: ")
	if !ok {
		return
	}
	stock, ok := s.readInt64("New stock level: ")
	if !ok {
		return
	}
	reason := s.prompt("Reason: ")

	if err := s.app.Products.Restock(context.Background(), *s.user, productID, stock, reason); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintln(s.out, "Stock updated.")
}

func (s *Shell) businessOrders() {
	orders, _, err := s.app.Orders.ListBusinessOrders(context.Background(), *s.user, 1, 50)
	if err != nil {
		s.printErr(err)
		return
	}
	renderOrders(s.out, orders)
}

func (s *Shell) updateOrderStatus() {
	orderID, ok := s.readInt64("Order ID: ")
	if !ok {
		return
	}

	statuses := []string{
		string(model.OrderStatusPaid),
		string(model.OrderStatusShipped),
		string(model.OrderStatusDelivered),
		string(model.OrderStatusCancelled),
	}
	pick := s.choose("New status", statuses)
	if pick == -1 {
		return
	}

	out, err := s.app.Orders.UpdateOrderStatus(context.Background(), *s.user, orderID, model.OrderStatus(statuses[pick]))
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Order %s is now %s.\n", out.Number, out.Status)
}

func (s *Shell) readProductAttrs() (usecase.ProductAttrs, bool) {
	name := s.promptRequired("Name: ")
	description := s.prompt("Description: ")
	category := s.prompt("Category: ")

	price, err := ParseMoney(s.promptRequired("Price (e.g. 12.34): "))
	if err != nil {
		fmt.Fprintln(s.out, "Invalid price.")
		return usecase.ProductAttrs{}, false
	}

	stock, ok := s.readInt64("Stock: ")
	if !ok {
		return usecase.ProductAttrs{}, false
	}

	return usecase.ProductAttrs{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Stock:       stock,
		IsActive:    s.confirm("Available right away? [y/N]: "),
	}, true
}
