package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"
	"marketplace/internal/usecase/auth"
)

// FormatMoney renders minor units as a dollar amount.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// ParseMoney reads "12.34" (or "12") into minor units.
func ParseMoney(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, errors.New("empty amount")
	}

	whole, frac, found := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, errors.New("invalid amount")
	}

	var f int64
	if found {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, errors.New("invalid amount")
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, errors.New("invalid amount")
		}
		if len(frac) == 1 {
			f *= 10
		}
	}

	return w*100 + f, nil
}

func renderProducts(out io.Writer, items []model.Product) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tACTIVE")
	for _, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%v\n",
			p.ID, p.Name, p.Category, FormatMoney(p.Price), p.Stock, p.IsActive)
	}
	tw.Flush()
}

func renderCart(out io.Writer, cart usecase.CartView) {
	if len(cart.Lines) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tUNIT PRICE\tQTY\tSUBTOTAL")
	for _, l := range cart.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			l.ProductID, l.Name, FormatMoney(l.UnitPrice), l.Quantity, FormatMoney(l.Subtotal))
	}
	tw.Flush()
	fmt.Fprintf(out, "Total: %s\n", FormatMoney(cart.Total))
}

func renderOrders(out io.Writer, orders []usecase.OrderOutput) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			o.ID, o.Number, o.Status, FormatMoney(o.TotalAmount), o.CreatedAt)
	}
	tw.Flush()
}

// renderReceipt prints one order with its lines. Tax is display-only and
// computed on top of the stored total.
func renderReceipt(out io.Writer, o usecase.OrderOutput, taxRate float64) {
	fmt.Fprintf(out, "\nOrder %s (#%d) [%s]\n", o.Number, o.ID, o.Status)
	fmt.Fprintf(out, "Ship to: %s\n", o.ShippingAddress)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tUNIT PRICE\tQTY\tSUBTOTAL")
	for _, l := range o.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			l.Name, FormatMoney(l.UnitPrice), l.Quantity, FormatMoney(l.Subtotal))
	}
	tw.Flush()

	fmt.Fprintf(out, "Subtotal: %s\n", FormatMoney(o.TotalAmount))
	if taxRate > 0 {
		tax := int64(float64(o.TotalAmount) * taxRate)
		fmt.Fprintf(out, "Tax (%.0f%%): %s\n", taxRate*100, FormatMoney(tax))
		fmt.Fprintf(out, "Total due: %s\n", FormatMoney(o.TotalAmount+tax))
	}
}

// errMessage maps error kinds to a short message for the terminal.
func errMessage(err error) string {
	var insufficient *usecase.InsufficientStockError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("not enough stock for product %d", insufficient.ProductID)
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return "you are not allowed to do that"
	case errors.Is(err, usecase.ErrNotFound):
		return "not found"
	case errors.Is(err, usecase.ErrInvalidAttributes):
		return "invalid attributes"
	case errors.Is(err, usecase.ErrInvalidQuantity):
		return "invalid quantity"
	case errors.Is(err, usecase.ErrOutOfStock):
		return "not enough stock"
	case errors.Is(err, usecase.ErrNotAvailable):
		return "product not available"
	case errors.Is(err, usecase.ErrEmptyCart):
		return "your cart is empty"
	case errors.Is(err, usecase.ErrInvalidTransition):
		return "that status change is not allowed"
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return "store unavailable, try again"
	case errors.Is(err, auth.ErrUsernameTaken):
		return "username already taken"
	case errors.Is(err, auth.ErrEmailTaken):
		return "email already registered"
	case errors.Is(err, auth.ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid credentials"
	}
	return err.Error()
}
