// AngelaMos | 2026
// output.go

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/neolab-storefront/internal/health"
	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProducts(w io.Writer, products []model.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "no products")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCOLOR\tPRICE\tSTOCK\tRATING\t")
	for _, p := range products {
		name := p.Name
		if p.IsNew {
			name += " [new]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%s\t%d\t%.1f (%d)\t\n",
			p.ID, name, p.Category, p.Color,
			p.Price.StringFixed(2), p.Stock, p.Rating, p.Reviews,
		)
	}
	return tw.Flush()
}

func printProduct(w io.Writer, p model.Product, wishlisted bool) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name\t%s\n", p.Name)
	fmt.Fprintf(tw, "Description\t%s\n", p.Description)
	fmt.Fprintf(tw, "Category\t%s\n", p.Category)
	fmt.Fprintf(tw, "Color\t%s\n", p.Color)
	fmt.Fprintf(tw, "Price\t$%s\n", p.Price.StringFixed(2))
	fmt.Fprintf(tw, "Stock\t%d\n", p.Stock)
	fmt.Fprintf(tw, "Rating\t%.1f from %d reviews\n", p.Rating, p.Reviews)
	fmt.Fprintf(tw, "Wishlist\t%t\n", wishlisted)
	return tw.Flush()
}

func printCart(w io.Writer, cart []model.CartItem, total decimal.Decimal) error {
	if len(cart) == 0 {
		_, err := fmt.Fprintln(w, "cart is empty")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tLINE\t")
	for _, item := range cart {
		fmt.Fprintf(tw, "%s\t%s\t$%s\t%d\t$%s\t\n",
			item.ID, item.Name,
			item.Price.StringFixed(2), item.Quantity,
			item.LineTotal().StringFixed(2),
		)
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t$%s\t\n", total.StringFixed(2))
	return tw.Flush()
}

func printOrders(w io.Writer, orders []model.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "no orders")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tUSER\tDATE\tSTATUS\tITEMS\tTOTAL\t")
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			names = append(names, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t$%s\t\n",
			o.ID, o.UserID,
			o.Date.Format("2006-01-02 15:04"),
			o.Status,
			strings.Join(names, ", "),
			o.Total.StringFixed(2),
		)
	}
	return tw.Flush()
}

func printLoyalty(w io.Writer, s model.LoyaltyStatus) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Points\t%d\n", s.Points)
	fmt.Fprintf(tw, "Tier\t%s\n", s.Current.Name)
	if s.Next != nil {
		fmt.Fprintf(tw, "Next tier\t%s in %d points (%.0f%%)\n",
			s.Next.Name, s.PointsToNext, s.Percent,
		)
	} else {
		fmt.Fprintln(tw, "Next tier\ttop tier reached")
	}
	fmt.Fprintf(tw, "Benefits\t%s\n", strings.Join(s.Current.Benefits, "; "))
	return tw.Flush()
}

func printHealth(w io.Writer, r health.Report) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CHECK\tHEALTHY\tLATENCY\tMESSAGE\t")
	for _, c := range r.Checks {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t\n", c.Name, c.Healthy, c.Latency, c.Message)
	}
	fmt.Fprintf(tw, "status\t%s\t\t\t\n", r.Status)
	return tw.Flush()
}
