// AngelaMos | 2026
// demo.go

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/neolab-storefront/internal/model"
	"github.com/carterperez-dev/neolab-storefront/internal/session"
)

const (
	demoShopperEmail = "alex@neolab.io"
	demoAdminEmail   = "admin@neolab.io"
)

// newDemoCmd walks one shopper and one admin through a full session. It
// runs on its own in-memory cart slot so the persisted cart is left alone.
func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted shopping session end to end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), a)
		},
	}
}

//nolint:funlen // a linear script reads best in one place
func runDemo(ctx context.Context, a *app) error {
	store := session.New(ctx, a.backend, session.NewMemoryStorage(), a.logger)

	step(a, "login as %s", demoShopperEmail)
	user, ok := store.Login(ctx, demoShopperEmail)
	if !ok {
		return fmt.Errorf("demo login failed")
	}
	fmt.Fprintf(a.out, "welcome %s, %d points\n", user.Name, user.Points)

	products, err := store.Products(ctx)
	if err != nil {
		return err
	}
	if len(products) < 2 {
		return fmt.Errorf("demo needs at least two products, catalog has %d", len(products))
	}

	step(a, "fill the cart")
	if err := store.AddToCart(products[0], 2); err != nil {
		return err
	}
	if err := store.AddToCart(products[1], 1); err != nil {
		return err
	}
	if err := printCart(a.out, store.Cart(), store.CartTotal()); err != nil {
		return err
	}

	step(a, "checkout while adding one more item")
	type result struct {
		order model.Order
		err   error
	}
	placed := make(chan result, 1)
	go func() {
		order, err := store.PlaceOrder(ctx)
		placed <- result{order, err}
	}()

	if waitForCall(store, 100*time.Millisecond) {
		fmt.Fprintln(a.out, "order in flight...")
	}
	if err := store.AddToCart(products[len(products)-1], 1); err != nil {
		return err
	}

	r := <-placed
	if r.err != nil {
		return r.err
	}
	fmt.Fprintf(a.out, "order %s placed for $%s\n", r.order.ID, r.order.Total.StringFixed(2))

	step(a, "cart after checkout")
	if err := printCart(a.out, store.Cart(), store.CartTotal()); err != nil {
		return err
	}

	step(a, "loyalty")
	status, _ := store.Loyalty()
	if err := printLoyalty(a.out, status); err != nil {
		return err
	}

	step(a, "order history")
	orders, err := store.OrderHistory(ctx)
	if err != nil {
		return err
	}
	if err := printOrders(a.out, orders); err != nil {
		return err
	}

	step(a, "switch to %s", demoAdminEmail)
	store.Logout()
	if _, ok := store.Login(ctx, demoAdminEmail); !ok {
		return fmt.Errorf("demo admin login failed")
	}

	restock := products[0]
	restock.Stock += 10
	if err := store.UpdateProduct(ctx, restock); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s restocked to %d\n", restock.Name, restock.Stock)

	all, err := store.AdminOrders(ctx)
	if err != nil {
		return err
	}
	return printOrders(a.out, all)
}

// waitForCall polls until a data service call is in flight or limit passes.
func waitForCall(store *session.Store, limit time.Duration) bool {
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		if store.Loading() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func step(a *app, format string, args ...any) {
	fmt.Fprintf(a.out, "\n== "+format+"\n", args...)
}
