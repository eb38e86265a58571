// AngelaMos | 2026
// commands.go

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/neolab-storefront/internal/core"
	"github.com/carterperez-dev/neolab-storefront/internal/health"
	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

const healthTimeout = 5 * time.Second

var errLoginRequired = fmt.Errorf("pass --email to log in: %w", core.ErrUnauthorized)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List every product in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.store.Products(cmd.Context())
			if err != nil {
				return err
			}
			return printProducts(a.out, products)
		},
	}
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := lookupProduct(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			return printProduct(a.out, product, a.store.InWishlist(product.ID))
		},
	}
}

func newCartCmd(a *app) *cobra.Command {
	cart := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the persisted cart",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printCart(a.out, a.store.Cart(), a.store.CartTotal())
		},
	}

	cart.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart and its total",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return printCart(a.out, a.store.Cart(), a.store.CartTotal())
			},
		},
		&cobra.Command{
			Use:   "add <id> [quantity]",
			Short: "Add a product, merging with an existing line",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty := 1
				if len(args) == 2 {
					var err error
					if qty, err = parseCount(args[1]); err != nil {
						return err
					}
				}

				product, err := lookupProduct(cmd.Context(), a, args[0])
				if err != nil {
					return err
				}

				if err := a.store.AddToCart(product, qty); err != nil {
					return err
				}

				fmt.Fprintf(a.out, "added %d x %s (%d in cart)\n", qty, product.Name, a.store.CartCount())
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <id> <quantity>",
			Short: "Set a line's quantity; zero removes it",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				qty, err := parseCount(args[1])
				if err != nil {
					return err
				}

				if !a.store.UpdateCartQuantity(args[0], qty) {
					fmt.Fprintf(a.out, "product %s is not in the cart\n", args[0])
					return nil
				}
				return printCart(a.out, a.store.Cart(), a.store.CartTotal())
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a product from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				a.store.RemoveFromCart(args[0])
				return printCart(a.out, a.store.Cart(), a.store.CartTotal())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				a.store.ClearCart()
				fmt.Fprintln(a.out, "cart cleared")
				return nil
			},
		},
	)

	return cart
}

func newWishlistCmd(a *app) *cobra.Command {
	wishlist := &cobra.Command{
		Use:   "wishlist",
		Short: "Show the signed in user's wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.store.IsAuthenticated() {
				return errLoginRequired
			}
			products, err := a.store.WishlistProducts(cmd.Context())
			if err != nil {
				return err
			}
			return printProducts(a.out, products)
		},
	}

	wishlist.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Add or remove a product for this session only",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !a.store.IsAuthenticated() {
				return errLoginRequired
			}
			if a.store.ToggleWishlist(args[0]) {
				fmt.Fprintf(a.out, "product %s added to wishlist\n", args[0])
			} else {
				fmt.Fprintf(a.out, "product %s removed from wishlist\n", args[0])
			}
			return nil
		},
	})

	return wishlist
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, err := a.store.PlaceOrder(cmd.Context())
			if errors.Is(err, core.ErrUnauthorized) {
				return errLoginRequired
			}
			if err != nil {
				return err
			}

			user, _ := a.store.User()
			fmt.Fprintf(a.out, "order %s placed: %d lines, total $%s\n",
				order.ID,
				len(order.Items),
				order.Total.StringFixed(2),
			)
			fmt.Fprintf(a.out, "earned %d points, balance %d\n",
				model.PointsFor(order.Total),
				user.Points,
			)
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the user, loyalty status and order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, ok := a.store.User()
			if !ok {
				return errLoginRequired
			}

			status, _ := a.store.Loyalty()
			orders, err := a.store.OrderHistory(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s <%s> (%s)\n\n", user.Name, user.Email, user.Role)
			if err := printLoyalty(a.out, status); err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			return printOrders(a.out, orders)
		},
	}
}

func newAdminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Catalog and order management (admin accounts only)",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, nil); err != nil {
				return err
			}
			if !a.store.IsAuthenticated() {
				return errLoginRequired
			}
			if !a.store.CanAccessAdmin() {
				return fmt.Errorf("admin area: %w", core.ErrForbidden)
			}
			return nil
		},
	}

	admin.AddCommand(
		&cobra.Command{
			Use:   "products",
			Short: "List the catalog with stock levels",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				products, err := a.store.Products(cmd.Context())
				if err != nil {
					return err
				}
				return printProducts(a.out, products)
			},
		},
		&cobra.Command{
			Use:   "orders",
			Short: "List every order, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				orders, err := a.store.AdminOrders(cmd.Context())
				if err != nil {
					return err
				}
				return printOrders(a.out, orders)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a product from the catalog",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.store.DeleteProduct(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "product %s deleted\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "restock <id> <stock>",
			Short: "Set a product's stock level",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				stock, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("stock %q: %w", args[1], core.ErrInvalidInput)
				}

				product, err := lookupProduct(cmd.Context(), a, args[0])
				if err != nil {
					return err
				}

				product.Stock = stock
				if err := a.store.UpdateProduct(cmd.Context(), product); err != nil {
					return err
				}

				fmt.Fprintf(a.out, "%s restocked to %d\n", product.Name, stock)
				return nil
			},
		},
	)

	return admin
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the cart storage and the data service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
			defer cancel()

			checkers := map[string]health.Checker{
				"cart_storage": a.storage,
				"dataservice": health.CheckerFunc(func(ctx context.Context) error {
					_, err := a.backend.GetProducts(ctx)
					return err
				}),
			}

			report := health.Run(ctx, checkers)
			if err := printHealth(a.out, report); err != nil {
				return err
			}

			if !report.Healthy() {
				return fmt.Errorf("health: %s", report.Status)
			}
			return nil
		},
	}
}

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the collected Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			families, err := a.registry.Gather()
			if err != nil {
				return fmt.Errorf("gather metrics: %w", err)
			}

			for _, mf := range families {
				if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}
}

func lookupProduct(ctx context.Context, a *app, id string) (model.Product, error) {
	product, ok, err := a.store.Product(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if !ok {
		return model.Product{}, fmt.Errorf("product %s: %w", id, core.ErrNotFound)
	}
	return product, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", s, core.ErrInvalidInput)
	}
	return n, nil
}
