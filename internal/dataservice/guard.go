// AngelaMos | 2026
// guard.go

package dataservice

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/neolab-storefront/internal/core"
	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

type actorKey struct{}

// WithActor records who is issuing the calls made with ctx.
func WithActor(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, actorKey{}, user)
}

func ActorFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(actorKey{}).(model.User)
	return u, ok
}

// Guard enforces roles at the data layer: catalog writes and the full
// order list are admin only, and a user may only read their own orders.
// Catalog reads, login and user lookup pass straight through.
type Guard struct {
	next Service
}

func NewGuard(next Service) *Guard {
	return &Guard{next: next}
}

func (g *Guard) GetProducts(ctx context.Context) ([]model.Product, error) {
	return g.next.GetProducts(ctx)
}

func (g *Guard) GetProductByID(
	ctx context.Context,
	id string,
) (model.Product, bool, error) {
	return g.next.GetProductByID(ctx, id)
}

func (g *Guard) Login(ctx context.Context, email string) (model.User, error) {
	return g.next.Login(ctx, email)
}

func (g *Guard) GetUser(ctx context.Context, id string) (model.User, error) {
	return g.next.GetUser(ctx, id)
}

func (g *Guard) CreateOrder(ctx context.Context, order model.Order) error {
	if err := requireSelfOrAdmin(ctx, "create order", order.UserID); err != nil {
		return err
	}
	return g.next.CreateOrder(ctx, order)
}

func (g *Guard) GetOrders(ctx context.Context) ([]model.Order, error) {
	if err := requireRole(ctx, "get orders", model.RoleAdmin); err != nil {
		return nil, err
	}
	return g.next.GetOrders(ctx)
}

func (g *Guard) GetUserOrders(
	ctx context.Context,
	userID string,
) ([]model.Order, error) {
	if err := requireSelfOrAdmin(ctx, "get user orders", userID); err != nil {
		return nil, err
	}
	return g.next.GetUserOrders(ctx, userID)
}

func (g *Guard) UpdateProduct(ctx context.Context, product model.Product) error {
	if err := requireRole(ctx, "update product", model.RoleAdmin); err != nil {
		return err
	}
	return g.next.UpdateProduct(ctx, product)
}

func (g *Guard) DeleteProduct(ctx context.Context, id string) error {
	if err := requireRole(ctx, "delete product", model.RoleAdmin); err != nil {
		return err
	}
	return g.next.DeleteProduct(ctx, id)
}

func requireRole(ctx context.Context, op string, roles ...string) error {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return fmt.Errorf("%s: %w", op, core.ErrUnauthorized)
	}

	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}

	return fmt.Errorf("%s: role %q: %w", op, actor.Role, core.ErrForbidden)
}

func requireSelfOrAdmin(ctx context.Context, op, userID string) error {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return fmt.Errorf("%s: %w", op, core.ErrUnauthorized)
	}

	if actor.ID == userID || actor.IsAdmin() {
		return nil
	}

	return fmt.Errorf("%s: %w", op, core.ErrForbidden)
}

var _ Service = (*Guard)(nil)
