// AngelaMos | 2026
// service.go

package dataservice

import (
	"context"

	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

// Service is the authoritative store for products, orders and users.
// Memory is the only implementation today; a persistent one only needs to
// honour the same contract.
type Service interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	// GetProductByID reports ok=false with a nil error for an unknown id.
	GetProductByID(ctx context.Context, id string) (model.Product, bool, error)
	Login(ctx context.Context, email string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	// CreateOrder stores the order and credits the owner with
	// model.PointsFor(order.Total).
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrders(ctx context.Context) ([]model.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
