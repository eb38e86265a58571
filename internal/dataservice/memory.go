// AngelaMos | 2026
// memory.go

package dataservice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/carterperez-dev/neolab-storefront/internal/core"
	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

type Options struct {
	Latency  Latency
	Products []model.Product
	Users    []model.User
}

// Memory simulates a backend: every call waits for its configured latency
// and then applies its read or write atomically.
type Memory struct {
	latency Latency

	mu       sync.RWMutex
	products []model.Product
	orders   []model.Order
	users    map[string]*model.User
	userIDs  []string
}

// NewMemory builds a seeded in-memory service. Nil Products or Users fall
// back to the built-in catalog and accounts.
func NewMemory(opts Options) *Memory {
	products := opts.Products
	if products == nil {
		products = SeedProducts()
	}

	users := opts.Users
	if users == nil {
		users = SeedUsers()
	}

	m := &Memory{
		latency:  opts.Latency,
		products: append([]model.Product(nil), products...),
		users:    make(map[string]*model.User, len(users)),
	}

	for _, u := range users {
		record := u.Clone()
		m.users[u.ID] = &record
		m.userIDs = append(m.userIDs, u.ID)
	}

	return m
}

func (m *Memory) GetProducts(ctx context.Context) ([]model.Product, error) {
	if err := delay(ctx, m.latency.Products); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]model.Product(nil), m.products...), nil
}

func (m *Memory) GetProductByID(
	ctx context.Context,
	id string,
) (model.Product, bool, error) {
	if err := delay(ctx, m.latency.Product); err != nil {
		return model.Product{}, false, fmt.Errorf("get product: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.ID == id {
			return p, true, nil
		}
	}

	return model.Product{}, false, nil
}

// Login resolves any email containing "admin" to the admin account and
// everything else to the default shopper. The same records are handed out
// on every call, so points earned earlier in the process are kept.
func (m *Memory) Login(ctx context.Context, email string) (model.User, error) {
	if err := delay(ctx, m.latency.Login); err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}

	role := model.RoleUser
	if strings.Contains(strings.ToLower(email), "admin") {
		role = model.RoleAdmin
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.userIDs {
		if u := m.users[id]; u.Role == role {
			return u.Clone(), nil
		}
	}

	return model.User{}, fmt.Errorf("login: no %s account: %w", role, core.ErrNotFound)
}

func (m *Memory) GetUser(ctx context.Context, id string) (model.User, error) {
	if err := delay(ctx, m.latency.User); err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("get user %q: %w", id, core.ErrNotFound)
	}

	return u.Clone(), nil
}

func (m *Memory) CreateOrder(ctx context.Context, order model.Order) error {
	if err := delay(ctx, m.latency.CreateOrder); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	if err := order.Validate(); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.orders {
		if existing.ID == order.ID {
			return fmt.Errorf(
				"create order: id %q already used: %w",
				order.ID,
				core.ErrConflict,
			)
		}
	}

	owner, ok := m.users[order.UserID]
	if !ok {
		return fmt.Errorf(
			"create order: user %q: %w",
			order.UserID,
			core.ErrNotFound,
		)
	}

	m.orders = append(m.orders, order.Clone())
	owner.Points += model.PointsFor(order.Total)

	return nil
}

func (m *Memory) GetOrders(ctx context.Context) ([]model.Order, error) {
	if err := delay(ctx, m.latency.Orders); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o.Clone())
	}

	return out, nil
}

func (m *Memory) GetUserOrders(
	ctx context.Context,
	userID string,
) ([]model.Order, error) {
	if err := delay(ctx, m.latency.Orders); err != nil {
		return nil, fmt.Errorf("get user orders: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o.Clone())
		}
	}

	return out, nil
}

func (m *Memory) UpdateProduct(ctx context.Context, product model.Product) error {
	if err := delay(ctx, m.latency.Admin); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if err := product.Validate(); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.products {
		if m.products[i].ID == product.ID {
			m.products[i] = product
			return nil
		}
	}

	return fmt.Errorf("update product %q: %w", product.ID, core.ErrNotFound)
}

// DeleteProduct is a no-op for an unknown id.
func (m *Memory) DeleteProduct(ctx context.Context, id string) error {
	if err := delay(ctx, m.latency.Admin); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.products = kept

	return nil
}

var _ Service = (*Memory)(nil)
