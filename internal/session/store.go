// AngelaMos | 2026
// store.go

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/neolab-storefront/internal/core"
	"github.com/carterperez-dev/neolab-storefront/internal/dataservice"
	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

// Backend is the part of the data service the session talks to.
type Backend interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (model.Product, bool, error)
	Login(ctx context.Context, email string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrders(ctx context.Context) ([]model.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

const saveTimeout = 5 * time.Second

// Store holds one shopper's session: the signed in user, their wishlist
// and the cart. It is created once per run and reset by Logout; the cart
// outlives Logout.
type Store struct {
	backend Backend
	storage CartStorage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	inFlight atomic.Int32

	mu       sync.Mutex
	user     *model.User
	cart     []model.CartItem
	gens     lineGens
	wishlist []string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a session and rehydrates the cart from storage. A missing or
// unreadable slot starts the session with an empty cart.
func New(
	ctx context.Context,
	backend Backend,
	storage CartStorage,
	logger *slog.Logger,
	opts ...Option,
) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		backend: backend,
		storage: storage,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cart = s.loadCart(ctx)
	s.gens = newLineGens(s.cart)
	return s
}

func (s *Store) loadCart(ctx context.Context) []model.CartItem {
	data, err := s.storage.Load(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return []model.CartItem{}
	}
	if err != nil {
		s.logger.Warn("cart slot unreadable, starting empty", "error", err)
		return []model.CartItem{}
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("cart slot corrupt, starting empty", "error", err)
		return []model.CartItem{}
	}

	cart := normalizeCart(items)
	s.logger.Debug("cart restored", "lines", len(cart), "units", cartUnits(cart))
	return cart
}

// persistLocked writes the cart to its slot. Failures are logged; the
// in-memory cart stays authoritative for the session. Caller holds s.mu.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.cart)
	if err != nil {
		s.logger.Error("encode cart", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.storage.Save(ctx, data); err != nil {
		s.logger.Error("save cart", "error", err)
	}
}

func (s *Store) beginCall() func() {
	s.inFlight.Add(1)
	return func() { s.inFlight.Add(-1) }
}

// Loading reports whether a data service call is in flight.
func (s *Store) Loading() bool {
	return s.inFlight.Load() > 0
}

// Login never fails loudly: a rejected login is logged and the session
// stays signed out.
func (s *Store) Login(ctx context.Context, email string) (model.User, bool) {
	done := s.beginCall()
	defer done()

	user, err := s.backend.Login(ctx, email)
	if err != nil {
		s.logger.Error("login failed", "email", email, "error", err)
		return model.User{}, false
	}

	s.mu.Lock()
	record := user.Clone()
	s.user = &record
	s.wishlist = append([]string{}, user.Wishlist...)
	s.mu.Unlock()

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return user.Clone(), true
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		s.logger.Info("user logged out", "user_id", s.user.ID)
	}
	s.user = nil
	s.wishlist = nil
}

func (s *Store) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return model.User{}, false
	}
	return s.user.Clone(), true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// CanAccessAdmin is the role gate for admin-only views.
func (s *Store) CanAccessAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin()
}

// AddToCart merges into an existing line for the same product or appends a
// new one. Stock is not checked.
func (s *Store) AddToCart(product model.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf(
			"add to cart: quantity %d: %w",
			quantity,
			core.ErrInvalidInput,
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !hasLine(s.cart, product.ID) {
		s.gens.stamp(product.ID)
	}
	s.cart = addItem(s.cart, product, quantity)
	s.persistLocked()
	return nil
}

func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = removeItem(s.cart, productID)
	s.gens.prune(s.cart)
	s.persistLocked()
}

// UpdateCartQuantity sets an absolute quantity; zero or less removes the
// line. Products not in the cart are ignored and false is returned.
func (s *Store) UpdateCartQuantity(productID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, found := setQuantity(s.cart, productID, quantity)
	if !found {
		return false
	}

	s.cart = cart
	if quantity > 0 {
		s.gens.stamp(productID)
	}
	s.gens.prune(s.cart)
	s.persistLocked()
	return true
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = []model.CartItem{}
	s.gens.prune(s.cart)
	s.persistLocked()
}

func (s *Store) Cart() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(s.cart)
}

func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Subtotal(s.cart)
}

func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartUnits(s.cart)
}

// PlaceOrder submits the cart as it is at the moment of the call. Edits
// made while the order is in flight are not part of it and survive in the
// cart afterwards: units added to an ordered line stay, and a line removed
// and re-added or given a new absolute quantity is kept whole. Points come
// from the data service's own accrual.
func (s *Store) PlaceOrder(ctx context.Context) (model.Order, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("place order: %w", core.ErrUnauthorized)
	}
	user := s.user.Clone()
	snapshot := cloneCart(s.cart)
	snapGens := s.gens.snapshot()
	s.mu.Unlock()

	if len(snapshot) == 0 {
		return model.Order{}, fmt.Errorf("place order: cart is empty: %w", core.ErrInvalidInput)
	}

	order := model.Order{
		ID:     s.newID(),
		UserID: user.ID,
		Items:  snapshot,
		Total:  model.Subtotal(snapshot),
		Status: model.OrderStatusPending,
		Date:   s.now().UTC(),
	}

	done := s.beginCall()
	defer done()

	actorCtx := dataservice.WithActor(ctx, user)
	if err := s.backend.CreateOrder(actorCtx, order); err != nil {
		s.logger.Error("place order failed", "order_id", order.ID, "error", err)
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}

	fresh, refreshErr := s.backend.GetUser(actorCtx, user.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case refreshErr != nil:
		s.logger.Warn("order placed but points refresh failed",
			"order_id", order.ID,
			"error", refreshErr,
		)
	case s.user != nil && s.user.ID == fresh.ID:
		s.user.Points = fresh.Points
	}

	s.cart = subtractSnapshot(s.cart, snapshot, s.gens.byID, snapGens)
	s.gens.prune(s.cart)
	s.persistLocked()

	s.logger.Info("order placed",
		"order_id", order.ID,
		"user_id", user.ID,
		"total", order.Total.StringFixed(2),
		"points_earned", model.PointsFor(order.Total),
	)

	return order.Clone(), nil
}

// ToggleWishlist adds or removes productID and reports whether it is now
// on the list. The change stays local to the session.
func (s *Store) ToggleWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.wishlist {
		if id == productID {
			s.wishlist = append(s.wishlist[:i:i], s.wishlist[i+1:]...)
			return false
		}
	}

	s.wishlist = append(s.wishlist, productID)
	return true
}

func (s *Store) Wishlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.wishlist...)
}

func (s *Store) InWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// Loyalty derives the rewards dashboard from the current point balance.
func (s *Store) Loyalty() (model.LoyaltyStatus, bool) {
	user, ok := s.User()
	if !ok {
		return model.LoyaltyStatus{}, false
	}
	return model.ProgressFor(user.Points), true
}

func (s *Store) Products(ctx context.Context) ([]model.Product, error) {
	done := s.beginCall()
	defer done()

	products, err := s.backend.GetProducts(s.actorContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) Product(ctx context.Context, id string) (model.Product, bool, error) {
	done := s.beginCall()
	defer done()

	product, ok, err := s.backend.GetProductByID(s.actorContext(ctx), id)
	if err != nil {
		return model.Product{}, false, fmt.Errorf("get product: %w", err)
	}
	return product, ok, nil
}

// OrderHistory returns the signed in user's orders, newest first.
func (s *Store) OrderHistory(ctx context.Context) ([]model.Order, error) {
	user, ok := s.User()
	if !ok {
		return nil, fmt.Errorf("order history: %w", core.ErrUnauthorized)
	}

	done := s.beginCall()
	defer done()

	orders, err := s.backend.GetUserOrders(dataservice.WithActor(ctx, user), user.ID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}

	sortNewestFirst(orders)
	return orders, nil
}

// WishlistProducts resolves the wishlist against the current catalog, in
// catalog order. Ids no longer in the catalog are skipped.
func (s *Store) WishlistProducts(ctx context.Context) ([]model.Product, error) {
	wanted := make(map[string]struct{})
	for _, id := range s.Wishlist() {
		wanted[id] = struct{}{}
	}

	if len(wanted) == 0 {
		return []model.Product{}, nil
	}

	products, err := s.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("wishlist products: %w", err)
	}

	out := make([]model.Product, 0, len(wanted))
	for _, p := range products {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) AdminOrders(ctx context.Context) ([]model.Order, error) {
	admin, err := s.requireAdmin("admin orders")
	if err != nil {
		return nil, err
	}

	done := s.beginCall()
	defer done()

	orders, err := s.backend.GetOrders(dataservice.WithActor(ctx, admin))
	if err != nil {
		return nil, fmt.Errorf("admin orders: %w", err)
	}

	sortNewestFirst(orders)
	return orders, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product model.Product) error {
	admin, err := s.requireAdmin("update product")
	if err != nil {
		return err
	}

	done := s.beginCall()
	defer done()

	if err := s.backend.UpdateProduct(dataservice.WithActor(ctx, admin), product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	s.logger.Info("product updated", "product_id", product.ID, "admin_id", admin.ID)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	admin, err := s.requireAdmin("delete product")
	if err != nil {
		return err
	}

	done := s.beginCall()
	defer done()

	if err := s.backend.DeleteProduct(dataservice.WithActor(ctx, admin), id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.Info("product deleted", "product_id", id, "admin_id", admin.ID)
	return nil
}

func (s *Store) requireAdmin(op string) (model.User, error) {
	user, ok := s.User()
	if !ok {
		return model.User{}, fmt.Errorf("%s: %w", op, core.ErrUnauthorized)
	}
	if !user.IsAdmin() {
		return model.User{}, fmt.Errorf("%s: %w", op, core.ErrForbidden)
	}
	return user, nil
}

func (s *Store) actorContext(ctx context.Context) context.Context {
	if user, ok := s.User(); ok {
		return dataservice.WithActor(ctx, user)
	}
	return ctx
}

func sortNewestFirst(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
}
