// AngelaMos | 2026
// store_test.go

package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/neolab-storefront/internal/core"
	"github.com/carterperez-dev/neolab-storefront/internal/dataservice"
	"github.com/carterperez-dev/neolab-storefront/internal/model"
	"github.com/carterperez-dev/neolab-storefront/internal/session"
)

const (
	shopperEmail = "alex@neolab.com"
	adminEmail   = "admin@neolab.com"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type fixture struct {
	backend dataservice.Service
	storage *session.MemoryStorage
	store   *session.Store
	logs    *bytes.Buffer
}

func newFixture(t *testing.T, backend dataservice.Service) *fixture {
	t.Helper()

	if backend == nil {
		backend = dataservice.NewGuard(dataservice.NewMemory(dataservice.Options{}))
	}

	f := &fixture{
		backend: backend,
		storage: session.NewMemoryStorage(),
		logs:    &bytes.Buffer{},
	}
	f.store = f.open(t)
	return f
}

func (f *fixture) open(t *testing.T) *session.Store {
	t.Helper()

	ids := 0
	return session.New(
		context.Background(),
		f.backend,
		f.storage,
		slog.New(slog.NewTextHandler(f.logs, nil)),
		session.WithClock(func() time.Time { return fixedNow }),
		session.WithIDGenerator(func() string {
			ids++
			return "order-" + string(rune('0'+ids))
		}),
	)
}

func (f *fixture) product(t *testing.T, id string) model.Product {
	t.Helper()

	p, ok, err := f.store.Product(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok, "product %s", id)
	return p
}

func (f *fixture) persisted(t *testing.T) []model.CartItem {
	t.Helper()

	data, err := f.storage.Load(context.Background())
	require.NoError(t, err)

	var items []model.CartItem
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestAddToCartSumsQuantities(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	p := f.product(t, "1")

	for _, qty := range []int{1, 3, 2, 1} {
		require.NoError(t, f.store.AddToCart(p, qty))
	}

	cart := f.store.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 7, cart[0].Quantity)
	assert.Equal(t, 7, f.store.CartCount())
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	p := f.product(t, "1")

	assert.ErrorIs(t, f.store.AddToCart(p, 0), core.ErrInvalidInput)
	assert.ErrorIs(t, f.store.AddToCart(p, -2), core.ErrInvalidInput)
	assert.Empty(t, f.store.Cart())
}

func TestAddToCartIgnoresStock(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	p := f.product(t, "2")

	require.NoError(t, f.store.AddToCart(p, p.Stock+5))
	assert.Equal(t, p.Stock+5, f.store.CartCount())
}

func TestUpdateCartQuantity(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -3} {
		f := newFixture(t, nil)
		require.NoError(t, f.store.AddToCart(f.product(t, "1"), 2))

		assert.True(t, f.store.UpdateCartQuantity("1", qty))
		assert.Empty(t, f.store.Cart(), "quantity %d", qty)
	}

	f := newFixture(t, nil)
	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 2))

	assert.True(t, f.store.UpdateCartQuantity("1", 5))
	assert.Equal(t, 5, f.store.Cart()[0].Quantity)

	assert.False(t, f.store.UpdateCartQuantity("8", 3))
	assert.Len(t, f.store.Cart(), 1)
}

func TestCartTotalTracksEveryMutation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	total := func() string { return f.store.CartTotal().StringFixed(2) }

	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 2))
	require.NoError(t, f.store.AddToCart(f.product(t, "3"), 1))
	assert.Equal(t, "51.00", total())

	f.store.UpdateCartQuantity("3", 4)
	assert.Equal(t, "96.00", total())

	f.store.RemoveFromCart("1")
	assert.Equal(t, "60.00", total())

	f.store.RemoveFromCart("nope")
	assert.Equal(t, "60.00", total())

	f.store.ClearCart()
	assert.Equal(t, "0.00", total())
}

func TestCartPersistsAcrossSessions(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 2))
	require.NoError(t, f.store.AddToCart(f.product(t, "3"), 1))

	saved := f.persisted(t)
	require.Len(t, saved, 2)
	assert.Equal(t, 2, saved[0].Quantity)

	reopened := f.open(t)
	assert.Equal(t, "51.00", reopened.CartTotal().StringFixed(2))

	f.store.ClearCart()
	assert.Equal(t, []model.CartItem{}, f.persisted(t))
}

func TestCorruptCartSlotStartsEmpty(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string]string{
		"garbage":  "{not json",
		"object":   `{"id":"1"}`,
		"null":     "null",
		"bad qty":  `[{"id":"1","price":"18","quantity":0}]`,
		"empty id": `[{"id":"","price":"18","quantity":2}]`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, nil)
			require.NoError(t, f.storage.Save(context.Background(), []byte(raw)))

			store := f.open(t)
			assert.Empty(t, store.Cart())
			assert.Equal(t, 0, store.CartCount())
		})
	}
}

func TestLoginResolvesAccounts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.False(t, f.store.IsAuthenticated())

	admin, ok := f.store.Login(ctx, adminEmail)
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, f.store.CanAccessAdmin())

	user, ok := f.store.Login(ctx, shopperEmail)
	require.True(t, ok)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, 340, user.Points)
	assert.False(t, f.store.CanAccessAdmin())
	assert.ElementsMatch(t, []string{"2", "4"}, f.store.Wishlist())
}

type failingLogin struct {
	dataservice.Service
}

func (failingLogin) Login(context.Context, string) (model.User, error) {
	return model.User{}, errors.New("service unavailable")
}

func TestLoginFailureIsLoggedAndSwallowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingLogin{dataservice.NewMemory(dataservice.Options{})})

	_, ok := f.store.Login(context.Background(), shopperEmail)
	assert.False(t, ok)
	assert.False(t, f.store.IsAuthenticated())
	assert.Contains(t, f.logs.String(), "login failed")
}

func TestLogoutKeepsCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	_, ok := f.store.Login(context.Background(), shopperEmail)
	require.True(t, ok)
	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 1))

	f.store.Logout()

	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.store.Wishlist())
	_, ok = f.store.User()
	assert.False(t, ok)
	assert.Len(t, f.store.Cart(), 1)
}

func TestToggleWishlistIsAnInvolution(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	_, ok := f.store.Login(context.Background(), shopperEmail)
	require.True(t, ok)
	before := f.store.Wishlist()

	for _, id := range []string{"2", "7"} {
		first := f.store.ToggleWishlist(id)
		second := f.store.ToggleWishlist(id)

		assert.NotEqual(t, first, second)
		assert.ElementsMatch(t, before, f.store.Wishlist())
	}

	assert.True(t, f.store.ToggleWishlist("7"))
	assert.True(t, f.store.InWishlist("7"))
	assert.False(t, f.store.ToggleWishlist("2"))
	assert.False(t, f.store.InWishlist("2"))

	products, err := f.store.WishlistProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "4", products[0].ID)
	assert.Equal(t, "7", products[1].ID)
}

func TestPlaceOrderWhenLoggedOut(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 2))
	before := f.store.Cart()

	_, err := f.store.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.Equal(t, before, f.store.Cart())
}

func TestPlaceOrderWithEmptyCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	_, ok := f.store.Login(context.Background(), shopperEmail)
	require.True(t, ok)

	_, err := f.store.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestPlaceOrderAccruesPointsOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()

	_, ok := f.store.Login(ctx, shopperEmail)
	require.True(t, ok)
	require.NoError(t, f.store.AddToCart(f.product(t, "2"), 1))
	require.Equal(t, "25.00", f.store.CartTotal().StringFixed(2))

	order, err := f.store.PlaceOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, dataservice.DefaultUserID, order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(25).Equal(order.Total))
	assert.Equal(t, fixedNow, order.Date)

	user, _ := f.store.User()
	assert.Equal(t, 590, user.Points)
	assert.Empty(t, f.store.Cart())
	assert.Empty(t, f.persisted(t))

	status, ok := f.store.Loyalty()
	require.True(t, ok)
	assert.Equal(t, "Adept", status.Current.Name)

	f.store.Logout()
	again, ok := f.store.Login(ctx, shopperEmail)
	require.True(t, ok)
	assert.Equal(t, 590, again.Points)

	history, err := f.store.OrderHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
}

type failingOrder struct {
	dataservice.Service
}

func (failingOrder) CreateOrder(context.Context, model.Order) error {
	return errors.New("write rejected")
}

func TestPlaceOrderFailureLeavesStateAlone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingOrder{dataservice.NewMemory(dataservice.Options{})})
	ctx := context.Background()

	_, ok := f.store.Login(ctx, shopperEmail)
	require.True(t, ok)
	require.NoError(t, f.store.AddToCart(f.product(t, "2"), 1))

	_, err := f.store.PlaceOrder(ctx)
	require.Error(t, err)

	user, _ := f.store.User()
	assert.Equal(t, 340, user.Points)
	assert.Len(t, f.store.Cart(), 1)
	assert.False(t, f.store.Loading())
}

// gatedOrder holds CreateOrder until released so the test can edit the
// cart while an order is in flight.
type gatedOrder struct {
	dataservice.Service
	entered chan struct{}
	release chan struct{}
}

func (g gatedOrder) CreateOrder(ctx context.Context, order model.Order) error {
	close(g.entered)
	<-g.release
	return g.Service.CreateOrder(ctx, order)
}

func TestEditsDuringCheckoutSurvive(t *testing.T) {
	t.Parallel()

	gate := gatedOrder{
		Service: dataservice.NewMemory(dataservice.Options{}),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newFixture(t, gate)
	ctx := context.Background()

	_, ok := f.store.Login(ctx, shopperEmail)
	require.True(t, ok)
	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 2))

	var (
		wg    sync.WaitGroup
		order model.Order
		err   error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		order, err = f.store.PlaceOrder(ctx)
	}()

	<-gate.entered
	assert.True(t, f.store.Loading())

	require.NoError(t, f.store.AddToCart(f.product(t, "1"), 1))
	require.NoError(t, f.store.AddToCart(f.product(t, "8"), 1))

	close(gate.release)
	wg.Wait()

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "36.00", order.Total.StringFixed(2))

	cart := f.store.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, "1", cart[0].ID)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, "8", cart[1].ID)

	user, _ := f.store.User()
	assert.Equal(t, 340+360, user.Points)
	assert.False(t, f.store.Loading())
}

func TestCheckoutKeepsLinesRebuiltInFlight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		edit func(t *testing.T, f *fixture, p model.Product)
		want int
	}{
		{
			name: "removed then re-added",
			edit: func(t *testing.T, f *fixture, p model.Product) {
				f.store.RemoveFromCart(p.ID)
				require.NoError(t, f.store.AddToCart(p, 1))
			},
			want: 1,
		},
		{
			name: "lowered then raised",
			edit: func(_ *testing.T, f *fixture, p model.Product) {
				f.store.UpdateCartQuantity(p.ID, 1)
				f.store.UpdateCartQuantity(p.ID, 3)
			},
			want: 3,
		},
		{
			name: "cleared then re-added",
			edit: func(t *testing.T, f *fixture, p model.Product) {
				f.store.ClearCart()
				require.NoError(t, f.store.AddToCart(p, 2))
			},
			want: 2,
		},
		{
			name: "raised by add",
			edit: func(t *testing.T, f *fixture, p model.Product) {
				require.NoError(t, f.store.AddToCart(p, 1))
			},
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gate := gatedOrder{
				Service: dataservice.NewMemory(dataservice.Options{}),
				entered: make(chan struct{}),
				release: make(chan struct{}),
			}
			f := newFixture(t, gate)
			ctx := context.Background()

			_, ok := f.store.Login(ctx, shopperEmail)
			require.True(t, ok)
			p := f.product(t, "1")
			require.NoError(t, f.store.AddToCart(p, 2))

			placed := make(chan error, 1)
			go func() {
				order, err := f.store.PlaceOrder(ctx)
				if err == nil && order.Items[0].Quantity != 2 {
					err = errors.New("order did not use the snapshot")
				}
				placed <- err
			}()

			<-gate.entered
			tc.edit(t, f, p)
			close(gate.release)
			require.NoError(t, <-placed)

			cart := f.store.Cart()
			require.Len(t, cart, 1)
			assert.Equal(t, tc.want, cart[0].Quantity)
			assert.Equal(t, tc.want, f.persisted(t)[0].Quantity)
		})
	}
}

func TestAdminGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("logged out", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		assert.False(t, f.store.CanAccessAdmin())
		_, err := f.store.AdminOrders(ctx)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("shopper", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		_, ok := f.store.Login(ctx, shopperEmail)
		require.True(t, ok)

		_, err := f.store.AdminOrders(ctx)
		assert.ErrorIs(t, err, core.ErrForbidden)
		assert.ErrorIs(t, f.store.DeleteProduct(ctx, "1"), core.ErrForbidden)
		assert.ErrorIs(t, f.store.UpdateProduct(ctx, f.product(t, "1")), core.ErrForbidden)
	})

	t.Run("admin", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		_, ok := f.store.Login(ctx, adminEmail)
		require.True(t, ok)

		p := f.product(t, "1")
		p.Stock = 3
		require.NoError(t, f.store.UpdateProduct(ctx, p))
		assert.Equal(t, 3, f.product(t, "1").Stock)

		require.NoError(t, f.store.DeleteProduct(ctx, "8"))
		_, found, err := f.store.Product(ctx, "8")
		require.NoError(t, err)
		assert.False(t, found)

		orders, err := f.store.AdminOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestOrderHistoryNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, nil)

	_, ok := f.store.Login(ctx, shopperEmail)
	require.True(t, ok)

	clock := fixedNow
	ids := 0
	store := session.New(ctx, f.backend, session.NewMemoryStorage(), nil,
		session.WithClock(func() time.Time {
			clock = clock.Add(time.Hour)
			return clock
		}),
		session.WithIDGenerator(func() string {
			ids++
			return []string{"", "first", "second", "third"}[ids]
		}),
	)
	_, ok = store.Login(ctx, shopperEmail)
	require.True(t, ok)

	for _, id := range []string{"1", "3", "5"} {
		require.NoError(t, store.AddToCart(f.product(t, id), 1))
		_, err := store.PlaceOrder(ctx)
		require.NoError(t, err)
	}

	history, err := store.OrderHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].ID)
	assert.Equal(t, "first", history[2].ID)
}

func TestGetProductMissingIsAbsent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	_, ok, err := f.store.Product(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.False(t, ok)
}
