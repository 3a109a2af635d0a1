package database

import (
	"context"
	"testing"
	"time"

	"cloudscale_back_end/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormTestStore(t *testing.T) Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Une base :memory: n'existe que pour sa connexion
	sqlDB.SetMaxOpenConns(1)

	store, err := NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"gorm":   newGormTestStore,
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, store Store)) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func createTestProduct(t *testing.T, store Store, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Category:    "electronics",
		ImageURL:    "https://example.com/" + name,
		InStock:     true,
		StockCount:  10,
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func TestUsers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		u := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
		require.NoError(t, store.CreateUser(ctx, u))
		assert.NotZero(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byName, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		dup := &models.User{Username: "alice2", Email: "alice@example.com", Password: "hash"}
		assert.ErrorIs(t, store.CreateUser(ctx, dup), ErrDuplicate)

		_, err = store.GetUser(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)

		byEmail.FirstName = "Alice"
		require.NoError(t, store.UpdateUser(ctx, byEmail))
		got, err := store.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.FirstName)
	})
}

func TestAddresses(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		a := &models.Address{UserID: 1, Type: models.AddressShipping, Street: "1 MG Road", City: "Pune",
			State: "MH", ZipCode: "411001", Country: models.DefaultCountry}
		require.NoError(t, store.CreateAddress(ctx, a))
		require.NoError(t, store.CreateAddress(ctx, &models.Address{UserID: 2, Type: models.AddressBilling,
			Street: "x", City: "y", State: "z", ZipCode: "1", Country: "France"}))

		list, err := store.ListAddresses(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Pune", list[0].City)

		a.City = "Mumbai"
		require.NoError(t, store.UpdateAddress(ctx, a))
		got, err := store.GetAddress(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mumbai", got.City)

		require.NoError(t, store.DeleteAddress(ctx, a.ID))
		assert.ErrorIs(t, store.DeleteAddress(ctx, a.ID), ErrNotFound)
	})
}

func TestProducts(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		phone := createTestProduct(t, store, "phone", "899.00")
		jacket := &models.Product{Name: "jacket", Description: "leather", Price: decimal.RequireFromString("249.00"),
			Category: "fashion", ImageURL: "u", InStock: true, StockCount: 3}
		require.NoError(t, store.CreateProduct(ctx, jacket))

		all, err := store.ListProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		fashion, err := store.ListProductsByCategory(ctx, "fashion")
		require.NoError(t, err)
		require.Len(t, fashion, 1)
		assert.Equal(t, jacket.ID, fashion[0].ID)

		got, err := store.GetProduct(ctx, phone.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("899").Equal(got.Price))

		require.NoError(t, store.UpdateProductStock(ctx, jacket.ID, 0))
		got, err = store.GetProduct(ctx, jacket.ID)
		require.NoError(t, err)
		assert.False(t, got.InStock)
		assert.Equal(t, 0, got.StockCount)

		assert.ErrorIs(t, store.UpdateProductStock(ctx, 9999, 1), ErrNotFound)
	})
}

func TestAddToCartMergesSameProduct(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		p := createTestProduct(t, store, "phone", "899.00")

		first, err := store.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
		second, err := store.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 5, second.Quantity)

		items, err := store.ListCartItems(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)

		// un autre utilisateur a sa propre ligne
		other, err := store.AddToCart(ctx, &models.CartItem{UserID: 2, ProductID: p.ID})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, other.ID)
		assert.Equal(t, 1, other.Quantity)
	})
}

func TestCartUpdateRemoveClear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		a := createTestProduct(t, store, "a", "10.00")
		b := createTestProduct(t, store, "b", "20.00")

		itemA, err := store.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: a.ID, Quantity: 1})
		require.NoError(t, err)
		itemB, err := store.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: b.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = store.AddToCart(ctx, &models.CartItem{UserID: 2, ProductID: b.ID, Quantity: 1})
		require.NoError(t, err)

		updated, err := store.UpdateCartItemQuantity(ctx, itemA.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)

		_, err = store.UpdateCartItemQuantity(ctx, 9999, 1)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.RemoveCartItem(ctx, itemB.ID))
		assert.ErrorIs(t, store.RemoveCartItem(ctx, itemB.ID), ErrNotFound)

		require.NoError(t, store.ClearCart(ctx, 1))
		items, err := store.ListCartItems(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, items)

		others, err := store.ListCartItems(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, others, 1)
	})
}

func TestOrders(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		first := &models.Order{UserID: 1, TotalAmount: decimal.RequireFromString("10.00"), ShippingAddressID: 1, BillingAddressID: 1}
		require.NoError(t, store.CreateOrder(ctx, first))
		second := &models.Order{UserID: 1, TotalAmount: decimal.RequireFromString("20.00"), ShippingAddressID: 1, BillingAddressID: 1}
		require.NoError(t, store.CreateOrder(ctx, second))
		assert.Equal(t, models.OrderPending, first.Status)

		require.NoError(t, store.CreateOrderItem(ctx, &models.OrderItem{OrderID: first.ID, ProductID: 3, Quantity: 2,
			PriceAtTime: decimal.RequireFromString("5.00")}))

		orders, err := store.ListOrders(ctx, 1)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, second.ID, orders[0].ID, "les commandes les plus récentes d'abord")

		items, err := store.ListOrderItems(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, decimal.RequireFromString("5").Equal(items[0].PriceAtTime))

		cancelled, err := store.UpdateOrderStatus(ctx, first.ID, models.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, cancelled.Status)

		_, err = store.UpdateOrderStatus(ctx, 9999, models.OrderCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestActiveSessionsWindow(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		now := time.Now().UTC()
		uid := int64(1)

		require.NoError(t, store.CreateSession(ctx, &models.Session{UserID: &uid, SessionID: "fresh", IsActive: true}))
		require.NoError(t, store.CreateSession(ctx, &models.Session{UserID: &uid, SessionID: "stale", IsActive: true}))
		require.NoError(t, store.CreateSession(ctx, &models.Session{UserID: &uid, SessionID: "gone", IsActive: true}))

		require.NoError(t, store.TouchSession(ctx, "fresh", now))
		require.NoError(t, store.TouchSession(ctx, "stale", now.Add(-31*time.Minute)))
		require.NoError(t, store.DeactivateSession(ctx, "gone"))

		since := now.Add(-30 * time.Minute)
		count, err := store.CountActiveSessions(ctx, since)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		active, err := store.ListActiveSessions(ctx, since)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "fresh", active[0].SessionID)

		// la session périmée reste en table, seulement exclue du comptage
		stale, err := store.GetSession(ctx, "stale")
		require.NoError(t, err)
		assert.True(t, stale.IsActive)

		assert.ErrorIs(t, store.CreateSession(ctx, &models.Session{SessionID: "fresh", IsActive: true}), ErrDuplicate)
		assert.ErrorIs(t, store.TouchSession(ctx, "unknown", now), ErrNotFound)
	})
}

func TestSnapshots(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		_, err := store.LatestSnapshot(ctx)
		assert.ErrorIs(t, err, ErrNotFound)

		for i := 1; i <= 5; i++ {
			require.NoError(t, store.CreateSnapshot(ctx, &models.MetricSnapshot{
				ActiveUsers:    i,
				EC2Instances:   2,
				CPUUtilization: decimal.NewFromFloat(20.5),
				ResponseTime:   200,
				LoadPercentage: 10,
			}))
		}

		latest, err := store.LatestSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, latest.ActiveUsers)
		assert.Equal(t, models.ScalingHealthy, latest.ScalingStatus)
		assert.Equal(t, models.DefaultRegion, latest.Region)
		assert.True(t, decimal.NewFromFloat(20.5).Equal(latest.CPUUtilization))

		history, err := store.SnapshotHistory(ctx, 3)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, []int{3, 4, 5}, []int{history[0].ActiveUsers, history[1].ActiveUsers, history[2].ActiveUsers})

		all, err := store.SnapshotHistory(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		hash := func(p string) (string, error) { return "hashed:" + p, nil }

		require.NoError(t, Seed(ctx, store, hash))
		require.NoError(t, Seed(ctx, store, hash))

		products, err := store.ListProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, len(catalogue))

		demo, err := store.GetUserByEmail(ctx, DemoEmail)
		require.NoError(t, err)
		assert.Equal(t, "hashed:"+DemoPassword, demo.Password)
	})
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := OpenStore("mongo", "")
	assert.Error(t, err)

	_, err = OpenStore("postgres", "")
	assert.Error(t, err)

	store, err := OpenStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}
