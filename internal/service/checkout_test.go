package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	return repo.New(db)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, r *repo.GormRepo, username, discount string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         models.RoleClient,
		Discount:     dec(t, discount),
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, stock uint) *models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Description: name,
		Unit:        "pcs",
		Price:       dec(t, price),
		Stock:       stock,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	return &product
}

func addLine(t *testing.T, r *repo.GormRepo, userID uint, p *models.Product, qty uint) {
	t.Helper()
	cart := &CartService{Repo: r}
	_, err := cart.AddToCart(context.Background(), userID, p.ID, qty)
	require.NoError(t, err)
}

func currentStock(t *testing.T, r *repo.GormRepo, productID uint) uint {
	t.Helper()
	var p models.Product
	require.NoError(t, r.DB.First(&p, productID).Error)
	return p.Stock
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	user := seedUser(t, r, "alice", "0")

	svc := &CheckoutService{Repo: r}
	order, err := svc.Checkout(context.Background(), user.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}

func TestCheckout_Success(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "drill", "3000", 5)
	addLine(t, r, user.ID, product, 2)

	svc := &CheckoutService{Repo: r}
	order, err := svc.Checkout(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.NotZero(t, order.ID)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
	// 6000 over the threshold: 6000 * 0.95
	assert.True(t, dec(t, "5700.00").Equal(order.Total), "got %s", order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, uint(2), order.Items[0].Quantity)
	assert.True(t, dec(t, "3000").Equal(order.Items[0].UnitPrice))

	assert.Equal(t, uint(3), currentStock(t, r, product.ID))

	items, err := r.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart must be cleared on success")
}

func TestCheckout_LoyaltyUpgradeFiresOnce(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "drill", "3000", 10)

	svc := &CheckoutService{Repo: r}

	addLine(t, r, user.ID, product, 2)
	first, err := svc.Checkout(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, dec(t, "5700.00").Equal(first.Total))

	upgraded, err := r.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, dec(t, "0.02").Equal(upgraded.Discount), "got %s", upgraded.Discount)

	// second qualifying order must not change the discount again
	addLine(t, r, user.ID, product, 2)
	_, err = svc.Checkout(ctx, user.ID)
	require.NoError(t, err)

	again, err := r.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, dec(t, "0.02").Equal(again.Discount), "got %s", again.Discount)
}

func TestCheckout_NoUpgradeBelowThreshold(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "mug", "2500", 10)
	addLine(t, r, user.ID, product, 2)

	svc := &CheckoutService{Repo: r}
	order, err := svc.Checkout(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, dec(t, "5000.00").Equal(order.Total))

	after, err := r.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, after.Discount.IsZero(), "exactly 5000 must not qualify, got %s", after.Discount)
}

func TestCheckout_InsufficientStockAbortsEverything(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	plenty := seedProduct(t, r, "screws", "5", 100)
	scarce := seedProduct(t, r, "hammer", "40", 1)
	addLine(t, r, user.ID, plenty, 10)
	addLine(t, r, user.ID, scarce, 3)

	svc := &CheckoutService{Repo: r}
	order, err := svc.Checkout(ctx, user.ID)
	require.Error(t, err)
	assert.Nil(t, order)

	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, scarce.ID, short.ProductID)
	assert.Equal(t, uint(3), short.Requested)
	assert.Equal(t, uint(1), short.Available)

	var orders, orderItems int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Zero(t, orders, "no order row may survive")
	assert.Zero(t, orderItems, "no order_items rows may survive")

	assert.Equal(t, uint(100), currentStock(t, r, plenty.ID), "decrement of the first line must roll back")
	assert.Equal(t, uint(1), currentStock(t, r, scarce.ID))

	items, err := r.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2, "cart must stay intact on failure")
}

func TestCheckout_LastUnitGoesToExactlyOneBuyer(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice", "0")
	bob := seedUser(t, r, "bob", "0")
	product := seedProduct(t, r, "last-one", "99.99", 1)
	addLine(t, r, alice.ID, product, 1)
	addLine(t, r, bob.ID, product, 1)

	svc := &CheckoutService{Repo: r}

	first, err := svc.Checkout(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.Checkout(ctx, bob.ID)
	require.Error(t, err)
	assert.Nil(t, second)

	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, product.ID, short.ProductID)
	assert.Equal(t, uint(1), short.Requested)
	assert.Equal(t, uint(0), short.Available)

	assert.Equal(t, uint(0), currentStock(t, r, product.ID))
}

func TestCheckout_ChargesPriceSnapshotNotLivePrice(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "lamp", "100", 10)
	addLine(t, r, user.ID, product, 1)

	require.NoError(t, r.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", dec(t, "200")).Error)

	svc := &CheckoutService{Repo: r}
	order, err := svc.Checkout(ctx, user.ID)
	require.NoError(t, err)

	assert.True(t, dec(t, "100.00").Equal(order.Total), "got %s", order.Total)
	require.Len(t, order.Items, 1)
	assert.True(t, dec(t, "100").Equal(order.Items[0].UnitPrice))
}

func TestCartTotal_MatchesCheckoutWithoutSideEffects(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0.02")
	product := seedProduct(t, r, "desk", "1000", 10)
	addLine(t, r, user.ID, product, 6)

	cart := &CartService{Repo: r}
	lines, discount, total, err := cart.CartTotal(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lines)
	assert.True(t, dec(t, "0.02").Equal(discount))
	// 6000 * 0.98 = 5880, over threshold: * 0.95
	assert.True(t, dec(t, "5586.00").Equal(total), "got %s", total)

	assert.Equal(t, uint(10), currentStock(t, r, product.ID), "projection must not touch stock")

	svc := &CheckoutService{Repo: r}
	order, err := svc.Checkout(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(order.Total))
}
