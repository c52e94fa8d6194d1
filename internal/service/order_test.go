package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func placeOrder(t *testing.T, svc *CheckoutService, userID uint) *models.Order {
	t.Helper()
	order, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)
	return order
}

func TestOrderStatus_ValidChain(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "chair", "50", 10)
	addLine(t, r, user.ID, product, 2)

	checkout := &CheckoutService{Repo: r}
	order := placeOrder(t, checkout, user.ID)

	svc := &OrderService{Repo: r}

	shipped, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)
	assert.Nil(t, shipped.DeliveredAt)

	delivered, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestOrderStatus_InvalidTransitions(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "chair", "50", 10)
	addLine(t, r, user.ID, product, 2)

	checkout := &CheckoutService{Repo: r}
	order := placeOrder(t, checkout, user.ID)

	svc := &OrderService{Repo: r}

	// skipping shipped is not allowed
	_, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	// delivered is terminal
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, order.ID, "garbage")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderStatus_CancelRestoresStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "chair", "50", 10)
	addLine(t, r, user.ID, product, 4)

	checkout := &CheckoutService{Repo: r}
	order := placeOrder(t, checkout, user.ID)
	require.Equal(t, uint(6), currentStock(t, r, product.ID))

	svc := &OrderService{Repo: r}
	cancelled, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	assert.Equal(t, uint(10), currentStock(t, r, product.ID))
}

func TestOrderStatus_UnknownOrder(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	_, err := svc.UpdateStatus(context.Background(), 12345, models.OrderStatusShipped)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrder_Ownership(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice", "0")
	bob := seedUser(t, r, "bob", "0")
	product := seedProduct(t, r, "chair", "50", 10)
	addLine(t, r, alice.ID, product, 1)

	checkout := &CheckoutService{Repo: r}
	order := placeOrder(t, checkout, alice.ID)

	svc := &OrderService{Repo: r}

	got, err := svc.GetOrder(ctx, order.ID, alice.ID, models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(ctx, order.ID, bob.ID, models.RoleClient)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOrder(ctx, order.ID, bob.ID, models.RoleAdmin)
	require.NoError(t, err)
}

func TestListOrders_NewestFirst(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "0")
	product := seedProduct(t, r, "chair", "50", 100)

	checkout := &CheckoutService{Repo: r}
	addLine(t, r, user.ID, product, 1)
	first := placeOrder(t, checkout, user.ID)
	addLine(t, r, user.ID, product, 2)
	second := placeOrder(t, checkout, user.ID)

	svc := &OrderService{Repo: r}
	total, orders, err := svc.ListOrders(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.ElementsMatch(t,
		[]uint{first.ID, second.ID},
		[]uint{orders[0].ID, orders[1].ID},
	)
	require.Len(t, orders[0].Items, 1)
}
