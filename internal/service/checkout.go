package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CheckoutService struct {
	Repo *repo.GormRepo
}

// Checkout turns the user's cart into an order. Stock validation, the
// conditional stock decrements, the order insert and the cart clear run in
// one transaction: any failure leaves no order rows and no stock mutation
// behind. The loyalty upgrade runs after commit and is allowed to lag.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}

	total, err := pricing.Total(cartLines(items), user.Discount)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:    userID,
		Status:    models.OrderStatusInProgress,
		Total:     total,
		CreatedAt: time.Now().UTC(),
		Items:     orderItems(items),
	}

	txErr := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		for _, it := range items {
			ok, err := tx.DecrementStockIfAvailable(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return s.stockShortfall(ctx, tx, it)
			}
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		return tx.ClearCart(ctx, userID)
	})
	if txErr != nil {
		var short *InsufficientStockError
		if errors.As(txErr, &short) || errors.Is(txErr, ErrNotFound) {
			return nil, txErr
		}
		return nil, &PersistenceError{Cause: txErr}
	}

	s.maybeUpgradeDiscount(ctx, user, order)

	return order, nil
}

// stockShortfall builds the typed failure for a line the conditional
// decrement rejected. The re-read runs inside the doomed transaction purely
// to report how much was actually on the shelf.
func (s *CheckoutService) stockShortfall(ctx context.Context, tx *repo.GormRepo, it models.CartItem) error {
	product, err := tx.GetProduct(ctx, it.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
		}
		return err
	}
	return &InsufficientStockError{
		ProductID: it.ProductID,
		Requested: it.Quantity,
		Available: product.Stock,
	}
}

// maybeUpgradeDiscount applies the one-time loyalty upgrade: a first
// qualifying order for a customer still at zero discount sets 2%. The guard
// lives in the conditional update, so a concurrent order cannot apply it
// twice. A failure here leaves the order valid and is only logged.
func (s *CheckoutService) maybeUpgradeDiscount(ctx context.Context, user *models.User, order *models.Order) {
	if !user.Discount.IsZero() || !pricing.QualifiesForUpgrade(order.Total) {
		return
	}

	l := logging.FromContext(ctx)
	upgraded, err := s.Repo.UpgradeDiscountIfZero(ctx, user.ID, pricing.UpgradeRate)
	if err != nil {
		l.Error("loyalty_upgrade_failed", "user_id", user.ID, "order_id", order.ID, "error", err)
		return
	}
	if upgraded {
		l.Info("loyalty_upgrade_applied", "user_id", user.ID, "order_id", order.ID, "rate", pricing.UpgradeRate)
	}
}

func orderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return out
}
