package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	total, orders, err := s.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return 0, nil, &PersistenceError{Cause: err}
	}
	return total, orders, nil
}

// GetOrder returns the order to its owner, or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint, role string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if order.UserID != userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return order, nil
}

// UpdateStatus applies one admin-triggered transition of the order state
// machine. Cancelling puts every reserved unit back on the shelf in the same
// transaction as the status change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, to string) (*models.Order, error) {
	var updated *models.Order

	txErr := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		if err != nil {
			return err
		}

		if !models.CanTransition(order.Status, to) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrValidation, order.Status, to)
		}

		order.Status = to
		switch to {
		case models.OrderStatusDelivered:
			now := time.Now().UTC()
			order.DeliveredAt = &now
		case models.OrderStatusCancelled:
			for _, it := range order.Items {
				if err := tx.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		if err := tx.UpdateOrderStatus(ctx, order); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrNotFound) || errors.Is(txErr, ErrValidation) {
			return nil, txErr
		}
		return nil, &PersistenceError{Cause: txErr}
	}

	return updated, nil
}
