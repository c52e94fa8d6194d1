package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

// AddToCart snapshots the product's current price into the line. Later price
// changes do not touch lines already in the cart.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, &PersistenceError{Cause: err}
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	return &item, nil
}

func (s *CartService) DeleteOneFromCart(ctx context.Context, userID, productID uint) (bool, *models.CartItem, error) {
	if productID == 0 {
		return false, nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	deleted, item, err := s.Repo.DeleteOneFromCart(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, fmt.Errorf("%w: cart line for product %d", ErrNotFound, productID)
	}
	if err != nil {
		return false, nil, &PersistenceError{Cause: err}
	}
	return deleted, item, nil
}

func (s *CartService) DeleteLineFromCart(ctx context.Context, userID, productID uint) error {
	err := s.Repo.DeleteLineFromCart(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart line for product %d", ErrNotFound, productID)
	}
	if err != nil {
		return &PersistenceError{Cause: err}
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return &PersistenceError{Cause: err}
	}
	return nil
}

// CartTotal is the read-only projection of what checkout would charge right
// now: the stored line snapshots priced with the caller's current discount.
func (s *CartService) CartTotal(ctx context.Context, userID uint) (int, decimal.Decimal, decimal.Decimal, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, &PersistenceError{Cause: err}
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, &PersistenceError{Cause: err}
	}

	total, err := pricing.Total(cartLines(items), user.Discount)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, err
	}
	return len(items), user.Discount, total, nil
}

func cartLines(items []models.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return lines
}
