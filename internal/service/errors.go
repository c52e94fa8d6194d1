package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrForbidden  = errors.New("forbidden")  // 403
	ErrEmptyCart  = errors.New("empty cart") // 422
)

// InsufficientStockError aborts a checkout when a line asks for more than
// the shelf holds. The whole checkout rolls back; no line is partially
// reserved.
type InsufficientStockError struct {
	ProductID uint
	Requested uint
	Available uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// PersistenceError wraps a storage fault. The core never retries; the caller
// decides.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
