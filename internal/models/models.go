package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

const (
	OrderStatusInProgress = "in_progress"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string          `gorm:"unique;not null"              json:"name"`
	Description string          `gorm:"not null"                     json:"description"`
	Unit        string          `gorm:"not null"                     json:"unit"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)"  json:"price"`
	Stock       uint            `json:"stock"`
}

type User struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Username     string          `gorm:"unique;not null"             json:"username"`
	PasswordHash string          `gorm:"not null"                    json:"-"`
	Role         string          `gorm:"not null;default:client"     json:"role"`
	Discount     decimal.Decimal `gorm:"not null;type:decimal(4,2)"  json:"discount"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `gorm:"not null"            json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// CartItem keeps the price the product had when it was added; checkout
// charges the snapshot, not the live price.
type CartItem struct {
	ID        uint            `gorm:"primaryKey"                             json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uint            `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Quantity  uint            `gorm:"default:1;check:quantity>0"             json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)"            json:"unit_price"`
}

type Order struct {
	ID          uint            `gorm:"primaryKey"                   json:"id"`
	UserID      uint            `gorm:"index;not null"               json:"user_id"`
	Status      string          `gorm:"not null"                     json:"status"`
	Total       decimal.Decimal `gorm:"not null;type:decimal(10,2)"  json:"total"`
	CreatedAt   time.Time       `gorm:"not null"                     json:"created_at"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"           json:"items"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                   json:"id"`
	OrderID   uint            `gorm:"index;not null"               json:"order_id"`
	ProductID uint            `gorm:"not null"                     json:"product_id"`
	Quantity  uint            `gorm:"check:quantity>0"             json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)"  json:"unit_price"`
}

// CanTransition reports whether an order may move between statuses:
// in_progress -> shipped -> delivered, or cancelled from any non-terminal
// state.
func CanTransition(from, to string) bool {
	switch to {
	case OrderStatusShipped:
		return from == OrderStatusInProgress
	case OrderStatusDelivered:
		return from == OrderStatusShipped
	case OrderStatusCancelled:
		return from == OrderStatusInProgress || from == OrderStatusShipped
	default:
		return false
	}
}
