package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Unit        *string          `json:"unit"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type DeleteOneFromCartResponse struct {
	ProductID uint `json:"product_id"`
	Deleted   bool `json:"deleted"`
	Quantity  uint `json:"quantity"`
}

type CartTotalResponse struct {
	Lines    int             `json:"lines"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type OrderResponse struct {
	OrderID     uint               `json:"order_id"`
	Status      string             `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	CreatedAt   time.Time          `json:"created_at"`
	DeliveredAt *time.Time         `json:"delivered_at,omitempty"`
	Items       []models.OrderItem `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		OrderID:     o.ID,
		Status:      o.Status,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		DeliveredAt: o.DeliveredAt,
		Items:       o.Items,
	}
}
