package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartHandler struct {
	Svc      *service.CartService
	Checkout *service.CheckoutService
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, topic string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := authmw.GetID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := authmw.GetID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_to_cart_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("add_to_cart_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		default:
			l.Error("add_to_cart_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.publish(c, "cart_events", map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": item.ProductID,
		"quantity":  item.Quantity,
	})

	l.Info("add_to_cart_success", "user_id", userID, "product_id", item.ProductID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_one")

	userID, err := authmw.GetID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		l.Warn("delete_one_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	deleted, item, err := h.Svc.DeleteOneFromCart(ctx, userID, uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_one_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("delete_one_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, "cart_events", map[string]any{
		"type":      "cart_item_decremented",
		"userID":    userID,
		"productID": productID,
		"deleted":   deleted,
	})

	resp := transport.DeleteOneFromCartResponse{ProductID: uint(productID), Deleted: deleted}
	if item != nil && !deleted {
		resp.Quantity = item.Quantity
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) DeleteLineFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_line")

	userID, err := authmw.GetID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		l.Warn("delete_line_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteLineFromCart(ctx, userID, uint(productID)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_line_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("delete_line_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, "cart_events", map[string]any{
		"type":      "cart_line_deleted",
		"userID":    userID,
		"productID": productID,
	})

	return c.JSON(http.StatusOK, echo.Map{"deleted_item": productID})
}

func (h *CartHandler) CartTotal(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.total")

	userID, err := authmw.GetID(c)
	if err != nil {
		return err
	}

	lines, discount, total, err := h.Svc.CartTotal(ctx, userID)
	if err != nil {
		l.Error("cart_total_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, transport.CartTotalResponse{
		Lines:    lines,
		Discount: discount,
		Total:    total,
	})
}

// MakeOrder runs checkout and maps each failure kind to its own status so
// the client can show a specific message.
func (h *CartHandler) MakeOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.make_order")

	userID, err := authmw.GetID(c)
	if err != nil {
		return err
	}

	order, err := h.Checkout.Checkout(ctx, userID)
	if err != nil {
		var short *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			l.Warn("make_order_error", "status", 400, "reason", "empty cart")
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		case errors.As(err, &short):
			l.Warn("make_order_error", "status", 409, "product_id", short.ProductID,
				"requested", short.Requested, "available", short.Available)
			return c.JSON(http.StatusConflict, echo.Map{
				"error":      "insufficient_stock",
				"product_id": short.ProductID,
				"requested":  short.Requested,
				"available":  short.Available,
			})
		case errors.Is(err, service.ErrNotFound):
			l.Warn("make_order_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		default:
			l.Error("make_order_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.publish(c, "order_events", map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.Total,
	})

	l.Info("make_order_success", "user_id", userID, "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(order))
}
