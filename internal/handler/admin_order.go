package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/middleware"
	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
	"github.com/iliyamo/perfume-store/internal/service"
)

// AdminOrderHandler serves the back-office order views: unscoped listings
// with status filtering, status transitions and hard deletes. Routing
// guards every endpoint with RequireAuth + RequireAdmin.
type AdminOrderHandler struct {
	Lifecycle *service.Lifecycle
	Orders    *repository.OrderRepo
}

func NewAdminOrderHandler(lifecycle *service.Lifecycle, orders *repository.OrderRepo) *AdminOrderHandler {
	return &AdminOrderHandler{Lifecycle: lifecycle, Orders: orders}
}

type setStatusReq struct {
	Status string `json:"status"`
}

// List returns a page of all orders, newest first, optionally filtered by
// ?status=.
func (h *AdminOrderHandler) List(c echo.Context) error {
	page, limit, offset := pagination(c)

	var status *model.OrderStatus
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		s := model.OrderStatus(raw)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
		}
		status = &s
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.OrdersAll(ctx, status, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	total, err := h.Orders.CountAll(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count orders failed"})
	}

	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	counts, err := h.Orders.ItemCounts(ctx, ids)
	if err != nil {
		counts = map[uint64]int{}
	}
	items := make([]orderResp, 0, len(orders))
	for i := range orders {
		resp := toOrderResp(&orders[i], nil)
		resp.ItemCount = counts[orders[i].ID]
		items = append(items, resp)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items, "total": total, "page": page, "limit": limit,
	})
}

// Get returns any order with its items, unscoped.
func (h *AdminOrderHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, items, err := h.Lifecycle.Get(ctx, c.Param("id"), middleware.Identity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResp(order, items))
}

// SetStatus moves an order to the requested status and publishes a status
// change event. Terminal orders are frozen.
func (h *AdminOrderHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req setStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))

	ctx, cancel := reqCtx(c)
	defer cancel()

	ident := middleware.Identity(c)
	order, prev, err := h.Lifecycle.SetStatus(ctx, id, status, ident)
	if err != nil {
		return serviceError(c, err)
	}
	publishStatusChange(order, prev, changedBy(ident))
	return c.JSON(http.StatusOK, toOrderResp(order, nil))
}

// Delete removes an order and its items permanently.
func (h *AdminOrderHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Lifecycle.Delete(ctx, id, middleware.Identity(c)); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
