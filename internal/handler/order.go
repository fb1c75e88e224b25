package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/middleware"
	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/queue"
	"github.com/iliyamo/perfume-store/internal/repository"
	"github.com/iliyamo/perfume-store/internal/service"
)

// OrderHandler serves customer-facing order endpoints: checkout, order
// history, lookup by number and cancellation.
type OrderHandler struct {
	Checkout  *service.Checkout
	Lifecycle *service.Lifecycle
	Orders    *repository.OrderRepo
}

func NewOrderHandler(checkout *service.Checkout, lifecycle *service.Lifecycle, orders *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Checkout: checkout, Lifecycle: lifecycle, Orders: orders}
}

type checkoutReq struct {
	CustomerName string `json:"customer_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Notes        string `json:"notes"`
}

type orderItemResp struct {
	ProductID uint64  `json:"product_id"`
	Quantity  uint32  `json:"quantity"`
	Price     float64 `json:"price"`
	Comment   string  `json:"comment,omitempty"`
}
type orderResp struct {
	ID           uint64          `json:"id"`
	OrderNumber  string          `json:"order_number"`
	Status       string          `json:"status"`
	TotalAmount  float64         `json:"total_amount"`
	CustomerName string          `json:"customer_name"`
	ContactPhone string          `json:"contact_phone"`
	ContactEmail string          `json:"contact_email"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []orderItemResp `json:"items,omitempty"`
	ItemCount    int             `json:"item_count"`
}

// Create runs checkout for the current session: snapshots the cart into an
// order, clears the cart and publishes an order.placed event. The event is
// best-effort; a broker outage never fails the checkout.
func (h *OrderHandler) Create(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	in := service.CheckoutInput{
		SessionID:    middleware.SessionID(c),
		CustomerName: req.CustomerName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Notes:        req.Notes,
	}
	if account := middleware.CurrentAccount(c); account != nil {
		in.AccountID = &account.ID
	}

	order, items, err := h.Checkout.CreateOrder(ctx, in)
	if err != nil {
		return serviceError(c, err)
	}

	go func(ev queue.OrderPlacedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue.PublishOrderPlaced(ctx, ev)
	}(queue.OrderPlacedEvent{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		SessionID:    order.SessionID,
		AccountID:    order.AccountID,
		TotalAmount:  order.TotalAmount,
		ItemCount:    len(items),
		CustomerName: order.CustomerName,
		PlacedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toOrderResp(order, items))
}

// List returns the caller's order history, newest first: account history
// when authenticated, otherwise the anonymous session's orders.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		orders []model.Order
		err    error
	)
	if account := middleware.CurrentAccount(c); account != nil {
		orders, err = h.Orders.OrdersByAccount(ctx, account.ID)
	} else {
		orders, err = h.Orders.OrdersBySession(ctx, middleware.SessionID(c))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load orders failed"})
	}
	return c.JSON(http.StatusOK, h.summarize(ctx, orders))
}

// Get resolves an order by number or id, scoped to the caller.
func (h *OrderHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, items, err := h.Lifecycle.Get(ctx, c.Param("id"), middleware.Identity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResp(order, items))
}

// Cancel moves one of the caller's orders to CANCELLED while it is still
// pending or processing, and publishes a status change event.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ident := middleware.Identity(c)
	order, prev, err := h.Lifecycle.Cancel(ctx, id, ident)
	if err != nil {
		return serviceError(c, err)
	}
	publishStatusChange(order, prev, changedBy(ident))
	return c.JSON(http.StatusOK, toOrderResp(order, nil))
}

// summarize builds list entries with item counts but without full items.
func (h *OrderHandler) summarize(ctx context.Context, orders []model.Order) []orderResp {
	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	counts, err := h.Orders.ItemCounts(ctx, ids)
	if err != nil {
		counts = map[uint64]int{}
	}
	out := make([]orderResp, 0, len(orders))
	for i := range orders {
		resp := toOrderResp(&orders[i], nil)
		resp.ItemCount = counts[orders[i].ID]
		out = append(out, resp)
	}
	return out
}

// publishStatusChange fires an order.status_changed event in the
// background.
func publishStatusChange(order *model.Order, oldStatus model.OrderStatus, by string) {
	ev := queue.OrderStatusChangedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   string(oldStatus),
		NewStatus:   string(order.Status),
		ChangedBy:   by,
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue.PublishOrderStatusChanged(ctx, ev)
	}()
}

// changedBy labels who drove a transition for the event stream.
func changedBy(ident model.Identity) string {
	if ident.Account != nil {
		return ident.Account.Email
	}
	return "customer"
}

func toOrderResp(o *model.Order, items []model.OrderItem) orderResp {
	resp := orderResp{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		CustomerName: o.CustomerName,
		ContactPhone: o.ContactPhone,
		ContactEmail: o.ContactEmail,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		ItemCount:    len(items),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, orderItemResp{
			ProductID: it.ProductID, Quantity: it.Quantity,
			Price: it.Price, Comment: it.Comment,
		})
	}
	return resp
}
