package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/middleware"
	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
	"github.com/iliyamo/perfume-store/internal/service"
)

// CartHandler serves the session-scoped cart. The caller never supplies a
// session id in the body; it always comes from the session middleware.
type CartHandler struct {
	Cart     *service.Cart
	Products *repository.ProductRepo
	Pricer   *service.Pricer
}

func NewCartHandler(cart *service.Cart, products *repository.ProductRepo, pricer *service.Pricer) *CartHandler {
	return &CartHandler{Cart: cart, Products: products, Pricer: pricer}
}

type cartAddReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
	Comment   string `json:"comment"`
}
type cartQuantityReq struct {
	Quantity uint32 `json:"quantity"`
}
type cartCommentReq struct {
	Comment string `json:"comment"`
}

type cartLineResp struct {
	ID          uint64  `json:"id"`
	ProductID   uint64  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    uint32  `json:"quantity"`
	Comment     string  `json:"comment,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	Unavailable bool    `json:"unavailable,omitempty"`
}
type cartResp struct {
	Items    []cartLineResp `json:"items"`
	Total    float64        `json:"total"`
	Currency string         `json:"currency"`
}

// Get returns the cart with per-line and overall totals in the requested
// currency. Lines whose product has since been deleted are flagged as
// unavailable and priced at zero.
func (h *CartHandler) Get(c echo.Context) error {
	sid := middleware.SessionID(c)
	currency := displayCurrency(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Cart.List(ctx, sid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}

	resp := cartResp{Items: []cartLineResp{}, Currency: currency}
	for _, item := range items {
		line := cartLineResp{
			ID: item.ID, ProductID: item.ProductID,
			Quantity: item.Quantity, Comment: item.Comment,
		}
		product, err := h.Products.ProductByID(ctx, item.ProductID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			line.Unavailable = true
		case err != nil:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
		default:
			price, err := h.Pricer.Convert(ctx, product.PriceRUB, currency)
			if err != nil {
				return serviceError(c, err)
			}
			line.ProductName = product.Name
			line.UnitPrice = price
			line.LineTotal = price * float64(item.Quantity)
			resp.Total += line.LineTotal
		}
		resp.Items = append(resp.Items, line)
	}
	return c.JSON(http.StatusOK, resp)
}

// Add puts a product into the cart, merging with an existing line for the
// same product.
func (h *CartHandler) Add(c echo.Context) error {
	var req cartAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Cart.Add(ctx, middleware.SessionID(c), req.ProductID, req.Quantity, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toCartItemResp(item))
}

// UpdateQuantity sets a line's quantity; zero removes the line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	var req cartQuantityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Cart.UpdateQuantity(ctx, middleware.SessionID(c), id, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}
	if item == nil {
		return c.NoContent(http.StatusNoContent) // quantity 0 removed the line
	}
	return c.JSON(http.StatusOK, toCartItemResp(item))
}

// UpdateComment replaces a line's comment.
func (h *CartHandler) UpdateComment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	var req cartCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Cart.UpdateComment(ctx, middleware.SessionID(c), id, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toCartItemResp(item))
}

// Remove deletes a single line.
func (h *CartHandler) Remove(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cart.Remove(ctx, middleware.SessionID(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear empties the whole cart.
func (h *CartHandler) Clear(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cart.Clear(ctx, middleware.SessionID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func toCartItemResp(item *model.CartItem) echo.Map {
	return echo.Map{
		"id":         item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"comment":    item.Comment,
	}
}
