package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/cache"
	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
	"github.com/iliyamo/perfume-store/internal/service"
)

// Cache operation names for catalog reads. Writers invalidate all of them
// at once since any catalog change can affect any of these views.
const (
	opProductList    = "products.list"
	opProductSearch  = "products.search"
	opProductGet     = "products.get"
	opProductFilters = "products.filters"
)

var productCacheOps = []string{opProductList, opProductSearch, opProductGet, opProductFilters}

// ProductHandler serves the catalog: public browsing with display-currency
// conversion, and admin-only writes.
type ProductHandler struct {
	Products *repository.ProductRepo
	Pricer   *service.Pricer
	Cache    *cache.Cache
}

func NewProductHandler(p *repository.ProductRepo, pricer *service.Pricer, c *cache.Cache) *ProductHandler {
	return &ProductHandler{Products: p, Pricer: pricer, Cache: c}
}

type productResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Brand       string  `json:"brand,omitempty"`
	Volume      string  `json:"volume,omitempty"`
	Description string  `json:"description,omitempty"`
}

type productListResp struct {
	Items []productResp `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type productReq struct {
	Name        string  `json:"name"`
	PriceRUB    float64 `json:"price_rub"`
	Brand       string  `json:"brand"`
	Volume      string  `json:"volume"`
	Description string  `json:"description"`
}

// List returns a catalog page with prices in the requested currency.
func (h *ProductHandler) List(c echo.Context) error {
	page, limit, offset := pagination(c)
	currency := displayCurrency(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	key := h.Cache.Key(opProductList, strconv.Itoa(page), strconv.Itoa(limit), currency)
	var cached productListResp
	if h.Cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	products, err := h.Products.List(ctx, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list products failed"})
	}
	total, err := h.Products.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count products failed"})
	}
	items, err := h.convert(ctx, products, currency)
	if err != nil {
		return serviceError(c, err)
	}
	resp := productListResp{Items: items, Total: total, Page: page, Limit: limit}
	h.Cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// Search filters the catalog by free-text query, brand and price range.
func (h *ProductHandler) Search(c echo.Context) error {
	page, limit, offset := pagination(c)
	currency := displayCurrency(c)
	minPrice, _ := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.QueryParam("max_price"), 64)
	params := repository.SearchParams{
		Query:    c.QueryParam("q"),
		Brand:    c.QueryParam("brand"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
		Desc:     c.QueryParam("order") == "desc",
		Offset:   offset,
		Limit:    limit,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	key := h.Cache.Key(opProductSearch, params.Query, params.Brand,
		c.QueryParam("min_price"), c.QueryParam("max_price"),
		params.Sort, c.QueryParam("order"),
		strconv.Itoa(page), strconv.Itoa(limit), currency)
	var cached productListResp
	if h.Cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	products, err := h.Products.Search(ctx, params)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	total, err := h.Products.SearchCount(ctx, params)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search count failed"})
	}
	items, err := h.convert(ctx, products, currency)
	if err != nil {
		return serviceError(c, err)
	}
	resp := productListResp{Items: items, Total: total, Page: page, Limit: limit}
	h.Cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// Filters returns the facets the storefront builds its search UI from:
// available brands and the catalog price range.
func (h *ProductHandler) Filters(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	key := h.Cache.Key(opProductFilters)
	var cached echo.Map
	if h.Cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	brands, err := h.Products.Brands(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load brands failed"})
	}
	minPrice, maxPrice, err := h.Products.PriceRange(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load price range failed"})
	}
	resp := echo.Map{"brands": brands, "min_price": minPrice, "max_price": maxPrice}
	h.Cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single product with its price converted.
func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	currency := displayCurrency(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	key := h.Cache.Key(opProductGet, strconv.FormatUint(id, 10), currency)
	var cached productResp
	if h.Cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	product, err := h.Products.ProductByID(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	price, err := h.Pricer.Convert(ctx, product.PriceRUB, currency)
	if err != nil {
		return serviceError(c, err)
	}
	resp := toProductResp(product, price, currency)
	h.Cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// Create adds a catalog entry. Admin only (enforced by routing).
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.PriceRUB <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive price_rub required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	product := &model.Product{
		Name: req.Name, PriceRUB: req.PriceRUB, Brand: req.Brand,
		Volume: req.Volume, Description: req.Description,
	}
	if err := h.Products.Create(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	h.Cache.Invalidate(ctx, productCacheOps...)
	return c.JSON(http.StatusCreated, toProductResp(product, product.PriceRUB, model.CanonicalCurrency))
}

// Update edits a catalog entry. Admin only.
func (h *ProductHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.PriceRUB <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive price_rub required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	product, err := h.Products.ProductByID(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	product.Name = req.Name
	product.PriceRUB = req.PriceRUB
	product.Brand = req.Brand
	product.Volume = req.Volume
	product.Description = req.Description
	if err := h.Products.Update(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	h.Cache.Invalidate(ctx, productCacheOps...)
	return c.JSON(http.StatusOK, toProductResp(product, product.PriceRUB, model.CanonicalCurrency))
}

// Delete removes a catalog entry. Cart rows referencing it survive and are
// skipped at checkout. Admin only.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		return serviceError(c, err)
	}
	h.Cache.Invalidate(ctx, productCacheOps...)
	return c.NoContent(http.StatusNoContent)
}

// convert maps products to responses in the requested currency.
func (h *ProductHandler) convert(ctx context.Context, products []model.Product, currency string) ([]productResp, error) {
	items := make([]productResp, 0, len(products))
	for i := range products {
		price, err := h.Pricer.Convert(ctx, products[i].PriceRUB, currency)
		if err != nil {
			return nil, err
		}
		items = append(items, toProductResp(&products[i], price, currency))
	}
	return items, nil
}

func toProductResp(p *model.Product, price float64, currency string) productResp {
	return productResp{
		ID: p.ID, Name: p.Name, Price: price, Currency: currency,
		Brand: p.Brand, Volume: p.Volume, Description: p.Description,
	}
}
