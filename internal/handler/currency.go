package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/cache"
	"github.com/iliyamo/perfume-store/internal/middleware"
	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
)

// opRates caches the public rate listing.
const opRates = "rates.list"

// CurrencyHandler serves conversion rates: a public listing and an
// admin-only endpoint that stores a new rate, retiring the old one.
type CurrencyHandler struct {
	Rates *repository.RateRepo
	Cache *cache.Cache
}

func NewCurrencyHandler(rates *repository.RateRepo, c *cache.Cache) *CurrencyHandler {
	return &CurrencyHandler{Rates: rates, Cache: c}
}

type setRateReq struct {
	CurrencyCode string  `json:"currency_code"`
	RateToRUB    float64 `json:"rate_to_rub"`
}

type rateResp struct {
	CurrencyCode string  `json:"currency_code"`
	RateToRUB    float64 `json:"rate_to_rub"`
}

// List returns every active rate. The canonical currency is implicit and
// never stored.
func (h *CurrencyHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	key := h.Cache.Key(opRates)
	var cached []rateResp
	if h.Cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	rates, err := h.Rates.ActiveRates(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rates failed"})
	}
	resp := make([]rateResp, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, rateResp{CurrencyCode: r.CurrencyCode, RateToRUB: r.RateToRUB})
	}
	h.Cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// Set stores a new active rate for a currency. The previous rate is kept
// but deactivated. Catalog caches are dropped because cached responses
// embed converted prices.
func (h *CurrencyHandler) Set(c echo.Context) error {
	var req setRateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if code == "" || code == model.CanonicalCurrency {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency_code must be a non-canonical code"})
	}
	if req.RateToRUB <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate_to_rub must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	account := middleware.CurrentAccount(c)
	rate, err := h.Rates.Store(ctx, code, req.RateToRUB, account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store rate failed"})
	}
	h.Cache.Invalidate(ctx, opRates)
	h.Cache.Invalidate(ctx, productCacheOps...)
	return c.JSON(http.StatusCreated, rateResp{CurrencyCode: rate.CurrencyCode, RateToRUB: rate.RateToRUB})
}
