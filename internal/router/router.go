package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/perfume-store/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/perfume-store/internal/middleware" // import middleware for sessions, JWT authentication and roles
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler. This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login and profile endpoints. Login is open;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, accounts middleware.AccountLookup) {
	e.POST("/v1/auth/login", a.Login)

	me := e.Group("/v1")
	me.Use(middleware.RequireAuth(jwtSecret, accounts))
	me.GET("/me", a.Me)
}

// RegisterShop registers the storefront routes shared by guests and
// logged-in customers: catalog browsing, currency listing, the session
// cart and checkout. The session and optional-auth middleware are applied
// globally in main, so every handler here can rely on a session id being
// present and an account being attached when a valid token was sent.
func RegisterShop(e *echo.Echo, p *handler.ProductHandler, cart *handler.CartHandler, orders *handler.OrderHandler, cur *handler.CurrencyHandler) {
	// Catalog browsing. All support ?currency= for display conversion.
	e.GET("/v1/products", p.List)
	e.GET("/v1/products/search", p.Search)
	e.GET("/v1/products/filters", p.Filters)
	e.GET("/v1/products/:id", p.Get)

	// Active conversion rates.
	e.GET("/v1/currencies", cur.List)

	// Session cart. The cart follows the session id, never the account.
	e.GET("/v1/cart", cart.Get)
	e.POST("/v1/cart/items", cart.Add)
	e.PATCH("/v1/cart/items/:id/quantity", cart.UpdateQuantity)
	e.PATCH("/v1/cart/items/:id/comment", cart.UpdateComment)
	e.DELETE("/v1/cart/items/:id", cart.Remove)
	e.DELETE("/v1/cart", cart.Clear)

	// Checkout and the caller's order history.
	e.POST("/v1/orders", orders.Create)
	e.GET("/v1/orders", orders.List)
	e.GET("/v1/orders/:id", orders.Get)
	e.POST("/v1/orders/:id/cancel", orders.Cancel)
}
