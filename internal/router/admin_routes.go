package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/handler"
	"github.com/iliyamo/perfume-store/internal/middleware"
)

// RegisterAdmin registers the back-office routes under /v1/admin. Every
// route requires a valid access token and at least the ADMIN role; the
// accounts service enforces the finer superadmin-only rules itself (role
// assignment and edits to superadmin accounts).
func RegisterAdmin(e *echo.Echo, jwtSecret string, accounts middleware.AccountLookup,
	p *handler.ProductHandler, o *handler.AdminOrderHandler, u *handler.AdminUserHandler, cur *handler.CurrencyHandler) {

	g := e.Group("/v1/admin")
	g.Use(middleware.RequireAuth(jwtSecret, accounts))
	g.Use(middleware.RequireAdmin())

	// Catalog writes.
	g.POST("/products", p.Create)
	g.PUT("/products/:id", p.Update)
	g.DELETE("/products/:id", p.Delete)

	// Order administration.
	g.GET("/orders", o.List)
	g.GET("/orders/:id", o.Get)
	g.PATCH("/orders/:id/status", o.SetStatus)
	g.DELETE("/orders/:id", o.Delete)

	// Staff accounts.
	g.POST("/users", u.Create)
	g.GET("/users", u.List)
	g.GET("/users/:id", u.Get)
	g.PATCH("/users/:id", u.Update)
	g.POST("/users/:id/password", u.ChangePassword)

	// Currency rates.
	g.POST("/currencies", cur.Set)
}
