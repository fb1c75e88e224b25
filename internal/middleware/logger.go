package middleware

import (
	"log"  // request lines go to the standard logger
	"time" // request duration measurement

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
)

// RequestLogger logs one line per request: method, path, response status
// and duration. It runs after the handler so the status is final.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			log.Printf("%s %s -> %d (%s)",
				c.Request().Method, c.Request().URL.Path, status, time.Since(start))
			return err
		}
	}
}
