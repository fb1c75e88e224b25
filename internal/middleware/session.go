package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // cookie construction and SameSite constants
	"time"     // cookie lifetime

	"github.com/google/uuid"      // random session identifiers
	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
)

// Sources a session identifier can come from, in precedence order: the
// X-User-Session header wins over the session cookie, and when neither is
// present a fresh identifier is minted and set as a cookie on the response.
const (
	// SessionHeader is checked first so API clients without cookie jars
	// can pin their session explicitly.
	SessionHeader = "X-User-Session"
	// SessionCookie carries the session id for browser clients.
	SessionCookie = "session"
	// sessionContextKey is where the resolved id is stored on the Echo
	// context for handlers to read via SessionID.
	sessionContextKey = "session_id"
	// sessionTTL is the cookie lifetime for minted sessions.
	sessionTTL = 30 * 24 * time.Hour
)

// Session returns an Echo middleware that resolves the caller's session
// identifier. Every request passing through it is guaranteed to have a
// session id in context, so carts work for anonymous visitors.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Header takes precedence over the cookie.
			sid := c.Request().Header.Get(SessionHeader)
			if sid == "" {
				if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
					sid = cookie.Value
				}
			}
			// No session anywhere: mint one and hand it back as a
			// cookie so the browser carries it from now on.
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(sessionTTL / time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(sessionContextKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the session identifier resolved by Session. It is
// empty only on routes not wrapped by the middleware.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionContextKey).(string)
	return sid
}
