package middleware

import (
	"context"  // lookup timeout
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming
	"time"     // lookup timeout duration

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/utils"
)

// AccountLookup resolves the account behind a verified token's email
// claim. It is implemented by repository.UserRepo.
type AccountLookup interface {
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)
}

// accountContextKey is where the authenticated account is stored on the
// Echo context. Handlers read it via CurrentAccount.
const accountContextKey = "account"

// OptionalAuth returns an Echo middleware that attaches the account behind
// a Bearer token when one is present and valid. A missing, malformed or
// expired token is not an error: the request simply proceeds anonymously,
// which is what lets a logged-in user and a guest share the same cart and
// checkout routes.
func OptionalAuth(secret string, accounts AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if account := resolveAccount(c, secret, accounts); account != nil {
				c.Set(accountContextKey, account)
			}
			return next(c)
		}
	}
}

// RequireAuth returns an Echo middleware that rejects requests without a
// valid Bearer token with 401. On success the account is stored in context
// exactly like OptionalAuth does.
func RequireAuth(secret string, accounts AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := resolveAccount(c, secret, accounts)
			if account == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid bearer token"})
			}
			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// CurrentAccount returns the authenticated account stored by OptionalAuth
// or RequireAuth, or nil for anonymous requests.
func CurrentAccount(c echo.Context) *model.Account {
	account, _ := c.Get(accountContextKey).(*model.Account)
	return account
}

// Identity bundles the resolved session id and optional account into the
// caller identity the services operate on.
func Identity(c echo.Context) model.Identity {
	return model.Identity{SessionID: SessionID(c), Account: CurrentAccount(c)}
}

// resolveAccount verifies the Bearer token and loads the account it names.
// Any failure along the way (bad token, unknown email, deactivated
// account) yields nil.
func resolveAccount(c echo.Context, secret string, accounts AccountLookup) *model.Account {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	email, _, err := utils.ParseAccessToken(secret, raw)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	account, err := accounts.AccountByEmail(ctx, email)
	if err != nil || !account.IsActive {
		return nil
	}
	return account
}
