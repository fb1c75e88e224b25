package handler

import (
	"database/sql" // SQL database interactions
	"errors"       // sentinel comparisons
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // token expiry formatting

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/perfume-store/internal/config"     // app configuration
	"github.com/iliyamo/perfume-store/internal/middleware" // current account extraction
	"github.com/iliyamo/perfume-store/internal/repository" // DB repositories
	"github.com/iliyamo/perfume-store/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
type authResp struct {
	User   accountPart `json:"user"`
	Access tokenPart   `json:"access"`
}

// Login verifies credentials and returns a signed access token. Inactive
// accounts cannot log in even with correct credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	account, err := h.Users.AccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if !utils.VerifyPassword(account.PasswordHash, account.PasswordSalt, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !account.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account is deactivated"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, account.Email, string(account.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User: accountPart{
			ID: account.ID, Email: account.Email, Username: account.Username,
			FullName: account.FullName, Role: string(account.Role), IsActive: account.IsActive,
		},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the authenticated account. RequireAuth guarantees one is in
// context.
func (h *AuthHandler) Me(c echo.Context) error {
	account := middleware.CurrentAccount(c)
	if account == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, accountPart{
		ID: account.ID, Email: account.Email, Username: account.Username,
		FullName: account.FullName, Role: string(account.Role), IsActive: account.IsActive,
	})
}
