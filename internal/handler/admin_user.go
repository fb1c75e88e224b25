package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/perfume-store/internal/middleware"
	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
	"github.com/iliyamo/perfume-store/internal/service"
)

// AdminUserHandler serves staff account administration. Routing guards
// every endpoint with RequireAuth + RequireAdmin; the finer escalation
// rules (who may assign which role, who may touch a superadmin) live in
// the accounts service.
type AdminUserHandler struct {
	Accounts *service.Accounts
	Users    *repository.UserRepo
}

func NewAdminUserHandler(accounts *service.Accounts, users *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Accounts: accounts, Users: users}
}

type createUserReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Notes    string `json:"notes"`
	Role     string `json:"role"`
}
type updateUserReq struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role"`
}
type changePasswordReq struct {
	Password string `json:"password"`
}

// Create registers a new staff account.
func (h *AdminUserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	account, err := h.Accounts.Create(ctx, middleware.CurrentAccount(c), service.CreateAccountInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Notes:    req.Notes,
		Role:     model.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toAccountResp(account))
}

// List returns a page of accounts.
func (h *AdminUserHandler) List(c echo.Context) error {
	page, limit, offset := pagination(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	accounts, err := h.Users.List(ctx, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list accounts failed"})
	}
	total, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count accounts failed"})
	}
	items := make([]echo.Map, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items, "total": total, "page": page, "limit": limit,
	})
}

// Get returns a single account.
func (h *AdminUserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	account, err := h.Users.AccountByID(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toAccountResp(account))
}

// Update applies partial edits to an account.
func (h *AdminUserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	in := service.UpdateAccountInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Notes:    req.Notes,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := model.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		in.Role = &role
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	account, err := h.Accounts.Update(ctx, middleware.CurrentAccount(c), id, in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toAccountResp(account))
}

// ChangePassword sets a new password on an account.
func (h *AdminUserHandler) ChangePassword(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Accounts.ChangePassword(ctx, middleware.CurrentAccount(c), id, req.Password); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toAccountResp(a *model.Account) echo.Map {
	return echo.Map{
		"id":        a.ID,
		"email":     a.Email,
		"username":  a.Username,
		"full_name": a.FullName,
		"notes":     a.Notes,
		"is_active": a.IsActive,
		"role":      string(a.Role),
	}
}
