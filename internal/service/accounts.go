package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
	"github.com/iliyamo/perfume-store/internal/utils"
)

// AccountStore is the persistence surface for staff account management.
type AccountStore interface {
	AccountByID(ctx context.Context, id uint64) (*model.Account, error)
	Create(ctx context.Context, a *model.Account) error
	Update(ctx context.Context, a *model.Account) error
	UpdatePassword(ctx context.Context, id uint64, hash, salt string) error
}

// CreateAccountInput carries the fields for a new account. Role defaults
// to USER when empty.
type CreateAccountInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Notes    string
	Role     model.Role
}

// UpdateAccountInput carries optional edits; nil pointers leave the field
// unchanged.
type UpdateAccountInput struct {
	Email    *string
	Username *string
	FullName *string
	Notes    *string
	IsActive *bool
	Role     *model.Role
}

// Accounts implements account administration with the role escalation
// rules: only superadmins create or assign elevated roles, and accounts
// that currently hold SUPERADMIN can only be touched by superadmins.
type Accounts struct {
	Store AccountStore
}

// NewAccounts builds the account service over the given store.
func NewAccounts(store AccountStore) *Accounts {
	return &Accounts{Store: store}
}

// Create registers a new account on behalf of the acting administrator.
func (s *Accounts) Create(ctx context.Context, actor *model.Account, in CreateAccountInput) (*model.Account, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, string(in.Role))
	}
	if !CanAssignRole(actor.Role, role) {
		return nil, fmt.Errorf("%w: only a superadmin can assign %s", ErrForbidden, role)
	}

	hash, salt, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	account := &model.Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		FullName:     in.FullName,
		Notes:        in.Notes,
		IsActive:     true,
		Role:         role,
		CreatedBy:    &actor.ID,
	}
	if err := s.Store.Create(ctx, account); err != nil {
		return nil, mapDuplicate(err)
	}
	return account, nil
}

// Update applies partial edits to an existing account.
func (s *Accounts) Update(ctx context.Context, actor *model.Account, id uint64, in UpdateAccountInput) (*model.Account, error) {
	account, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModifyAccount(actor.Role, account.Role) {
		return nil, fmt.Errorf("%w: only a superadmin can modify a superadmin account", ErrForbidden)
	}
	if in.Role != nil && *in.Role != account.Role {
		if !in.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, string(*in.Role))
		}
		if !CanAssignRole(actor.Role, *in.Role) {
			return nil, fmt.Errorf("%w: only a superadmin can assign %s", ErrForbidden, *in.Role)
		}
		account.Role = *in.Role
	}
	if in.Email != nil {
		account.Email = strings.TrimSpace(strings.ToLower(*in.Email))
	}
	if in.Username != nil {
		account.Username = strings.TrimSpace(*in.Username)
	}
	if in.FullName != nil {
		account.FullName = *in.FullName
	}
	if in.Notes != nil {
		account.Notes = *in.Notes
	}
	if in.IsActive != nil {
		account.IsActive = *in.IsActive
	}
	if err := s.Store.Update(ctx, account); err != nil {
		return nil, mapDuplicate(err)
	}
	return account, nil
}

// ChangePassword rehashes and stores a new password for the account.
func (s *Accounts) ChangePassword(ctx context.Context, actor *model.Account, id uint64, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	account, err := s.byID(ctx, id)
	if err != nil {
		return err
	}
	if !CanModifyAccount(actor.Role, account.Role) {
		return fmt.Errorf("%w: only a superadmin can modify a superadmin account", ErrForbidden)
	}
	hash, salt, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Store.UpdatePassword(ctx, account.ID, hash, salt)
}

func (s *Accounts) byID(ctx context.Context, id uint64) (*model.Account, error) {
	account, err := s.Store.AccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", ErrNotFound, id)
		}
		return nil, err
	}
	return account, nil
}

// mapDuplicate converts repository uniqueness errors into the service
// conflict sentinel.
func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return fmt.Errorf("%w: email already registered", ErrConflict)
	case errors.Is(err, repository.ErrUsernameExists):
		return fmt.Errorf("%w: username already taken", ErrConflict)
	default:
		return err
	}
}
