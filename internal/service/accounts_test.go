package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/utils"
)

func adminAccount() *model.Account {
	return &model.Account{ID: 1, Email: "admin@store.ru", Role: model.RoleAdmin}
}

func superAccount() *model.Account {
	return &model.Account{ID: 2, Email: "root@store.ru", Role: model.RoleSuperadmin}
}

func TestCanAssignRole(t *testing.T) {
	cases := []struct {
		actor, target model.Role
		want          bool
	}{
		{model.RoleAdmin, model.RoleUser, true},
		{model.RoleAdmin, model.RoleAdmin, false},
		{model.RoleAdmin, model.RoleSuperadmin, false},
		{model.RoleSuperadmin, model.RoleUser, true},
		{model.RoleSuperadmin, model.RoleAdmin, true},
		{model.RoleSuperadmin, model.RoleSuperadmin, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanAssignRole(tc.actor, tc.target),
			"actor=%s target=%s", tc.actor, tc.target)
	}
}

func TestCanModifyAccount(t *testing.T) {
	assert.True(t, CanModifyAccount(model.RoleAdmin, model.RoleUser))
	assert.True(t, CanModifyAccount(model.RoleAdmin, model.RoleAdmin))
	assert.False(t, CanModifyAccount(model.RoleAdmin, model.RoleSuperadmin))
	assert.True(t, CanModifyAccount(model.RoleSuperadmin, model.RoleSuperadmin))
}

func TestAccountsCreate_DefaultsToUserRole(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)

	account, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email:    "New@Store.RU",
		Username: "newbie",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, account.Role)
	assert.Equal(t, "new@store.ru", account.Email) // normalized
	assert.True(t, account.IsActive)
	require.NotNil(t, account.CreatedBy)
	assert.Equal(t, uint64(1), *account.CreatedBy)
	// The password is stored derived, never in the clear.
	assert.NotEmpty(t, account.PasswordHash)
	assert.NotEmpty(t, account.PasswordSalt)
	assert.NotEqual(t, "secret123", account.PasswordHash)
	assert.True(t, utils.VerifyPassword(account.PasswordHash, account.PasswordSalt, "secret123"))
}

func TestAccountsCreate_AdminCannotAssignElevatedRoles(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)

	for _, role := range []model.Role{model.RoleAdmin, model.RoleSuperadmin} {
		_, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
			Email: "a@b.ru", Username: "a", Password: "x", Role: role,
		})
		assert.ErrorIs(t, err, ErrForbidden, "role %s", role)
	}
}

func TestAccountsCreate_SuperadminAssignsAnyRole(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)

	account, err := svc.Create(context.Background(), superAccount(), CreateAccountInput{
		Email: "ops@store.ru", Username: "ops", Password: "x", Role: model.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, account.Role)
}

func TestAccountsCreate_DuplicateEmail(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)
	_, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email: "dup@store.ru", Username: "one", Password: "x",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email: "dup@store.ru", Username: "two", Password: "x",
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestAccountsCreate_MissingFields(t *testing.T) {
	svc := NewAccounts(newFakeAccountStore())

	_, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email: "a@b.ru", Username: "", Password: "x",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestAccountsUpdate_SuperadminTargetLockedToSuperadmins(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)
	target, err := svc.Create(context.Background(), superAccount(), CreateAccountInput{
		Email: "root2@store.ru", Username: "root2", Password: "x", Role: model.RoleSuperadmin,
	})
	require.NoError(t, err)

	name := "changed"
	_, err = svc.Update(context.Background(), adminAccount(), target.ID, UpdateAccountInput{FullName: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), superAccount(), target.ID, UpdateAccountInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.FullName)
}

func TestAccountsUpdate_RoleEscalationGuard(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)
	target, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email: "u@store.ru", Username: "u", Password: "x",
	})
	require.NoError(t, err)

	elevated := model.RoleAdmin
	_, err = svc.Update(context.Background(), adminAccount(), target.ID, UpdateAccountInput{Role: &elevated})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), superAccount(), target.ID, UpdateAccountInput{Role: &elevated})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
}

func TestAccountsUpdate_Deactivate(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)
	target, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email: "u@store.ru", Username: "u", Password: "x",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), adminAccount(), target.ID, UpdateAccountInput{IsActive: &inactive})

	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestAccountsChangePassword(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAccounts(store)
	target, err := svc.Create(context.Background(), adminAccount(), CreateAccountInput{
		Email: "u@store.ru", Username: "u", Password: "old-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), adminAccount(), target.ID, "new-pass"))

	stored := store.accounts[target.ID]
	assert.False(t, utils.VerifyPassword(stored.PasswordHash, stored.PasswordSalt, "old-pass"))
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, stored.PasswordSalt, "new-pass"))
}

func TestAccountsUpdate_UnknownAccount(t *testing.T) {
	svc := NewAccounts(newFakeAccountStore())

	name := "x"
	_, err := svc.Update(context.Background(), adminAccount(), 99, UpdateAccountInput{FullName: &name})

	assert.ErrorIs(t, err, ErrNotFound)
}
