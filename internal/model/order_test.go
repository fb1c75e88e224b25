package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Predicates(t *testing.T) {
	cases := []struct {
		status      OrderStatus
		terminal    bool
		cancellable bool
	}{
		{StatusPending, false, true},
		{StatusProcessing, false, true},
		{StatusShipped, false, false},
		{StatusDelivered, true, false},
		{StatusCancelled, true, false},
	}
	for _, tc := range cases {
		assert.True(t, tc.status.Valid(), "%s", tc.status)
		assert.Equal(t, tc.terminal, tc.status.IsTerminal(), "%s terminal", tc.status)
		assert.Equal(t, tc.cancellable, tc.status.Cancellable(), "%s cancellable", tc.status)
	}
	assert.False(t, OrderStatus("REFUNDED").Valid())
}

func TestRole_Predicates(t *testing.T) {
	assert.False(t, RoleUser.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperadmin.IsAdmin())

	assert.False(t, RoleAdmin.IsSuperadmin())
	assert.True(t, RoleSuperadmin.IsSuperadmin())

	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("OWNER").Valid())
}
