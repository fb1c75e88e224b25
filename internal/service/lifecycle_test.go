package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/perfume-store/internal/model"
)

func seedOrder(store *fakeOrderStore, session string, accountID *uint64, status model.OrderStatus) *model.Order {
	order := &model.Order{
		OrderNumber: "123456",
		SessionID:   session,
		AccountID:   accountID,
		Status:      status,
		TotalAmount: 100,
	}
	_ = store.CreateWithItems(context.Background(), order, []model.OrderItem{
		{ProductID: 1, Quantity: 1, Price: 100},
	})
	return order
}

func anon(session string) model.Identity {
	return model.Identity{SessionID: session}
}

func admin() model.Identity {
	return model.Identity{Account: &model.Account{ID: 9, Email: "admin@store.ru", Role: model.RoleAdmin}}
}

func customer(id uint64) model.Identity {
	return model.Identity{Account: &model.Account{ID: id, Email: "user@store.ru", Role: model.RoleUser}}
}

func TestLifecycleGet_ByNumberAndByID(t *testing.T) {
	store := newFakeOrderStore()
	order := seedOrder(store, "sess-a", nil, model.StatusPending)
	lc := NewLifecycle(store)

	byNumber, items, err := lc.Get(context.Background(), "123456", anon("sess-a"))
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
	assert.Len(t, items, 1)

	byID, _, err := lc.Get(context.Background(), "1", anon("sess-a"))
	require.NoError(t, err)
	assert.Equal(t, order.ID, byID.ID)
}

func TestLifecycleGet_ScopedToOwner(t *testing.T) {
	store := newFakeOrderStore()
	seedOrder(store, "sess-a", nil, model.StatusPending)
	lc := NewLifecycle(store)

	// Another session cannot see it, even though it exists.
	_, _, err := lc.Get(context.Background(), "123456", anon("sess-b"))
	assert.ErrorIs(t, err, ErrNotFound)

	// An admin can.
	_, _, err = lc.Get(context.Background(), "123456", admin())
	assert.NoError(t, err)
}

func TestLifecycleGet_AccountOwnership(t *testing.T) {
	store := newFakeOrderStore()
	accountID := uint64(7)
	seedOrder(store, "sess-old", &accountID, model.StatusPending)
	lc := NewLifecycle(store)

	// The owning account sees it from any session.
	_, _, err := lc.Get(context.Background(), "123456", customer(7))
	assert.NoError(t, err)

	// A different account does not, even from the original session.
	other := customer(8)
	other.SessionID = "sess-old"
	_, _, err = lc.Get(context.Background(), "123456", other)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycleCancel_FromCancellableStatuses(t *testing.T) {
	for _, status := range []model.OrderStatus{model.StatusPending, model.StatusProcessing} {
		store := newFakeOrderStore()
		order := seedOrder(store, "sess-a", nil, status)
		lc := NewLifecycle(store)

		got, prev, err := lc.Cancel(context.Background(), order.ID, anon("sess-a"))

		require.NoError(t, err, "status %s", status)
		assert.Equal(t, model.StatusCancelled, got.Status)
		assert.Equal(t, status, prev)
	}
}

func TestLifecycleCancel_RejectedFromLaterStatuses(t *testing.T) {
	for _, status := range []model.OrderStatus{model.StatusShipped, model.StatusDelivered, model.StatusCancelled} {
		store := newFakeOrderStore()
		order := seedOrder(store, "sess-a", nil, status)
		lc := NewLifecycle(store)

		_, _, err := lc.Cancel(context.Background(), order.ID, anon("sess-a"))

		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestLifecycleCancel_StrangerForbidden(t *testing.T) {
	store := newFakeOrderStore()
	order := seedOrder(store, "sess-a", nil, model.StatusPending)
	lc := NewLifecycle(store)

	// Unlike retrieval, cancel refuses rather than hiding the order.
	_, _, err := lc.Cancel(context.Background(), order.ID, anon("sess-b"))
	assert.ErrorIs(t, err, ErrForbidden)

	// The order is untouched.
	got, _, err := lc.Get(context.Background(), "123456", anon("sess-a"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	// A missing order is still a plain not-found.
	_, _, err = lc.Cancel(context.Background(), order.ID+100, anon("sess-b"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycleSetStatus_AdminOnly(t *testing.T) {
	store := newFakeOrderStore()
	order := seedOrder(store, "sess-a", nil, model.StatusPending)
	lc := NewLifecycle(store)

	_, _, err := lc.SetStatus(context.Background(), order.ID, model.StatusShipped, anon("sess-a"))
	assert.ErrorIs(t, err, ErrForbidden)

	got, prev, err := lc.SetStatus(context.Background(), order.ID, model.StatusShipped, admin())
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, got.Status)
	assert.Equal(t, model.StatusPending, prev)
}

func TestLifecycleSetStatus_TerminalOrdersAreFrozen(t *testing.T) {
	for _, status := range []model.OrderStatus{model.StatusDelivered, model.StatusCancelled} {
		store := newFakeOrderStore()
		order := seedOrder(store, "sess-a", nil, status)
		lc := NewLifecycle(store)

		_, _, err := lc.SetStatus(context.Background(), order.ID, model.StatusProcessing, admin())

		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestLifecycleSetStatus_UnknownStatus(t *testing.T) {
	store := newFakeOrderStore()
	order := seedOrder(store, "sess-a", nil, model.StatusPending)
	lc := NewLifecycle(store)

	_, _, err := lc.SetStatus(context.Background(), order.ID, model.OrderStatus("REFUNDED"), admin())

	assert.ErrorIs(t, err, ErrValidation)
}

func TestLifecycleDelete_AdminOnly(t *testing.T) {
	store := newFakeOrderStore()
	order := seedOrder(store, "sess-a", nil, model.StatusDelivered)
	lc := NewLifecycle(store)

	err := lc.Delete(context.Background(), order.ID, anon("sess-a"))
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, lc.Delete(context.Background(), order.ID, admin()))
	_, _, err = lc.Get(context.Background(), "123456", admin())
	assert.ErrorIs(t, err, ErrNotFound)
}
