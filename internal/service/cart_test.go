package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/perfume-store/internal/model"
)

func newCartFixture() (*Cart, *fakeCartStore) {
	catalog := &fakeCatalog{products: map[uint64]*model.Product{
		1: {ID: 1, Name: "Bleu", PriceRUB: 7500},
		2: {ID: 2, Name: "Sauvage", PriceRUB: 6900},
	}}
	store := newFakeCartStore()
	return NewCart(store, catalog), store
}

func TestCartAdd_NewLine(t *testing.T) {
	cart, store := newCartFixture()

	item, err := cart.Add(context.Background(), "sess-a", 1, 2, "gift wrap")

	require.NoError(t, err)
	assert.Equal(t, uint32(2), item.Quantity)
	assert.Equal(t, "gift wrap", item.Comment)
	assert.Len(t, store.items, 1)
}

func TestCartAdd_SameProductMergesQuantities(t *testing.T) {
	cart, store := newCartFixture()
	_, err := cart.Add(context.Background(), "sess-a", 1, 2, "first")
	require.NoError(t, err)

	item, err := cart.Add(context.Background(), "sess-a", 1, 3, "")

	require.NoError(t, err)
	assert.Equal(t, uint32(5), item.Quantity)
	// Empty comment keeps the stored one.
	assert.Equal(t, "first", item.Comment)
	assert.Len(t, store.items, 1)
}

func TestCartAdd_NonEmptyCommentReplaces(t *testing.T) {
	cart, _ := newCartFixture()
	_, err := cart.Add(context.Background(), "sess-a", 1, 1, "first")
	require.NoError(t, err)

	item, err := cart.Add(context.Background(), "sess-a", 1, 1, "second")

	require.NoError(t, err)
	assert.Equal(t, "second", item.Comment)
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	cart, _ := newCartFixture()

	_, err := cart.Add(context.Background(), "sess-a", 99, 1, "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartAdd_ZeroQuantity(t *testing.T) {
	cart, _ := newCartFixture()

	_, err := cart.Add(context.Background(), "sess-a", 1, 0, "")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	cart, store := newCartFixture()
	item, err := cart.Add(context.Background(), "sess-a", 1, 2, "")
	require.NoError(t, err)

	updated, err := cart.UpdateQuantity(context.Background(), "sess-a", item.ID, 0)

	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Empty(t, store.items)
}

func TestCartUpdateQuantity_KeepsComment(t *testing.T) {
	cart, _ := newCartFixture()
	item, err := cart.Add(context.Background(), "sess-a", 1, 2, "keep me")
	require.NoError(t, err)

	updated, err := cart.UpdateQuantity(context.Background(), "sess-a", item.ID, 7)

	require.NoError(t, err)
	assert.Equal(t, uint32(7), updated.Quantity)
	assert.Equal(t, "keep me", updated.Comment)
}

func TestCart_CrossSessionAccessReadsAsNotFound(t *testing.T) {
	cart, _ := newCartFixture()
	item, err := cart.Add(context.Background(), "sess-a", 1, 2, "")
	require.NoError(t, err)

	_, err = cart.UpdateQuantity(context.Background(), "sess-b", item.ID, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	err = cart.Remove(context.Background(), "sess-b", item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cart.UpdateComment(context.Background(), "sess-b", item.ID, "stolen")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartClear_OnlyTouchesOwnSession(t *testing.T) {
	cart, _ := newCartFixture()
	_, err := cart.Add(context.Background(), "sess-a", 1, 1, "")
	require.NoError(t, err)
	_, err = cart.Add(context.Background(), "sess-b", 2, 1, "")
	require.NoError(t, err)

	require.NoError(t, cart.Clear(context.Background(), "sess-a"))

	a, err := cart.List(context.Background(), "sess-a")
	require.NoError(t, err)
	assert.Empty(t, a)
	b, err := cart.List(context.Background(), "sess-b")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}
