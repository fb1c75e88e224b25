package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
)

// fakeCatalog implements Catalog over a map for testing.
type fakeCatalog struct {
	products map[uint64]*model.Product
	err      error
}

func (f *fakeCatalog) ProductByID(_ context.Context, id uint64) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

// fakeCartStore implements CartStore in memory.
type fakeCartStore struct {
	items  map[uint64]*model.CartItem
	nextID uint64
	err    error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: map[uint64]*model.CartItem{}, nextID: 1}
}

func (f *fakeCartStore) ItemsBySession(_ context.Context, sessionID string) ([]model.CartItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.CartItem
	for id := uint64(1); id < f.nextID; id++ {
		if it, ok := f.items[id]; ok && it.SessionID == sessionID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeCartStore) ItemByID(_ context.Context, id uint64) (*model.CartItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *it
	return &cp, nil
}

func (f *fakeCartStore) ItemBySessionProduct(_ context.Context, sessionID string, productID uint64) (*model.CartItem, error) {
	for _, it := range f.items {
		if it.SessionID == sessionID && it.ProductID == productID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCartStore) Insert(_ context.Context, item *model.CartItem) error {
	if f.err != nil {
		return f.err
	}
	item.ID = f.nextID
	f.nextID++
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeCartStore) Update(_ context.Context, id uint64, quantity uint32, comment string) error {
	it, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	it.Quantity = quantity
	it.Comment = comment
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, id uint64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeCartStore) DeleteBySession(_ context.Context, sessionID string) error {
	for id, it := range f.items {
		if it.SessionID == sessionID {
			delete(f.items, id)
		}
	}
	return nil
}

// fakeOrderStore implements OrderStore in memory. takenNumbers simulates
// pre-existing orders for collision testing; duplicateOnce makes the first
// CreateWithItems fail with ErrDuplicateNumber to exercise the retry path.
type fakeOrderStore struct {
	orders        map[uint64]*model.Order
	items         map[uint64][]model.OrderItem
	nextID        uint64
	takenNumbers  map[string]bool
	duplicateOnce bool
	clearedCarts  []string
	carts         *fakeCartStore
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:       map[uint64]*model.Order{},
		items:        map[uint64][]model.OrderItem{},
		nextID:       1,
		takenNumbers: map[string]bool{},
	}
}

func (f *fakeOrderStore) NumberExists(_ context.Context, number string) (bool, error) {
	if f.takenNumbers[number] {
		return true, nil
	}
	for _, o := range f.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderStore) CreateWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) error {
	if f.duplicateOnce {
		f.duplicateOnce = false
		return repository.ErrDuplicateNumber
	}
	order.ID = f.nextID
	f.nextID++
	cp := *order
	f.orders[order.ID] = &cp
	f.items[order.ID] = append([]model.OrderItem(nil), items...)
	f.clearedCarts = append(f.clearedCarts, order.SessionID)
	if f.carts != nil {
		_ = f.carts.DeleteBySession(ctx, order.SessionID)
	}
	return nil
}

func (f *fakeOrderStore) OrderByID(_ context.Context, id uint64) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) OrderByNumber(_ context.Context, number string) (*model.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOrderStore) ItemsByOrder(_ context.Context, orderID uint64) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id uint64, status model.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id uint64) error {
	delete(f.orders, id)
	delete(f.items, id)
	return nil
}

// fakeRateStore implements RateStore over a map of active rates.
type fakeRateStore struct {
	rates map[string]float64
	err   error
}

func (f *fakeRateStore) ActiveRate(_ context.Context, code string) (*model.Rate, error) {
	if f.err != nil {
		return nil, f.err
	}
	rate, ok := f.rates[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &model.Rate{CurrencyCode: code, RateToRUB: rate, IsActive: true}, nil
}

// fakeAccountStore implements AccountStore in memory.
type fakeAccountStore struct {
	accounts  map[uint64]*model.Account
	nextID    uint64
	createErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[uint64]*model.Account{}, nextID: 1}
}

func (f *fakeAccountStore) AccountByID(_ context.Context, id uint64) (*model.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountStore) Create(_ context.Context, a *model.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return repository.ErrEmailExists
		}
		if existing.Username == a.Username {
			return repository.ErrUsernameExists
		}
	}
	a.ID = f.nextID
	f.nextID++
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeAccountStore) Update(_ context.Context, a *model.Account) error {
	if _, ok := f.accounts[a.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeAccountStore) UpdatePassword(_ context.Context, id uint64, hash, salt string) error {
	a, ok := f.accounts[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.PasswordHash = hash
	a.PasswordSalt = salt
	return nil
}
