package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/perfume-store/internal/model"
)

// Catalog resolves products for cart and checkout operations.
// Implementations return sql.ErrNoRows when the product does not exist.
type Catalog interface {
	ProductByID(ctx context.Context, id uint64) (*model.Product, error)
}

// CartStore is the persistence surface the cart service needs.
type CartStore interface {
	ItemsBySession(ctx context.Context, sessionID string) ([]model.CartItem, error)
	ItemByID(ctx context.Context, id uint64) (*model.CartItem, error)
	ItemBySessionProduct(ctx context.Context, sessionID string, productID uint64) (*model.CartItem, error)
	Insert(ctx context.Context, item *model.CartItem) error
	Update(ctx context.Context, id uint64, quantity uint32, comment string) error
	Delete(ctx context.Context, id uint64) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

// Cart implements the per-session shopping cart rules. Every operation is
// scoped to a session id; an item belonging to another session is treated
// as if it did not exist.
type Cart struct {
	Items    CartStore
	Products Catalog
}

// NewCart builds a cart service over the given stores.
func NewCart(items CartStore, products Catalog) *Cart {
	return &Cart{Items: items, Products: products}
}

// Add puts a product into the session's cart. If the product is already in
// the cart the quantities are summed onto the existing row; a non-empty
// comment replaces the stored one, an empty comment leaves it untouched.
func (s *Cart) Add(ctx context.Context, sessionID string, productID uint64, quantity uint32, comment string) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if _, err := s.Products.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	existing, err := s.Items.ItemBySessionProduct(ctx, sessionID, productID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += quantity
		if comment != "" {
			existing.Comment = comment
		}
		if err := s.Items.Update(ctx, existing.ID, existing.Quantity, existing.Comment); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &model.CartItem{
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
		Comment:   comment,
	}
	if err := s.Items.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns every cart row for the session.
func (s *Cart) List(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	return s.Items.ItemsBySession(ctx, sessionID)
}

// UpdateQuantity sets the quantity on a cart row. Quantity 0 removes the
// row entirely.
func (s *Cart) UpdateQuantity(ctx context.Context, sessionID string, itemID uint64, quantity uint32) (*model.CartItem, error) {
	item, err := s.owned(ctx, sessionID, itemID)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		if err := s.Items.Delete(ctx, item.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	item.Quantity = quantity
	if err := s.Items.Update(ctx, item.ID, item.Quantity, item.Comment); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateComment replaces the comment on a cart row.
func (s *Cart) UpdateComment(ctx context.Context, sessionID string, itemID uint64, comment string) (*model.CartItem, error) {
	item, err := s.owned(ctx, sessionID, itemID)
	if err != nil {
		return nil, err
	}
	item.Comment = comment
	if err := s.Items.Update(ctx, item.ID, item.Quantity, item.Comment); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove deletes a single cart row.
func (s *Cart) Remove(ctx context.Context, sessionID string, itemID uint64) error {
	item, err := s.owned(ctx, sessionID, itemID)
	if err != nil {
		return err
	}
	return s.Items.Delete(ctx, item.ID)
}

// Clear empties the session's cart.
func (s *Cart) Clear(ctx context.Context, sessionID string) error {
	return s.Items.DeleteBySession(ctx, sessionID)
}

// owned loads a cart row and verifies it belongs to the session.
func (s *Cart) owned(ctx context.Context, sessionID string, itemID uint64) (*model.CartItem, error) {
	item, err := s.Items.ItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	if item.SessionID != sessionID {
		return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return item, nil
}
