package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/perfume-store/internal/model"
	"github.com/iliyamo/perfume-store/internal/repository"
)

// OrderStore is the persistence surface shared by checkout and the order
// lifecycle service. CreateWithItems must atomically insert the order with
// its items and clear the session's cart; when the generated order number
// collides with an existing one it returns repository.ErrDuplicateNumber.
type OrderStore interface {
	NumberExists(ctx context.Context, number string) (bool, error)
	CreateWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) error
	OrderByID(ctx context.Context, id uint64) (*model.Order, error)
	OrderByNumber(ctx context.Context, number string) (*model.Order, error)
	ItemsByOrder(ctx context.Context, orderID uint64) ([]model.OrderItem, error)
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error
	Delete(ctx context.Context, id uint64) error
}

// CheckoutInput carries the contact details collected at checkout time.
type CheckoutInput struct {
	SessionID    string
	AccountID    *uint64
	CustomerName string
	ContactPhone string
	ContactEmail string
	Notes        string
}

// Checkout converts a session's cart into a placed order. Prices are
// snapshotted from the catalog at the moment of checkout so later catalog
// edits never change what was charged.
type Checkout struct {
	Carts    CartStore
	Products Catalog
	Orders   OrderStore
}

// NewCheckout builds a checkout engine over the given stores.
func NewCheckout(carts CartStore, products Catalog, orders OrderStore) *Checkout {
	return &Checkout{Carts: carts, Products: products, Orders: orders}
}

// CreateOrder places an order from the session's cart. Cart lines whose
// product has been deleted since they were added are skipped. The cart is
// cleared in the same transaction that writes the order, so a failure
// leaves both untouched.
func (s *Checkout) CreateOrder(ctx context.Context, in CheckoutInput) (*model.Order, []model.OrderItem, error) {
	if strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.ContactPhone) == "" ||
		strings.TrimSpace(in.ContactEmail) == "" {
		return nil, nil, fmt.Errorf("%w: customer name, phone and email are required", ErrValidation)
	}

	cartItems, err := s.Carts.ItemsBySession(ctx, in.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(cartItems) == 0 {
		return nil, nil, ErrEmptyCart
	}

	var (
		items []model.OrderItem
		total float64
	)
	for _, ci := range cartItems {
		product, err := s.Products.ProductByID(ctx, ci.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Product removed after it was carted; drop the line.
				continue
			}
			return nil, nil, err
		}
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Quantity:  ci.Quantity,
			Price:     product.PriceRUB,
			Comment:   ci.Comment,
		})
		total += product.PriceRUB * float64(ci.Quantity)
	}

	order := &model.Order{
		SessionID:    in.SessionID,
		AccountID:    in.AccountID,
		Status:       model.StatusPending,
		TotalAmount:  total,
		CustomerName: in.CustomerName,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
		Notes:        in.Notes,
	}

	for {
		number, err := generateOrderNumber()
		if err != nil {
			return nil, nil, err
		}
		exists, err := s.Orders.NumberExists(ctx, number)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			continue
		}
		order.OrderNumber = number
		err = s.Orders.CreateWithItems(ctx, order, items)
		if errors.Is(err, repository.ErrDuplicateNumber) {
			// Lost a race on the unique index; draw a fresh number.
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		break
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	return order, items, nil
}

// generateOrderNumber draws a 6-digit number from crypto/rand. Each digit
// is sampled independently, so leading zeros are possible and the number
// is stored as a string. Bytes of 250 and above are rejected so the
// modulo keeps every digit equally likely.
func generateOrderNumber() (string, error) {
	out := make([]byte, 0, 6)
	buf := make([]byte, 8)
	for len(out) < 6 {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate order number: %w", err)
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == 6 {
				break
			}
		}
	}
	return string(out), nil
}
