package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/perfume-store/internal/model"
)

// Lifecycle drives order status transitions after checkout. PENDING and
// PROCESSING orders can still be cancelled by their owner; DELIVERED and
// CANCELLED are terminal and frozen even for administrators.
type Lifecycle struct {
	Orders OrderStore
}

// NewLifecycle builds a lifecycle service over the given order store.
func NewLifecycle(orders OrderStore) *Lifecycle {
	return &Lifecycle{Orders: orders}
}

// Get resolves an order by 6-digit order number or numeric id. Non-admin
// callers only see orders they own; anything else reads as not found.
func (l *Lifecycle) Get(ctx context.Context, ref string, ident model.Identity) (*model.Order, []model.OrderItem, error) {
	order, err := l.resolve(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	if !ident.IsAdmin() && !ident.Owns(order) {
		return nil, nil, fmt.Errorf("%w: order %s", ErrNotFound, ref)
	}
	items, err := l.Orders.ItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// Cancel moves an order to CANCELLED and reports the status it left.
// Allowed for the order's owner or an administrator, and only while the
// order is PENDING or PROCESSING. Anyone else is refused outright.
func (l *Lifecycle) Cancel(ctx context.Context, orderID uint64, ident model.Identity) (*model.Order, model.OrderStatus, error) {
	order, err := l.byID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if !ident.IsAdmin() && !ident.Owns(order) {
		return nil, "", ErrForbidden
	}
	if !order.Status.Cancellable() {
		return nil, "", fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, order.Status)
	}
	prev := order.Status
	if err := l.Orders.UpdateStatus(ctx, order.ID, model.StatusCancelled); err != nil {
		return nil, "", err
	}
	order.Status = model.StatusCancelled
	return order, prev, nil
}

// SetStatus lets an administrator move an order to any valid status, as
// long as the order has not already reached a terminal one. It reports the
// status the order left.
func (l *Lifecycle) SetStatus(ctx context.Context, orderID uint64, status model.OrderStatus, ident model.Identity) (*model.Order, model.OrderStatus, error) {
	if !ident.IsAdmin() {
		return nil, "", ErrForbidden
	}
	if !status.Valid() {
		return nil, "", fmt.Errorf("%w: unknown status %q", ErrValidation, string(status))
	}
	order, err := l.byID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order.Status.IsTerminal() {
		return nil, "", fmt.Errorf("%w: order is already %s", ErrInvalidTransition, order.Status)
	}
	prev := order.Status
	if err := l.Orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, "", err
	}
	order.Status = status
	return order, prev, nil
}

// Delete removes an order and its items entirely. Admin only; works from
// any status.
func (l *Lifecycle) Delete(ctx context.Context, orderID uint64, ident model.Identity) error {
	if !ident.IsAdmin() {
		return ErrForbidden
	}
	order, err := l.byID(ctx, orderID)
	if err != nil {
		return err
	}
	return l.Orders.Delete(ctx, order.ID)
}

// resolve looks the order up by number first and falls back to a numeric id.
func (l *Lifecycle) resolve(ctx context.Context, ref string) (*model.Order, error) {
	order, err := l.Orders.OrderByNumber(ctx, ref)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	id, convErr := strconv.ParseUint(ref, 10, 64)
	if convErr != nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, ref)
	}
	return l.byID(ctx, id)
}

func (l *Lifecycle) byID(ctx context.Context, id uint64) (*model.Order, error) {
	order, err := l.Orders.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}
