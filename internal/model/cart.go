package model

import "time"

// CartItem is one line of a session-scoped cart as stored in the
// `cart_items` table. At most one row exists per
// (session_id, product_id) pair; adding the same product again
// increments Quantity instead of inserting a second row.
//
// Fields:
//  ID        – primary key identifier.
//  ProductID – referenced catalog product.
//  SessionID – opaque shopper session the line belongs to.
//  Quantity  – number of units, always >= 1 once stored.
//  Comment   – optional shopper note for this line.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type CartItem struct {
	ID        uint64    // cart_items.id
	ProductID uint64    // cart_items.product_id
	SessionID string    // cart_items.session_id
	Quantity  uint32    // cart_items.quantity
	Comment   string    // cart_items.comment
	CreatedAt time.Time // cart_items.created_at
	UpdatedAt time.Time // cart_items.updated_at
}
