package model

import "time"

// OrderStatus enumerates the lifecycle states of an order. The
// happy path is PENDING → PROCESSING → SHIPPED → DELIVERED;
// CANCELLED is reachable only from PENDING or PROCESSING.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed out
// of s. DELIVERED and CANCELLED are final.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Cancellable reports whether a shopper may still cancel an order in
// this state.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

func (s OrderStatus) String() string { return string(s) }

// Order is an immutable-after-creation aggregate stored in the
// `orders` table. TotalAmount is the sum of its items'
// price × quantity at checkout time and is never recomputed from
// live catalog prices. Only Status ever changes after creation.
//
// Fields:
//  ID           – primary key identifier.
//  OrderNumber  – unique 6-digit human-facing number.
//  SessionID    – shopper session the cart belonged to.
//  AccountID    – owning account if the shopper was authenticated.
//  Status       – current lifecycle state.
//  TotalAmount  – snapshot total in the canonical currency.
//  CustomerName – contact name supplied at checkout.
//  ContactPhone – contact phone supplied at checkout.
//  ContactEmail – contact email supplied at checkout.
//  Notes        – optional free-form notes.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Order struct {
	ID           uint64      // orders.id
	OrderNumber  string      // orders.order_number
	SessionID    string      // orders.session_id
	AccountID    *uint64     // orders.account_id (nullable)
	Status       OrderStatus // orders.status
	TotalAmount  float64     // orders.total_amount
	CustomerName string      // orders.customer_name
	ContactPhone string      // orders.contact_phone
	ContactEmail string      // orders.contact_email
	Notes        string      // orders.notes
	CreatedAt    time.Time   // orders.created_at
	UpdatedAt    time.Time   // orders.updated_at
}

// OrderItem is a snapshot copy of a cart line taken at checkout,
// stored in `order_items`. Price is the canonical-currency product
// price at that moment and is immune to later catalog changes.
//
// Fields:
//  ID        – primary key identifier.
//  OrderID   – owning order.
//  ProductID – product that was purchased.
//  Quantity  – units purchased.
//  Price     – canonical unit price at checkout time.
//  Comment   – shopper note copied from the cart line.
type OrderItem struct {
	ID        uint64  // order_items.id
	OrderID   uint64  // order_items.order_id
	ProductID uint64  // order_items.product_id
	Quantity  uint32  // order_items.quantity
	Price     float64 // order_items.price
	Comment   string  // order_items.comment
}
