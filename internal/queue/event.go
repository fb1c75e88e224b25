// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when checkout creates an order. It carries
// enough information for downstream consumers to log, notify, or trigger
// fulfilment without querying the primary database.
type OrderPlacedEvent struct {
	OrderID      uint64  `json:"order_id"`
	OrderNumber  string  `json:"order_number"`
	SessionID    string  `json:"session_id"`
	AccountID    *uint64 `json:"account_id,omitempty"`
	TotalAmount  float64 `json:"total_amount"`
	ItemCount    int     `json:"item_count"`
	CustomerName string  `json:"customer_name"`
	PlacedAt     string  `json:"placed_at"`
}

// OrderStatusChangedEvent is published on every lifecycle transition,
// including cancellations.
type OrderStatusChangedEvent struct {
	OrderID     uint64 `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ChangedBy   string `json:"changed_by"` // account email or "customer"
	ChangedAt   string `json:"changed_at"`
}
