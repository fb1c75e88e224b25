package model

import "time"

// Product represents a catalog entry as stored in the `products`
// table. Prices are kept in the canonical currency (RUB); display
// currencies are derived at read time by the pricing service and
// never written back.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – product title.
//  PriceRUB    – canonical price in rubles.
//  Brand       – manufacturer brand (optional).
//  Volume      – package volume, free-form (e.g. "50ml").
//  Description – long description (optional).
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Product struct {
	ID          uint64    // products.id
	Name        string    // products.name
	PriceRUB    float64   // products.price_rub
	Brand       string    // products.brand
	Volume      string    // products.volume
	Description string    // products.description
	CreatedAt   time.Time // products.created_at
	UpdatedAt   time.Time // products.updated_at
}
