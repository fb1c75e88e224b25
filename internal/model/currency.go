package model

import "time"

// Rate is one exchange-rate row in the `currency_rates` table. At
// most one row per currency code is active at any time; storing a
// new rate deactivates the previous one in the same transaction.
// RateToRUB is how many rubles one unit of the currency buys, so a
// canonical price converts as price / RateToRUB.
//
// Fields:
//  ID           – primary key identifier.
//  CurrencyCode – ISO 4217 code, e.g. "USD".
//  RateToRUB    – rubles per one unit of the currency.
//  IsActive     – whether this row is the current rate.
//  CreatedBy    – admin account that stored the rate.
//  CreatedAt    – timestamp of creation.
type Rate struct {
	ID           uint64    // currency_rates.id
	CurrencyCode string    // currency_rates.currency_code
	RateToRUB    float64   // currency_rates.rate_to_rub
	IsActive     bool      // currency_rates.is_active
	CreatedBy    uint64    // currency_rates.created_by
	CreatedAt    time.Time // currency_rates.created_at
}

// CanonicalCurrency is the storage currency for all prices.
const CanonicalCurrency = "RUB"
