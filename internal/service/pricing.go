package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/perfume-store/internal/model"
)

// RateStore resolves active conversion rates. ActiveRate returns
// sql.ErrNoRows when no active rate exists for the code.
type RateStore interface {
	ActiveRate(ctx context.Context, code string) (*model.Rate, error)
}

// Pricer converts canonical catalog prices into display currencies.
type Pricer struct {
	Rates RateStore
}

// NewPricer builds a pricer over the given rate store.
func NewPricer(rates RateStore) *Pricer {
	return &Pricer{Rates: rates}
}

// Convert translates a price from the canonical currency into the target
// one. The canonical currency converts to itself unchanged without touching
// the store. Codes are matched case-insensitively.
func (p *Pricer) Convert(ctx context.Context, price float64, currency string) (float64, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" || code == model.CanonicalCurrency {
		return price, nil
	}
	rate, err := p.Rates.ActiveRate(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
		}
		return 0, err
	}
	if rate.RateToRUB <= 0 {
		return 0, fmt.Errorf("%w: %s has no usable rate", ErrUnsupportedCurrency, code)
	}
	return price / rate.RateToRUB, nil
}
