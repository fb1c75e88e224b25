package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricerConvert_CanonicalIsIdentity(t *testing.T) {
	// The rate store must not even be consulted for the canonical
	// currency, so a store that always fails proves it.
	pricer := NewPricer(&fakeRateStore{err: assert.AnError})

	got, err := pricer.Convert(context.Background(), 7500, "RUB")
	require.NoError(t, err)
	assert.Equal(t, 7500.0, got)

	got, err = pricer.Convert(context.Background(), 7500, "")
	require.NoError(t, err)
	assert.Equal(t, 7500.0, got)
}

func TestPricerConvert_DividesByRate(t *testing.T) {
	pricer := NewPricer(&fakeRateStore{rates: map[string]float64{"USD": 90}})

	got, err := pricer.Convert(context.Background(), 9000, "USD")

	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestPricerConvert_CaseInsensitiveCode(t *testing.T) {
	pricer := NewPricer(&fakeRateStore{rates: map[string]float64{"EUR": 100}})

	got, err := pricer.Convert(context.Background(), 5000, "eur")

	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestPricerConvert_UnknownCurrency(t *testing.T) {
	pricer := NewPricer(&fakeRateStore{rates: map[string]float64{}})

	_, err := pricer.Convert(context.Background(), 5000, "GBP")

	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestPricerConvert_NonPositiveRate(t *testing.T) {
	pricer := NewPricer(&fakeRateStore{rates: map[string]float64{"XXX": 0}})

	_, err := pricer.Convert(context.Background(), 5000, "XXX")

	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}
