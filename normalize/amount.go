// Package normalize converts provider-specific value encodings and free-text
// narrations into normalized amounts and categories. Everything here is pure:
// no I/O, no clock, no allocation of shared state.
package normalize

import "github.com/shopspring/decimal"

// DecodeAmount reconstructs a currency amount from the provider's
// {units, nanos} pair as units + nanos/1e9. The arithmetic goes through
// decimal so repeated aggregation of the same payload cannot drift.
// Absent fields unmarshal to zero and decode to 0.0.
func DecodeAmount(units int64, nanos int64) float64 {
	amount, _ := DecodeDecimal(units, nanos).Float64()
	return amount
}

// DecodeDecimal is DecodeAmount without the final float conversion, for
// callers that keep summing before converting once at the snapshot edge.
func DecodeDecimal(units int64, nanos int64) decimal.Decimal {
	return decimal.New(units, 0).Add(decimal.New(nanos, -9))
}
