package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAmount(t *testing.T) {
	assert.Equal(t, 5.5, DecodeAmount(5, 500000000))
	assert.Equal(t, 0.0, DecodeAmount(0, 0))
	assert.Equal(t, 250000.0, DecodeAmount(250000, 0))
	assert.Equal(t, -1200.75, DecodeAmount(-1200, -750000000))
}

func TestDecodeAmountNoDriftAcrossRepeats(t *testing.T) {
	// Repeated reconstruction of the same pair must be byte-identical.
	first := DecodeAmount(123456789, 123456789)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, first, DecodeAmount(123456789, 123456789))
	}
}

func TestDecodeDecimalExact(t *testing.T) {
	d := DecodeDecimal(10, 100000000)
	assert.Equal(t, "10.1", d.String())
}
