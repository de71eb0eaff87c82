package authorizenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25.50", FormatAmount(2550))
	assert.Equal(t, "1.00", FormatAmount(100))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "1999.99", FormatAmount(199999))
}

func TestFormatExpiration(t *testing.T) {
	assert.Equal(t, "2027-03", FormatExpiration(2027, 3))
	assert.Equal(t, "2027-12", FormatExpiration(2027, 12))
	assert.Equal(t, "2027-10", FormatExpiration(2027, 10))
}

func TestFormatExpirationValue(t *testing.T) {
	assert.Equal(t, "2027-03", formatExpirationValue(float64(2027), float64(3)))
	assert.Equal(t, "2027-11", formatExpirationValue(float64(2027), float64(11)))
	// masked values from the gateway pass through untouched
	assert.Equal(t, "XXXX-XX", formatExpirationValue("XXXX", "XX"))
}

func TestMaskNumber(t *testing.T) {
	assert.Equal(t, "XXXX4242", maskNumber("4242"))
	assert.True(t, isMasked("XXXX"))
	assert.False(t, isMasked("2027-03"))
}

func TestLastFour(t *testing.T) {
	assert.Equal(t, "4242", lastFour("4242424242424242"))
	assert.Equal(t, "4242", lastFour("XXXX4242"))
	assert.Equal(t, "123", lastFour("123"))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Jane Smith")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Smith", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "", last)

	// multi-word surnames keep only the second token
	first, last = splitName("Juan de la Cruz")
	assert.Equal(t, "Juan", first)
	assert.Equal(t, "de", last)
}

func TestJoinName(t *testing.T) {
	assert.Equal(t, "Jane Smith", joinName("Jane", "Smith"))
	assert.Equal(t, "Cher", joinName("Cher", ""))
}
