package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanOutcomeIsValid(t *testing.T) {
	assert.True(t, ScanOutcomeAccepted.IsValid())
	assert.True(t, ScanOutcomeIgnored.IsValid())
	assert.False(t, ScanOutcome("maybe").IsValid())
	assert.False(t, ScanOutcome("").IsValid())
}

func TestIgnoreReasons(t *testing.T) {
	for _, reason := range validIgnoreReasons {
		assert.True(t, reason.IsValid(), reason)
	}
	assert.False(t, IgnoreReasonNone.IsValid())
	assert.False(t, IgnoreReason("cosmic_ray").IsValid())

	assert.True(t, IgnoreReasonDiscountNotInteger.IsDiscountRejection())
	assert.True(t, IgnoreReasonDiscountOutOfRange.IsDiscountRejection())
	assert.False(t, IgnoreReasonDiscountAlreadyArmed.IsDiscountRejection())
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "₹", CurrencyINR.Symbol())
	assert.Equal(t, "INR", CurrencyINR.String())
	assert.Equal(t, "EUR", Currency("EUR").Symbol())
}
