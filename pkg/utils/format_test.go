package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", FormatInt(0))
	assert.Equal(t, "999", FormatInt(999))
	assert.Equal(t, "1,000", FormatInt(1000))
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "-12,345", FormatInt(-12345))
}

func TestFormatKRW(t *testing.T) {
	assert.Equal(t, "₩0", FormatKRW(0))
	assert.Equal(t, "₩1,350", FormatKRW(1350))
	// Rounded to the nearest won.
	assert.Equal(t, "₩136,688", FormatKRW(136687.5))
	assert.Equal(t, "₩136,687", FormatKRW(136687.4))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00", FormatUSD(0))
	assert.Equal(t, "$101.25", FormatUSD(101.25))
	assert.Equal(t, "$101.20", FormatUSD(101.2))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercent(12.346, 2))
	assert.Equal(t, "12.3%", FormatPercent(12.32, 1))
	assert.Equal(t, "0.00%", FormatPercent(0, 2))
	// Negative decimal counts fall back to the default of two.
	assert.Equal(t, "5.00%", FormatPercent(5, -1))
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 1.23, RoundWithTwoDecimalPlace(1.2345))
	assert.Equal(t, 1.24, RoundWithTwoDecimalPlace(1.236))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}
