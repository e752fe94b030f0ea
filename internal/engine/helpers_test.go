package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var tick = decimal.RequireFromString("0.05")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRoundToTickMultipleAndIdempotent(t *testing.T) {
	for _, in := range []string{"0", "0.01", "0.024", "0.025", "99.0", "98.81", "98.8749", "101.52", "253.75", "1234.5678", "7.777"} {
		got := RoundToTick(d(in), tick)
		assert.True(t, got.Mod(tick).IsZero(), "%s -> %s not a tick multiple", in, got)
		assert.True(t, RoundToTick(got, tick).Equal(got), "%s not idempotent", in)
		assert.True(t, got.Sub(d(in)).Abs().LessThanOrEqual(d("0.025")), "%s moved too far to %s", in, got)
	}
}

func TestRoundToTickNearest(t *testing.T) {
	assert.Equal(t, "98.80", RoundToTick(d("98.81"), tick).StringFixed(2))
	assert.Equal(t, "98.85", RoundToTick(d("98.83"), tick).StringFixed(2))
	assert.Equal(t, "101.50", RoundToTick(d("101.5"), tick).StringFixed(2))
}

func TestRoundToTickNonPositiveTick(t *testing.T) {
	assert.True(t, RoundToTick(d("12.34"), decimal.Zero).Equal(d("12.34")))
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, 5, Quantity(d("500"), d("100")))
	assert.Equal(t, 2, Quantity(d("500"), d("250")))
	assert.Equal(t, 1, Quantity(d("500"), d("499.99")))
	assert.Equal(t, 0, Quantity(d("500"), d("500.01")))
	assert.Equal(t, 0, Quantity(d("500"), decimal.Zero))
	assert.Equal(t, 0, Quantity(decimal.Zero, d("10")))
}

func TestBracketLevels(t *testing.T) {
	sm := newStopManager(tick, d("0.2"))

	lv := sm.levels(d("100"), d("1.5"), d("1"))
	assert.Equal(t, "99.00", lv.StopTrigger.StringFixed(2))
	assert.Equal(t, "98.80", lv.StopLimit.StringFixed(2))
	assert.Equal(t, "101.50", lv.Target.StringFixed(2))

	lv = sm.levels(d("250"), d("1.5"), d("1"))
	assert.Equal(t, "247.50", lv.StopTrigger.StringFixed(2))
	assert.Equal(t, "247.00", lv.StopLimit.StringFixed(2))
	assert.Equal(t, "253.75", lv.Target.StringFixed(2))
}

func TestAllocation(t *testing.T) {
	assert.Equal(t, "500.00", newRiskManager(d("1000"), 2).allocation().StringFixed(2))
	assert.True(t, newRiskManager(d("1000"), 0).allocation().IsZero())
	assert.Equal(t, 3, newRiskManager(d("1000"), 3).size(context.Background(), "X", d("333.33"), d("100")))
}
