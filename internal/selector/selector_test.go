package selector

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-trader/internal/progress"
	"screener-trader/internal/store"
)

func row(sr, name, symbol, price string) []string {
	return []string{sr, name, symbol, "P&F | F.A", "1.2", price, "100000"}
}

func capture() (*progress.Reporter, *[]string) {
	var lines []string
	return progress.New(context.Background(), func(l string) { lines = append(lines, l) }), &lines
}

func TestSelectEmptyExport(t *testing.T) {
	r, lines := capture()
	got := Select(context.Background(), nil, 5, store.DefaultColumns, r)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, *lines)
}

func TestSelectTakesFirstN(t *testing.T) {
	rows := [][]string{
		row("1", "Acme Ltd", "ACME", "100"),
		row("2", "Beta Corp", "BETA", "250.5"),
		row("3", "Gamma", "GAMMA", "10"),
	}
	got := Select(context.Background(), rows, 2, store.DefaultColumns, progress.Discard())
	require.Len(t, got, 2)
	assert.Equal(t, "ACME", got[0].Symbol)
	assert.Equal(t, "Acme Ltd", got[0].DisplayName)
	assert.True(t, decimal.NewFromInt(100).Equal(got[0].ReferencePrice))
	assert.Equal(t, "BETA", got[1].Symbol)
	assert.True(t, decimal.RequireFromString("250.5").Equal(got[1].ReferencePrice))
}

func TestSelectNLargerThanRows(t *testing.T) {
	rows := [][]string{row("1", "Acme Ltd", "ACME", "100")}
	got := Select(context.Background(), rows, 10, store.DefaultColumns, progress.Discard())
	assert.Len(t, got, 1)
}

func TestSelectZeroCount(t *testing.T) {
	rows := [][]string{row("1", "Acme Ltd", "ACME", "100")}
	assert.Empty(t, Select(context.Background(), rows, 0, store.DefaultColumns, progress.Discard()))
}

func TestSelectSkipsMalformedRows(t *testing.T) {
	r, lines := capture()
	rows := [][]string{
		{"1", "Short"},
		row("2", "Bad Price", "BAD", "n/a"),
		row("3", "Thousands", "BIG", "1,250.40"),
	}
	got := Select(context.Background(), rows, 3, store.DefaultColumns, r)
	require.Len(t, got, 1)
	assert.Equal(t, "BIG", got[0].Symbol)
	assert.True(t, decimal.RequireFromString("1250.40").Equal(got[0].ReferencePrice))
	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], "--> WARNING: Skipping screener row 1")
	assert.Contains(t, (*lines)[1], "invalid price")
}

func TestSelectCustomColumns(t *testing.T) {
	rows := [][]string{{"ACME", "55.5", "Acme Ltd"}}
	cols := store.ColumnMap{Name: 2, Symbol: 0, Price: 1}
	got := Select(context.Background(), rows, 1, cols, progress.Discard())
	require.Len(t, got, 1)
	assert.Equal(t, "Acme Ltd", got[0].DisplayName)
}
