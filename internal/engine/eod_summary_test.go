package engine

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-trader/internal/eod"
	"screener-trader/internal/store"
	"screener-trader/internal/tradelog"
)

type summaryLine struct {
	Symbol     string `csv:"symbol"`
	EntriesOK  int    `csv:"entries_ok"`
	EntryQty   int    `csv:"entry_qty"`
	EntryValue string `csv:"entry_value"`
	MaxProfit  string `csv:"max_profit"`
	MaxLoss    string `csv:"max_loss"`
	Protection string `csv:"protection"`
}

func TestRunFeedsEndOfDaySummary(t *testing.T) {
	prev := tradelog.Dir()
	tradelog.SetDir(t.TempDir())
	t.Cleanup(func() { tradelog.SetDir(prev) })

	gw := &fakeGateway{}
	opened := 0
	s := &lineSink{}
	p := newPipeline(store.Default(), testDeps(&fakeSession{rows: exportRows()}, &opened, mapSource{"ACME": "11", "BETA": "22"}, gw))
	p.Run(context.Background(), e2eParams(2), s.sink)
	require.Equal(t, 6, gw.count())

	path, err := eod.NewSummarizer().SummarizeDay(context.Background(), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var lines []summaryLine
	require.NoError(t, gocsv.UnmarshalFile(f, &lines))
	rows := map[string]summaryLine{}
	for _, l := range lines {
		rows[l.Symbol] = l
	}
	require.Len(t, rows, 3)

	for _, sym := range []string{"ACME", "BETA"} {
		r := rows[sym]
		assert.Equal(t, 1, r.EntriesOK, sym)
		assert.Equal(t, "500.00", r.EntryValue, sym)
		assert.Equal(t, "7.50", r.MaxProfit, sym)
		assert.Equal(t, "-6.00", r.MaxLoss, sym)
		assert.Equal(t, "FULL", r.Protection, sym)
	}
	assert.Equal(t, 5, rows["ACME"].EntryQty)
	assert.Equal(t, 2, rows["BETA"].EntryQty)

	total := rows["TOTAL"]
	assert.Equal(t, "1000.00", total.EntryValue)
	assert.Equal(t, "15.00", total.MaxProfit)
	assert.Equal(t, "-12.00", total.MaxLoss)
}
