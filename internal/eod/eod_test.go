package eod

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-trader/internal/tradelog"
)

func useTempLogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tradelog.SetDir(dir)
	t.Cleanup(func() { tradelog.SetDir("") })
	return dir
}

func appendLeg(t *testing.T, run, sym, leg, side, price string, qty int, status string) {
	t.Helper()
	e := tradelog.Entry{
		RunID: run, Symbol: sym, SecurityID: "id-" + sym, Leg: leg, Side: side,
		Qty: qty, Price: price, Status: status,
	}
	if leg == "ENTRY" {
		e.Price, e.ReferencePrice = "0.00", price
	}
	require.NoError(t, tradelog.Append(e))
}

func readSummary(t *testing.T, path string) map[string]summaryRow {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var rows []summaryRow
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	out := map[string]summaryRow{}
	for _, r := range rows {
		out[r.Symbol] = r
	}
	return out
}

func TestSummarizeDayAggregatesBrackets(t *testing.T) {
	dir := useTempLogDir(t)

	appendLeg(t, "r1", "ACME", "ENTRY", "BUY", "100.00", 5, "SUCCESS")
	appendLeg(t, "r1", "ACME", "STOP_LOSS", "SELL", "98.80", 5, "SUCCESS")
	appendLeg(t, "r1", "ACME", "TARGET", "SELL", "101.50", 5, "SUCCESS")
	appendLeg(t, "r1", "BETA", "ENTRY", "BUY", "250.00", 2, "SUCCESS")
	appendLeg(t, "r1", "BETA", "STOP_LOSS", "SELL", "247.00", 2, "FAILURE")
	appendLeg(t, "r1", "BETA", "TARGET", "SELL", "253.75", 2, "SUCCESS")
	appendLeg(t, "r2", "GAMMA", "ENTRY", "BUY", "40.00", 10, "FAILURE")

	path, err := NewSummarizer().SummarizeDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "eod", time.Now().In(tradelog.IST).Format("2006-01-02")+".csv"), path)

	rows := readSummary(t, path)
	require.Len(t, rows, 4)

	acme := rows["ACME"]
	assert.Equal(t, 1, acme.EntriesOK)
	assert.Equal(t, 5, acme.EntryQty)
	assert.Equal(t, "500.00", acme.EntryValue)
	assert.Equal(t, "7.50", acme.MaxProfit)
	assert.Equal(t, "-6.00", acme.MaxLoss)
	assert.Equal(t, "FULL", acme.Protection)
	assert.Equal(t, "id-ACME", acme.SecurityID)

	beta := rows["BETA"]
	assert.Equal(t, 1, beta.StopsFailed)
	assert.Equal(t, "TARGET_ONLY", beta.Protection)
	assert.Equal(t, "0.00", beta.MaxLoss)

	gamma := rows["GAMMA"]
	assert.Equal(t, 1, gamma.EntriesFailed)
	assert.Equal(t, 0, gamma.EntryQty)
	assert.Equal(t, "NONE", gamma.Protection)

	total := rows["TOTAL"]
	assert.Equal(t, 2, total.EntriesOK)
	assert.Equal(t, 1, total.EntriesFailed)
	assert.Equal(t, "1000.00", total.EntryValue)
}

func TestSummarizeDaySkipsMalformedLines(t *testing.T) {
	useTempLogDir(t)
	appendLeg(t, "r1", "ACME", "ENTRY", "BUY", "100.00", 5, "SUCCESS")

	f, err := os.OpenFile(tradelog.DailyFilepath(time.Now()), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	path, err := NewSummarizer().SummarizeDay(context.Background(), time.Now())
	require.NoError(t, err)
	rows := readSummary(t, path)
	assert.Equal(t, "UNPROTECTED", rows["ACME"].Protection)
}

func TestSummarizeDayWithoutTrades(t *testing.T) {
	useTempLogDir(t)
	path, err := NewSummarizer().SummarizeDay(context.Background(), time.Now().AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestShouldRunNow(t *testing.T) {
	useTempLogDir(t)
	s := NewSummarizer()

	morning := time.Date(2026, 3, 2, 10, 0, 0, 0, tradelog.IST)
	run, _ := s.ShouldRunNow(morning)
	assert.False(t, run)

	evening := time.Date(2026, 3, 2, 16, 0, 0, 0, tradelog.IST)
	run, path := s.ShouldRunNow(evening)
	assert.True(t, run)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("symbol\n"), 0o644))
	run, _ = s.ShouldRunNow(evening)
	assert.False(t, run, "report already written")
}

func TestSummarizeDayValuesEntryWithoutReferenceAtPrice(t *testing.T) {
	useTempLogDir(t)
	require.NoError(t, tradelog.Append(tradelog.Entry{
		RunID: "r1", Symbol: "ACME", Leg: "ENTRY", Side: "BUY", Qty: 4, Price: "50.00", Status: "SUCCESS",
	}))

	path, err := NewSummarizer().SummarizeDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "200.00", readSummary(t, path)["ACME"].EntryValue)
}
