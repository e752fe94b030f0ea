package eod

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"screener-trader/internal/logger"
	"screener-trader/internal/tradelog"
	"screener-trader/internal/types"
)

type eodSummarizer struct{}

func (s *eodSummarizer) SummarizeDay(ctx context.Context, day time.Time) (string, error) {
	inPath := tradelog.DailyFilepath(day)
	f, err := os.Open(inPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*symbolAgg{}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		var e tradelog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			logger.Warn(ctx, "Skipping malformed trade log line", "file", inPath, "line", lineNo, "error", err)
			continue
		}
		add(aggs, e)
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	rows := buildRows(aggs)
	outPath := eodCSVPath(day)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := gocsv.Marshal(&rows, out); err != nil {
		return "", err
	}
	return outPath, nil
}

func (s *eodSummarizer) SummarizeToday(ctx context.Context) (string, error) {
	return s.SummarizeDay(ctx, istNow())
}

func (s *eodSummarizer) ShouldRunNow(now time.Time) (bool, string) {
	outPath := eodCSVPath(now)
	if !now.After(marketCloseTime(now)) {
		return false, outPath
	}
	if _, err := os.Stat(outPath); os.IsNotExist(err) {
		return true, outPath
	}
	return false, outPath
}

func add(aggs map[string]*symbolAgg, e tradelog.Entry) {
	a := aggs[e.Symbol]
	if a == nil {
		a = &symbolAgg{Symbol: e.Symbol, Runs: map[string]struct{}{}}
		aggs[e.Symbol] = a
	}
	if a.SecurityID == "" {
		a.SecurityID = e.SecurityID
	}
	if e.RunID != "" {
		a.Runs[e.RunID] = struct{}{}
	}

	ok := e.Status == string(types.OutcomeSuccess)
	value := legPrice(e).Mul(decimal.NewFromInt(int64(e.Qty)))

	var tally *legTally
	switch types.Leg(e.Leg) {
	case types.LegEntry:
		tally = &a.Entry
		if ok {
			a.EntryQty += e.Qty
			a.EntryValue = a.EntryValue.Add(value)
		}
	case types.LegStop:
		tally = &a.Stop
		if ok {
			a.StopValue = a.StopValue.Add(value)
		}
	case types.LegTarget:
		tally = &a.Target
		if ok {
			a.TargetValue = a.TargetValue.Add(value)
		}
	default:
		return
	}
	if ok {
		tally.OK++
	} else {
		tally.Failed++
	}
}

// legPrice is the price a leg is valued at. Market entries are valued at the
// screener reference price; older log lines without one fall back to Price.
func legPrice(e tradelog.Entry) decimal.Decimal {
	price, _ := decimal.NewFromString(e.Price)
	if types.Leg(e.Leg) != types.LegEntry {
		return price
	}
	if ref, err := decimal.NewFromString(e.ReferencePrice); err == nil && ref.IsPositive() {
		return ref
	}
	return price
}

// buildRows sorts by symbol and appends a TOTAL row. Profit and loss are the
// outcomes if every accepted target or stop fills at its limit.
func buildRows(aggs map[string]*symbolAgg) []*summaryRow {
	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := &summaryRow{Symbol: "TOTAL"}
	var totalEntry, totalProfit, totalLoss decimal.Decimal
	rows := make([]*summaryRow, 0, len(keys)+1)
	for _, k := range keys {
		a := aggs[k]
		profit := decimal.Zero
		if a.TargetValue.IsPositive() {
			profit = a.TargetValue.Sub(a.EntryValue)
		}
		loss := decimal.Zero
		if a.StopValue.IsPositive() {
			loss = a.StopValue.Sub(a.EntryValue)
		}
		rows = append(rows, &summaryRow{
			Symbol:        a.Symbol,
			SecurityID:    a.SecurityID,
			Runs:          len(a.Runs),
			EntriesOK:     a.Entry.OK,
			EntriesFailed: a.Entry.Failed,
			StopsOK:       a.Stop.OK,
			StopsFailed:   a.Stop.Failed,
			TargetsOK:     a.Target.OK,
			TargetsFailed: a.Target.Failed,
			EntryQty:      a.EntryQty,
			EntryValue:    a.EntryValue.StringFixed(2),
			MaxProfit:     profit.StringFixed(2),
			MaxLoss:       loss.StringFixed(2),
			Protection:    protection(a),
		})

		total.EntriesOK += a.Entry.OK
		total.EntriesFailed += a.Entry.Failed
		total.StopsOK += a.Stop.OK
		total.StopsFailed += a.Stop.Failed
		total.TargetsOK += a.Target.OK
		total.TargetsFailed += a.Target.Failed
		total.EntryQty += a.EntryQty
		totalEntry = totalEntry.Add(a.EntryValue)
		totalProfit = totalProfit.Add(profit)
		totalLoss = totalLoss.Add(loss)
	}
	total.EntryValue = totalEntry.StringFixed(2)
	total.MaxProfit = totalProfit.StringFixed(2)
	total.MaxLoss = totalLoss.StringFixed(2)
	return append(rows, total)
}
