package eod

import "github.com/shopspring/decimal"

// legTally counts accepted and failed submissions for one bracket leg.
type legTally struct {
	OK     int
	Failed int
}

// symbolAgg collects every trade log line for one symbol.
type symbolAgg struct {
	Symbol      string
	SecurityID  string
	Runs        map[string]struct{}
	Entry       legTally
	Stop        legTally
	Target      legTally
	EntryQty    int
	EntryValue  decimal.Decimal
	TargetValue decimal.Decimal
	StopValue   decimal.Decimal
}

// summaryRow is one line of the EOD CSV.
type summaryRow struct {
	Symbol        string `csv:"symbol"`
	SecurityID    string `csv:"security_id"`
	Runs          int    `csv:"runs"`
	EntriesOK     int    `csv:"entries_ok"`
	EntriesFailed int    `csv:"entries_failed"`
	StopsOK       int    `csv:"stops_ok"`
	StopsFailed   int    `csv:"stops_failed"`
	TargetsOK     int    `csv:"targets_ok"`
	TargetsFailed int    `csv:"targets_failed"`
	EntryQty      int    `csv:"entry_qty"`
	EntryValue    string `csv:"entry_value"`
	MaxProfit     string `csv:"max_profit"`
	MaxLoss       string `csv:"max_loss"`
	Protection    string `csv:"protection"`
}
