package types

import "github.com/shopspring/decimal"

// Candidate is one ranked row from the screener export.
type Candidate struct {
	Symbol         string          `json:"symbol"`
	DisplayName    string          `json:"display_name"`
	ReferencePrice decimal.Decimal `json:"reference_price"`
}

// ResolvedCandidate is a Candidate the resolver could map to a broker security id.
type ResolvedCandidate struct {
	Candidate
	SecurityID string `json:"security_id"`
}

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type OrderKind string

const (
	Market    OrderKind = "MARKET"
	Limit     OrderKind = "LIMIT"
	StopLimit OrderKind = "STOP_LIMIT"
)

// Leg names the role an order plays in a bracket.
type Leg string

const (
	LegEntry  Leg = "ENTRY"
	LegStop   Leg = "STOP_LOSS"
	LegTarget Leg = "TARGET"
)

// OrderIntent is built and submitted immediately; it is never persisted.
type OrderIntent struct {
	SecurityID   string          `json:"security_id"`
	Symbol       string          `json:"symbol"`
	Exchange     string          `json:"exchange"`
	Side         Side            `json:"side"`
	Kind         OrderKind       `json:"kind"`
	Leg          Leg             `json:"leg"`
	Quantity     int             `json:"quantity"`
	LimitPrice   decimal.Decimal `json:"limit_price"`
	TriggerPrice decimal.Decimal `json:"trigger_price"`
}

// OrderResp is what a gateway reports back for one submission.
type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Broker status values a gateway may report.
const (
	StatusSuccess   = "success"
	StatusFailure   = "failure"
	StatusSimulated = "simulated"
)

// Accepted reports whether the broker confirmed the order.
func (r OrderResp) Accepted() bool {
	return r.Status == StatusSuccess || r.Status == StatusSimulated
}

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "SUCCESS"
	OutcomeFailure OutcomeStatus = "FAILURE"
)

// OrderOutcome pairs an intent with the broker's verdict. Used for logging only.
type OrderOutcome struct {
	Intent        OrderIntent   `json:"intent"`
	Status        OutcomeStatus `json:"status"`
	OrderID       string        `json:"order_id,omitempty"`
	BrokerMessage string        `json:"broker_message"`
}

type ResultStatus string

const (
	ResultPlaced  ResultStatus = "PLACED"  // entry, stop and target all accepted
	ResultPartial ResultStatus = "PARTIAL" // entry accepted, a protective leg rejected
	ResultFailed  ResultStatus = "FAILED"
	ResultSkipped ResultStatus = "SKIPPED"
)

// CandidateResult is the coordinator's per-candidate verdict.
type CandidateResult struct {
	Candidate ResolvedCandidate `json:"candidate"`
	Status    ResultStatus      `json:"status"`
	Quantity  int               `json:"quantity"`
	Outcomes  []OrderOutcome    `json:"outcomes"`
	Err       error             `json:"-"`
}

// RunParameters is supplied once per run and never mutated.
type RunParameters struct {
	ScreenerLink  string
	TotalCapital  decimal.Decimal
	ProfitPercent decimal.Decimal
	LossPercent   decimal.Decimal
	StockCount    int
	ClientID      string
	AccessToken   string
}

// LogSink receives human-readable progress lines. It may be called from any goroutine.
type LogSink func(line string)
