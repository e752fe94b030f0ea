package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/progress"
	"screener-trader/internal/types"
)

// fakeGateway records every intent and answers per leg.
type fakeGateway struct {
	mu      sync.Mutex
	intents []types.OrderIntent
	// reject maps "SYMBOL/LEG" to a broker status other than success.
	reject map[string]string
	// fail maps "SYMBOL/LEG" to a transport error.
	fail map[string]error
	// panicOn panics for the given "SYMBOL/LEG".
	panicOn string
	seq     int
}

func (g *fakeGateway) PlaceOrder(_ context.Context, in types.OrderIntent) (types.OrderResp, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents = append(g.intents, in)
	key := in.Symbol + "/" + string(in.Leg)
	if key == g.panicOn {
		panic("gateway exploded")
	}
	if err := g.fail[key]; err != nil {
		return types.OrderResp{}, err
	}
	if st, ok := g.reject[key]; ok {
		return types.OrderResp{Status: st, Message: "rejected"}, nil
	}
	g.seq++
	return types.OrderResp{OrderID: fmt.Sprintf("ORD-%d", g.seq), Status: types.StatusSuccess}, nil
}

func (g *fakeGateway) bySymbol(sym string) []types.OrderIntent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []types.OrderIntent
	for _, in := range g.intents {
		if in.Symbol == sym {
			out = append(out, in)
		}
	}
	return out
}

func (g *fakeGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.intents)
}

// lineSink collects progress lines from any goroutine.
type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) sink(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *lineSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *lineSink) reporter() *progress.Reporter {
	return progress.New(context.Background(), s.sink)
}

// fakeSession serves a fixed export.
type fakeSession struct {
	rows    [][]string
	readErr error
	mu      sync.Mutex
	closed  bool
}

func (f *fakeSession) Load(context.Context, string) error { return nil }
func (f *fakeSession) RunScan(context.Context) error      { return nil }
func (f *fakeSession) Export(context.Context) error       { return nil }
func (f *fakeSession) ReadExport(context.Context) ([][]string, error) {
	return f.rows, f.readErr
}
func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type mapSource map[string]string

func (m mapSource) Load(context.Context) (map[string]string, error) { return m, nil }

var errTransport = errors.New("connection reset by peer")

func testDeps(sess interfaces.ScreenerSession, opened *int, src interfaces.InstrumentSource, gw interfaces.OrderGateway) Deps {
	return Deps{
		Sessions: func(context.Context) (interfaces.ScreenerSession, error) {
			*opened++
			return sess, nil
		},
		Instruments: func(string, string) (interfaces.InstrumentSource, error) { return src, nil },
		Gateways:    func(string, string) (interfaces.OrderGateway, error) { return gw, nil },
	}
}
