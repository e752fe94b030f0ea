package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"screener-trader/internal/progress"
	"screener-trader/internal/store"
)

const equityCSV = `NSE,ACME,1001,EQUITY,Acme Ltd
NSE,BETA,1002,EQ,Beta Corp
BSE,ACME,9001,EQ,Acme Ltd
NSE,ACME,1999,EQ,Acme duplicate
NSE,FUTX,3001,FUTSTK,Fut
short,row
NSE,GAMMA,1003,EQ,"Gamma ""quoted"""
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "equity.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func capture() (*progress.Reporter, *[]string) {
	var lines []string
	return progress.New(context.Background(), func(l string) { lines = append(lines, l) }), &lines
}

func TestCSVSourceFilters(t *testing.T) {
	src := CSVSource{Path: writeCSV(t, equityCSV), Exchange: "NSE", Marker: "EQ"}
	table, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1001", table["ACME"], "first matching row wins")
	assert.Equal(t, "1002", table["BETA"])
	assert.Equal(t, "1003", table["GAMMA"])
	assert.NotContains(t, table, "FUTX")
	assert.Len(t, table, 3)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv"), Exchange: "NSE", Marker: "EQ"}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceMissing)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestResolveOmitsUnknownSymbol(t *testing.T) {
	r, lines := capture()
	res := New(CSVSource{Path: writeCSV(t, equityCSV), Exchange: "NSE", Marker: "EQ"})

	ids, err := res.Resolve(context.Background(), []string{"ACME", "ZZZ", "BETA"}, r)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ACME": "1001", "BETA": "1002"}, ids)
	require.Len(t, *lines, 1)
	assert.Equal(t, "--> WARNING: Could not find security ID for symbol: ZZZ. It will be skipped.", (*lines)[0])
}

func TestResolveMissingReferenceIsFatal(t *testing.T) {
	r, lines := capture()
	res := New(CSVSource{Path: filepath.Join(t.TempDir(), "equity.csv"), Exchange: "NSE", Marker: "EQ"})

	_, err := res.Resolve(context.Background(), []string{"ACME"}, r)
	require.ErrorIs(t, err, ErrReferenceMissing)
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "FATAL ERROR:")
	assert.Contains(t, (*lines)[0], "equity.csv")
}

type countingSource struct {
	calls int
	table map[string]string
	err   error
}

func (c *countingSource) Load(context.Context) (map[string]string, error) {
	c.calls++
	return c.table, c.err
}

func TestResolverCachesReference(t *testing.T) {
	src := &countingSource{table: map[string]string{"ACME": "1"}}
	res := New(src)
	for i := 0; i < 3; i++ {
		_, err := res.Resolve(context.Background(), []string{"ACME"}, progress.Discard())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.calls)
}

func TestResolveSourceError(t *testing.T) {
	res := New(&countingSource{err: errors.New("boom")})
	_, err := res.Resolve(context.Background(), []string{"ACME"}, progress.Discard())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrReferenceMissing)
}

type fakeLister struct {
	insts kiteconnect.Instruments
	err   error
	got   string
}

func (f *fakeLister) GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error) {
	f.got = exchange
	return f.insts, f.err
}

func TestKiteSourceUsesInstrumentToken(t *testing.T) {
	fl := &fakeLister{insts: kiteconnect.Instruments{
		{InstrumentToken: 738561, Tradingsymbol: "RELIANCE", InstrumentType: "EQ"},
		{InstrumentToken: 12345, Tradingsymbol: "NIFTY24JANFUT", InstrumentType: "FUT"},
	}}
	src := &KiteSource{client: fl, exchange: "NSE", marker: "EQ"}

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "NSE", fl.got)
	assert.Equal(t, map[string]string{"RELIANCE": "738561"}, table)
}

func TestKiteSourceError(t *testing.T) {
	src := &KiteSource{client: &fakeLister{err: errors.New("token expired")}, exchange: "NSE", marker: "EQ"}
	_, err := src.Load(context.Background())
	assert.ErrorContains(t, err, "token expired")
}

func TestNewSource(t *testing.T) {
	cfg := store.Default()
	src, err := NewSource(cfg, "", "")
	require.NoError(t, err)
	assert.IsType(t, CSVSource{}, src)

	cfg.Resolver.Source = "KITE"
	_, err = NewSource(cfg, "", "")
	assert.Error(t, err)

	src, err = NewSource(cfg, "key", "token")
	require.NoError(t, err)
	assert.IsType(t, &KiteSource{}, src)

	cfg.Resolver.Source = "FTP"
	_, err = NewSource(cfg, "key", "token")
	assert.Error(t, err)
}
