package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/session"
	"anaam-stocks/internal/types"
)

type fakeBroker struct{}

func (fakeBroker) ExchangeToken(ctx context.Context, requestToken string) (string, error) {
	return "access-" + requestToken, nil
}
func (fakeBroker) HistoricalCandles(ctx context.Context, accessToken string, instrumentToken int, from, to time.Time) ([]types.Candle, error) {
	return nil, nil
}
func (fakeBroker) LastPrice(ctx context.Context, accessToken, symbol string) (float64, error) {
	return 0, nil
}
func (fakeBroker) LoginURL(redirectTo string) string {
	return "https://kite.test/login?r=" + redirectTo
}

type fakeEngine struct {
	err      error
	gotRange string
	gotQuery string
}

func (f *fakeEngine) Historical(ctx context.Context, sess interfaces.SessionStore, symbol, dateRange string) (*types.HistoricalResult, error) {
	f.gotRange = dateRange
	if f.err != nil {
		return nil, f.err
	}
	return &types.HistoricalResult{Symbol: symbol, DateRange: dateRange, Candles: []types.Candle{{Close: 10}}}, nil
}

func (f *fakeEngine) LastPrice(ctx context.Context, sess interfaces.SessionStore, symbol string) (*types.QuoteResult, error) {
	return &types.QuoteResult{Symbol: symbol, Name: "Infosys", LastPrice: 1520.5}, f.err
}

func (f *fakeEngine) Analyze(ctx context.Context, sess interfaces.SessionStore, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	f.gotRange, f.gotQuery = req.DateRange, req.UserQuery
	if f.err != nil {
		return nil, f.err
	}
	return &types.AnalysisResult{Symbol: req.Symbol, Name: "Infosys", DateRange: "Last Year", Summary: "Up.", Metrics: types.Metrics{PeriodHigh: 125, PeriodLow: 90, PriceChange: 21, PriceChangePercent: 21}}, nil
}

func (f *fakeEngine) Advise(ctx context.Context, sess interfaces.SessionStore, req types.AdviceRequest) (*types.AdviceResult, error) {
	f.gotRange = req.DateRange
	return &types.AdviceResult{Symbol: req.Symbol, Name: "Infosys", DateRange: req.DateRange, Advice: "Hold."}, f.err
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testApp(eng *fakeEngine) *App {
	return &App{Broker: fakeBroker{}, Engine: eng, Session: session.NewStatic("tok")}
}

func TestLoginURLCommand(t *testing.T) {
	out, err := run(t, testApp(&fakeEngine{}), "login-url", "--redirect-to", "/x")
	require.NoError(t, err)
	assert.Equal(t, "https://kite.test/login?r=/x\n", out)
}

func TestSessionCommand(t *testing.T) {
	app := testApp(&fakeEngine{})
	out, err := run(t, app, "session", "rt1")
	require.NoError(t, err)
	assert.Equal(t, "KITE_ACCESS_TOKEN=access-rt1\n", out)

	tok, _ := app.Session.Token()
	assert.Equal(t, "access-rt1", tok)
}

func TestHistoryCommandPrintsJSON(t *testing.T) {
	eng := &fakeEngine{}
	out, err := run(t, testApp(eng), "history", "infy", "-r", "7d")
	require.NoError(t, err)
	assert.Equal(t, "7d", eng.gotRange)

	var res types.HistoricalResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "INFY", res.Symbol)
	assert.Len(t, res.Candles, 1)
}

func TestLTPCommand(t *testing.T) {
	out, err := run(t, testApp(&fakeEngine{}), "ltp", "INFY")
	require.NoError(t, err)
	assert.Equal(t, "INFY (Infosys): ₹1520.50\n", out)
}

func TestAnalyzeCommand(t *testing.T) {
	eng := &fakeEngine{}
	out, err := run(t, testApp(eng), "analyze", "INFY", "--range", "1y", "--query", "volatile?")
	require.NoError(t, err)

	assert.Equal(t, "1y", eng.gotRange)
	assert.Equal(t, "volatile?", eng.gotQuery)
	assert.Contains(t, out, "Infosys (INFY), Last Year")
	assert.Contains(t, out, "High ₹125.00  Low ₹90.00  Change ₹21.00 (21.00%)")
	assert.True(t, strings.HasSuffix(out, "Up.\n"))
}

func TestAdviseCommandDefaultRange(t *testing.T) {
	eng := &fakeEngine{}
	out, err := run(t, testApp(eng), "advise", "TCS")
	require.NoError(t, err)
	assert.Equal(t, "30d", eng.gotRange)
	assert.Contains(t, out, "Hold.")
}

func TestSessionErrorsExplainNextStep(t *testing.T) {
	_, err := run(t, testApp(&fakeEngine{err: types.ErrNotAuthenticated}), "history", "INFY")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotAuthenticated))
	assert.Contains(t, err.Error(), "KITE_ACCESS_TOKEN")
}

func TestCommandsRequireSymbol(t *testing.T) {
	for _, name := range []string{"history", "ltp", "analyze", "advise"} {
		_, err := run(t, testApp(&fakeEngine{}), name)
		assert.Error(t, err, name)
	}
}
