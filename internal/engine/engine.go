package engine

import (
	"context"
	"errors"
	"time"

	"anaam-stocks/internal/broker/zerodha"
	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/prompt"
	"anaam-stocks/internal/store"
	"anaam-stocks/internal/ta"
	"anaam-stocks/internal/types"
)

const (
	analysisFallback = "Failed to generate analysis."
	adviceFallback   = "Failed to generate advice."
)

type Engine struct {
	cfg       *store.Config
	brk       interfaces.Broker
	completer interfaces.Completer
	now       func() time.Time
}

func newEngine(cfg *store.Config, brk interfaces.Broker, c interfaces.Completer) *Engine {
	return &Engine{cfg: cfg, brk: brk, completer: c, now: time.Now}
}

// window is a validated request: instrument, range and the candles covering it.
type window struct {
	inst    types.Instrument
	dr      types.DateRange
	candles []types.Candle
}

func (e *Engine) Historical(ctx context.Context, sess interfaces.SessionStore, symbol, dateRange string) (*types.HistoricalResult, error) {
	w, err := e.fetch(ctx, sess, symbol, dateRange)
	if err != nil {
		return nil, err
	}
	return &types.HistoricalResult{
		Symbol:    w.inst.Symbol,
		Name:      w.inst.Name,
		DateRange: w.dr.Key,
		Candles:   w.candles,
	}, nil
}

func (e *Engine) LastPrice(ctx context.Context, sess interfaces.SessionStore, symbol string) (*types.QuoteResult, error) {
	inst, ok := types.LookupInstrument(symbol)
	if !ok {
		return nil, &types.UnknownSymbolError{Symbol: symbol}
	}
	token, ok := sess.Token()
	if !ok {
		return nil, types.ErrNotAuthenticated
	}

	price, err := e.brk.LastPrice(ctx, token, inst.Symbol)
	if err != nil {
		return nil, e.upstream(ctx, sess, err)
	}
	return &types.QuoteResult{Symbol: inst.Symbol, Name: inst.Name, LastPrice: price}, nil
}

func (e *Engine) Analyze(ctx context.Context, sess interfaces.SessionStore, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	op := logger.StartOperation(ctx, "engine.analyze", "symbol", req.Symbol, "date_range", req.DateRange)
	ctx = op.GetContext()

	w, err := e.fetch(ctx, sess, req.Symbol, req.DateRange)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	m := ta.PeriodMetrics(w.candles)
	p := prompt.Analysis(w.inst, w.dr, m, w.candles, req.UserQuery)

	text, err := e.complete(ctx, p, analysisFallback)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	op.End("candles", len(w.candles))
	return &types.AnalysisResult{
		Symbol:    w.inst.Symbol,
		Name:      w.inst.Name,
		DateRange: w.dr.Label,
		Summary:   text,
		Metrics:   m,
	}, nil
}

func (e *Engine) Advise(ctx context.Context, sess interfaces.SessionStore, req types.AdviceRequest) (*types.AdviceResult, error) {
	op := logger.StartOperation(ctx, "engine.advise", "symbol", req.Symbol, "date_range", req.DateRange)
	ctx = op.GetContext()

	w, err := e.fetch(ctx, sess, req.Symbol, req.DateRange)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	m := ta.PeriodMetrics(w.candles)
	p := prompt.Advice(w.inst, w.dr, m, w.candles)

	text, err := e.complete(ctx, p, adviceFallback)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	op.End("candles", len(w.candles))
	return &types.AdviceResult{
		Symbol:    w.inst.Symbol,
		Name:      w.inst.Name,
		DateRange: w.dr.Key,
		Advice:    text,
		Metrics:   m,
	}, nil
}

// fetch validates the request before touching the network, then loads candles
// for [now-days, now].
func (e *Engine) fetch(ctx context.Context, sess interfaces.SessionStore, symbol, rangeKey string) (*window, error) {
	inst, ok := types.LookupInstrument(symbol)
	if !ok {
		return nil, &types.UnknownSymbolError{Symbol: symbol}
	}
	dr, ok := types.LookupDateRange(rangeKey)
	if !ok {
		return nil, &types.UnknownDateRangeError{Key: rangeKey}
	}
	token, ok := sess.Token()
	if !ok {
		return nil, types.ErrNotAuthenticated
	}

	to := e.now().In(zerodha.IST)
	from := to.AddDate(0, 0, -dr.Days)

	candles, err := e.brk.HistoricalCandles(ctx, token, inst.Token, from, to)
	if err != nil {
		return nil, e.upstream(ctx, sess, err)
	}
	if len(candles) == 0 {
		logger.Warn(ctx, "No candles returned", "symbol", inst.Symbol, "date_range", dr.Key)
		return nil, types.ErrNoData
	}

	logger.Debug(ctx, "Candles loaded", "symbol", inst.Symbol, "count", len(candles))
	return &window{inst: inst, dr: dr, candles: candles}, nil
}

// upstream clears the session once when the broker rejected the access token.
func (e *Engine) upstream(ctx context.Context, sess interfaces.SessionStore, err error) error {
	if errors.Is(err, types.ErrReauthRequired) {
		logger.Info(ctx, "Access token rejected, clearing session")
		sess.Clear()
	}
	return err
}

func (e *Engine) complete(ctx context.Context, p prompt.Prompt, fallback string) (string, error) {
	text, err := e.completer.Complete(ctx, types.CompletionRequest{
		System:      p.System,
		User:        p.User,
		MaxTokens:   e.cfg.LLM.MaxTokens,
		Temperature: e.cfg.LLM.Temperature,
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		logger.Warn(ctx, "Model returned no text, using fallback")
		return fallback, nil
	}
	return text, nil
}
