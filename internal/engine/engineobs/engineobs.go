package engineobs

import (
	"context"
	"errors"
	"time"

	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/trace"
	"anaam-stocks/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Historical(ctx context.Context, sess interfaces.SessionStore, symbol, dateRange string) (*types.HistoricalResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Historical")
	defer span.End()

	start := time.Now()
	res, err := oe.engine.Historical(ctx, sess, symbol, dateRange)
	if err != nil {
		logFailure(ctx, "Historical request failed", err, start, "symbol", symbol, "date_range", dateRange)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Historical request completed",
		"symbol", symbol,
		"date_range", dateRange,
		"candles", len(res.Candles),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (oe *observableEngine) LastPrice(ctx context.Context, sess interfaces.SessionStore, symbol string) (*types.QuoteResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.LastPrice")
	defer span.End()

	start := time.Now()
	res, err := oe.engine.LastPrice(ctx, sess, symbol)
	if err != nil {
		logFailure(ctx, "LTP request failed", err, start, "symbol", symbol)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "LTP request completed",
		"symbol", symbol,
		"price", res.LastPrice,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (oe *observableEngine) Analyze(ctx context.Context, sess interfaces.SessionStore, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Analyze")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting analysis",
		"symbol", req.Symbol,
		"date_range", req.DateRange,
		"custom_query", req.UserQuery != "",
	)

	res, err := oe.engine.Analyze(ctx, sess, req)
	if err != nil {
		logFailure(ctx, "Analysis failed", err, start, "symbol", req.Symbol, "date_range", req.DateRange)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Analysis completed",
		"symbol", req.Symbol,
		"price_change_pct", res.Metrics.PriceChangePercent,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (oe *observableEngine) Advise(ctx context.Context, sess interfaces.SessionStore, req types.AdviceRequest) (*types.AdviceResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Advise")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting advice",
		"symbol", req.Symbol,
		"date_range", req.DateRange,
	)

	res, err := oe.engine.Advise(ctx, sess, req)
	if err != nil {
		logFailure(ctx, "Advice failed", err, start, "symbol", req.Symbol, "date_range", req.DateRange)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Advice completed",
		"symbol", req.Symbol,
		"price_change_pct", res.Metrics.PriceChangePercent,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Caller mistakes and expired sessions are warnings; everything else is an error.
func logFailure(ctx context.Context, msg string, err error, start time.Time, args ...any) {
	args = append(args, "duration_ms", time.Since(start).Milliseconds())

	var badSymbol *types.UnknownSymbolError
	var badRange *types.UnknownDateRangeError
	switch {
	case errors.As(err, &badSymbol), errors.As(err, &badRange),
		errors.Is(err, types.ErrNotAuthenticated), errors.Is(err, types.ErrReauthRequired),
		errors.Is(err, types.ErrNoData):
		logger.Warn(ctx, msg, append(args, "error", err)...)
	default:
		logger.ErrorWithErrSkip(ctx, 2, msg, err, args...)
	}
}
