package brokerobs

import (
	"context"
	"errors"
	"time"

	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/trace"
	"anaam-stocks/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{
		broker: broker,
	}
}

func (ob *observableBroker) ExchangeToken(ctx context.Context, requestToken string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "broker.ExchangeToken")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Exchanging request token")

	token, err := ob.broker.ExchangeToken(ctx, requestToken)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to exchange request token", err)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Broker session created")
	return token, nil
}

// HistoricalCandles fetches candles with observability
func (ob *observableBroker) HistoricalCandles(ctx context.Context, accessToken string, instrumentToken int, from, to time.Time) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "broker.HistoricalCandles")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching historical candles",
		"instrument_token", instrumentToken,
		"from", from.Format(time.RFC3339),
		"to", to.Format(time.RFC3339),
	)

	candles, err := ob.broker.HistoricalCandles(ctx, accessToken, instrumentToken, from, to)
	if err != nil {
		ob.logFailure(ctx, "Failed to fetch candles", err, "instrument_token", instrumentToken)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Candles fetched successfully", "instrument_token", instrumentToken, "count", len(candles))
	return candles, nil
}

// LastPrice returns the last traded price with observability
func (ob *observableBroker) LastPrice(ctx context.Context, accessToken, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LastPrice")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching LTP", "symbol", symbol)

	price, err := ob.broker.LastPrice(ctx, accessToken, symbol)
	if err != nil {
		ob.logFailure(ctx, "Failed to fetch LTP", err, "symbol", symbol)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "LTP fetched successfully", "symbol", symbol, "price", price)
	return price, nil
}

func (ob *observableBroker) LoginURL(redirectTo string) string {
	return ob.broker.LoginURL(redirectTo)
}

// An expired token is routine, so it is a warning rather than an error.
func (ob *observableBroker) logFailure(ctx context.Context, msg string, err error, args ...any) {
	if errors.Is(err, types.ErrReauthRequired) {
		logger.Warn(ctx, msg+": access token rejected", args...)
		return
	}
	logger.ErrorWithErrSkip(ctx, 2, msg, err, args...)
}
