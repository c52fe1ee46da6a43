package interfaces

import (
	"context"
	"time"

	"anaam-stocks/internal/types"
)

// Broker is the stateless market-data and login surface of the broker.
// It never mutates the session; a rejected access token is reported as an
// error matching types.ErrReauthRequired.
type Broker interface {
	ExchangeToken(ctx context.Context, requestToken string) (string, error)
	HistoricalCandles(ctx context.Context, accessToken string, instrumentToken int, from, to time.Time) ([]types.Candle, error)
	LastPrice(ctx context.Context, accessToken, symbol string) (float64, error)
	LoginURL(redirectTo string) string
}
