package interfaces

import (
	"context"

	"anaam-stocks/internal/types"
)

type Engine interface {
	Historical(ctx context.Context, sess SessionStore, symbol, dateRange string) (*types.HistoricalResult, error)
	LastPrice(ctx context.Context, sess SessionStore, symbol string) (*types.QuoteResult, error)
	Analyze(ctx context.Context, sess SessionStore, req types.AnalysisRequest) (*types.AnalysisResult, error)
	Advise(ctx context.Context, sess SessionStore, req types.AdviceRequest) (*types.AdviceResult, error)
}
