package ta

import "anaam-stocks/internal/types"

// PeriodMetrics computes high, low and close-to-close change over candles,
// which are expected in ascending time order. Empty input yields zero metrics.
func PeriodMetrics(candles []types.Candle) types.Metrics {
	if len(candles) == 0 {
		return types.Metrics{}
	}

	high, low := candles[0].High, candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	firstClose := candles[0].Close
	change := candles[len(candles)-1].Close - firstClose

	return types.Metrics{
		PeriodHigh:         high,
		PeriodLow:          low,
		PriceChange:        change,
		PriceChangePercent: change / firstClose * 100,
	}
}
