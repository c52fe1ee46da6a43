package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"anaam-stocks/internal/types"
)

const (
	header = "Date, Open, High, Low, Close, Volume"

	// Rows kept from each end of a long candle block.
	edgeRows = 10

	defaultQuery = "Provide a comprehensive performance analysis of this stock."

	analystSystem = `You are a stock market analyst specializing in Indian equities.
Analyze the provided historical OHLC (Open, High, Low, Close) data and give a performance summary.
Focus on: price trends, volatility, percentage change, key observations, and potential patterns.
Keep the response concise (2-3 paragraphs) and professional.
Do not provide investment advice or recommendations.`

	advisorSystem = "You are a trading guru. Given data on share prices over the past %d days, " +
		"write a report of no more than 150 words describing the stocks performance " +
		"and recommending whether to buy, hold or sell."
)

// Prompt is the system instruction and user message sent to the model.
type Prompt struct {
	System string
	User   string
}

// FormatCandles renders candles as CSV-like lines under a header. Blocks longer
// than 20 rows keep the first and last 10 and note how many were dropped.
func FormatCandles(candles []types.Candle) string {
	rows := make([]string, len(candles))
	for i, c := range candles {
		rows[i] = strings.Join([]string{
			day(c.Timestamp),
			num(c.Open),
			num(c.High),
			num(c.Low),
			num(c.Close),
			strconv.FormatInt(c.Volume, 10),
		}, ", ")
	}

	var b strings.Builder
	b.WriteString(header)
	if len(rows) > 2*edgeRows {
		writeLines(&b, rows[:edgeRows])
		fmt.Fprintf(&b, "\n... (%d rows omitted) ...", len(rows)-2*edgeRows)
		writeLines(&b, rows[len(rows)-edgeRows:])
		return b.String()
	}
	writeLines(&b, rows)
	return b.String()
}

// Analysis builds the performance-summary prompt. userQuery may be empty.
func Analysis(inst types.Instrument, dr types.DateRange, m types.Metrics, candles []types.Candle, userQuery string) Prompt {
	query := strings.TrimSpace(userQuery)
	if query == "" {
		query = defaultQuery
	}
	return Prompt{
		System: analystSystem,
		User:   dataBlock(inst, dr, m, candles) + "\n\n" + query,
	}
}

// Advice builds the buy/hold/sell recommendation prompt.
func Advice(inst types.Instrument, dr types.DateRange, m types.Metrics, candles []types.Candle) Prompt {
	return Prompt{
		System: fmt.Sprintf(advisorSystem, dr.Days),
		User:   dataBlock(inst, dr, m, candles),
	}
}

func dataBlock(inst types.Instrument, dr types.DateRange, m types.Metrics, candles []types.Candle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock: %s (%s)\n", inst.Name, inst.Symbol)
	fmt.Fprintf(&b, "Period: %s\n\n", dr.Label)
	b.WriteString("Summary Statistics:\n")
	fmt.Fprintf(&b, "- Period High: %s\n", Rupees(m.PeriodHigh))
	fmt.Fprintf(&b, "- Period Low: %s\n", Rupees(m.PeriodLow))
	fmt.Fprintf(&b, "- Price Change: %s (%s%%)\n\n", Rupees(m.PriceChange), fixed2(m.PriceChangePercent))
	fmt.Fprintf(&b, "Historical Data (%d trading days):\n", len(candles))
	b.WriteString(FormatCandles(candles))
	return b.String()
}

// Rupees renders an amount with the rupee sign and two decimals.
func Rupees(v float64) string {
	return "₹" + fixed2(v)
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteByte('\n')
		b.WriteString(l)
	}
}

// day cuts an ISO timestamp down to its calendar date.
func day(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[:i]
	}
	return ts
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
