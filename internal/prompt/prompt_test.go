package prompt

import (
	"fmt"
	"strings"
	"testing"

	"anaam-stocks/internal/types"
)

func makeCandles(n int) []types.Candle {
	out := make([]types.Candle, n)
	for i := range out {
		out[i] = types.Candle{
			Timestamp: fmt.Sprintf("2024-01-%02dT00:00:00+0530", i+1),
			Open:      100 + float64(i),
			High:      110.5 + float64(i),
			Low:       95.25,
			Close:     105 + float64(i),
			Volume:    int64(1000 * (i + 1)),
		}
	}
	return out
}

func TestFormatCandlesShortBlock(t *testing.T) {
	out := FormatCandles(makeCandles(3))
	lines := strings.Split(out, "\n")

	if len(lines) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "Date, Open, High, Low, Close, Volume" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if lines[1] != "2024-01-01, 100, 110.5, 95.25, 105, 1000" {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
}

func TestFormatCandlesNeverTruncatesUpTo20(t *testing.T) {
	for n := 0; n <= 20; n++ {
		out := FormatCandles(makeCandles(n))
		lines := strings.Split(out, "\n")
		if len(lines) != n+1 {
			t.Errorf("n=%d: expected %d lines, got %d", n, n+1, len(lines))
		}
		if strings.Contains(out, "omitted") {
			t.Errorf("n=%d: unexpected truncation marker", n)
		}
	}
}

func TestFormatCandlesTruncatesLongBlock(t *testing.T) {
	for _, n := range []int{21, 25, 250} {
		candles := makeCandles(n)
		lines := strings.Split(FormatCandles(candles), "\n")

		if len(lines) != 22 {
			t.Fatalf("n=%d: expected header + 21 lines, got %d", n, len(lines))
		}
		marker := fmt.Sprintf("... (%d rows omitted) ...", n-20)
		if lines[11] != marker {
			t.Errorf("n=%d: expected marker %q at line 11, got %q", n, marker, lines[11])
		}
		if !strings.HasPrefix(lines[1], day(candles[0].Timestamp)) {
			t.Errorf("n=%d: first row should be the first candle, got %q", n, lines[1])
		}
		if !strings.HasPrefix(lines[21], day(candles[n-1].Timestamp)) {
			t.Errorf("n=%d: last row should be the last candle, got %q", n, lines[21])
		}
	}
}

func TestFormatCandlesMarkerForTwentyFive(t *testing.T) {
	out := FormatCandles(makeCandles(25))
	if !strings.Contains(out, "... (5 rows omitted) ...") {
		t.Errorf("Expected 5 omitted rows marker, got:\n%s", out)
	}
}

func TestAnalysisPrompt(t *testing.T) {
	inst, _ := types.LookupInstrument("INFY")
	dr, _ := types.LookupDateRange("30d")
	m := types.Metrics{PeriodHigh: 1650.456, PeriodLow: 1500, PriceChange: -12.5, PriceChangePercent: -0.8123}

	p := Analysis(inst, dr, m, makeCandles(2), "")

	if !strings.Contains(p.System, "Do not provide investment advice") {
		t.Errorf("Analysis system prompt must forbid advice, got %q", p.System)
	}
	for _, want := range []string{
		"Stock: Infosys (INFY)",
		"Period: Last 30 Days",
		"- Period High: ₹1650.46",
		"- Period Low: ₹1500.00",
		"- Price Change: ₹-12.50 (-0.81%)",
		"Historical Data (2 trading days):",
		"Provide a comprehensive performance analysis of this stock.",
	} {
		if !strings.Contains(p.User, want) {
			t.Errorf("Expected user prompt to contain %q, got:\n%s", want, p.User)
		}
	}

	p = Analysis(inst, dr, m, makeCandles(2), "How volatile was it?")
	if !strings.HasSuffix(p.User, "How volatile was it?") {
		t.Errorf("Expected user query at the end, got:\n%s", p.User)
	}
}

func TestAdvicePrompt(t *testing.T) {
	inst, _ := types.LookupInstrument("TCS")
	dr, _ := types.LookupDateRange("1y")

	p := Advice(inst, dr, types.Metrics{}, makeCandles(1))

	if !strings.Contains(p.System, "past 365 days") || !strings.Contains(p.System, "buy, hold or sell") {
		t.Errorf("Unexpected advice system prompt: %q", p.System)
	}
	if !strings.Contains(p.User, "Stock: Tata Consultancy Services (TCS)") {
		t.Errorf("Unexpected advice user prompt:\n%s", p.User)
	}
}
