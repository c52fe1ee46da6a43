package types

// Candle is one daily OHLC record as returned by the broker.
type Candle struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// Metrics summarises a candle window. Values are not rounded.
type Metrics struct {
	PeriodHigh         float64 `json:"periodHigh"`
	PeriodLow          float64 `json:"periodLow"`
	PriceChange        float64 `json:"priceChange"`
	PriceChangePercent float64 `json:"priceChangePercent"`
}

type HistoricalResult struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	DateRange string   `json:"dateRange"`
	Candles   []Candle `json:"candles"`
}

type QuoteResult struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	LastPrice float64 `json:"lastPrice"`
}

type AnalysisRequest struct {
	Symbol    string
	DateRange string
	UserQuery string
}

// AnalysisResult carries the date range label, e.g. "Last 30 Days".
type AnalysisResult struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	DateRange string  `json:"dateRange"`
	Summary   string  `json:"summary"`
	Metrics   Metrics `json:"metrics"`
}

type AdviceRequest struct {
	Symbol    string
	DateRange string
}

// AdviceResult carries the date range key, e.g. "30d".
type AdviceResult struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	DateRange string  `json:"dateRange"`
	Advice    string  `json:"advice"`
	Metrics   Metrics `json:"metrics"`
}

// CompletionRequest is a single system + user exchange with a language model.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}
