package types

import "sort"

type Instrument struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Token  int    `json:"token"`
}

type DateRange struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}

var instruments = map[string]Instrument{
	"RELIANCE":   {Symbol: "RELIANCE", Name: "Reliance Industries", Token: 738561},
	"TCS":        {Symbol: "TCS", Name: "Tata Consultancy Services", Token: 2953217},
	"HDFCBANK":   {Symbol: "HDFCBANK", Name: "HDFC Bank", Token: 341249},
	"INFY":       {Symbol: "INFY", Name: "Infosys", Token: 408065},
	"ICICIBANK":  {Symbol: "ICICIBANK", Name: "ICICI Bank", Token: 1270529},
	"HINDUNILVR": {Symbol: "HINDUNILVR", Name: "Hindustan Unilever", Token: 356865},
	"SBIN":       {Symbol: "SBIN", Name: "State Bank of India", Token: 779521},
	"BHARTIARTL": {Symbol: "BHARTIARTL", Name: "Bharti Airtel", Token: 2714625},
	"ITC":        {Symbol: "ITC", Name: "ITC Limited", Token: 424961},
	"KOTAKBANK":  {Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", Token: 492033},
	"LT":         {Symbol: "LT", Name: "Larsen & Toubro", Token: 2939649},
	"AXISBANK":   {Symbol: "AXISBANK", Name: "Axis Bank", Token: 1510401},
	"ASIANPAINT": {Symbol: "ASIANPAINT", Name: "Asian Paints", Token: 60417},
	"MARUTI":     {Symbol: "MARUTI", Name: "Maruti Suzuki", Token: 2815745},
	"HCLTECH":    {Symbol: "HCLTECH", Name: "HCL Technologies", Token: 1850625},
	"SUNPHARMA":  {Symbol: "SUNPHARMA", Name: "Sun Pharmaceutical", Token: 857857},
	"TATAMOTORS": {Symbol: "TATAMOTORS", Name: "Tata Motors", Token: 884737},
	"WIPRO":      {Symbol: "WIPRO", Name: "Wipro", Token: 969473},
	"BAJFINANCE": {Symbol: "BAJFINANCE", Name: "Bajaj Finance", Token: 81153},
	"TITAN":      {Symbol: "TITAN", Name: "Titan Company", Token: 897537},
}

var dateRanges = []DateRange{
	{Key: "7d", Label: "Last 7 Days", Days: 7},
	{Key: "30d", Label: "Last 30 Days", Days: 30},
	{Key: "1y", Label: "Last Year", Days: 365},
}

// LookupInstrument returns the instrument registered for symbol.
func LookupInstrument(symbol string) (Instrument, bool) {
	inst, ok := instruments[symbol]
	return inst, ok
}

// Instruments returns a copy of the instrument table sorted by symbol.
func Instruments() []Instrument {
	out := make([]Instrument, 0, len(instruments))
	for _, inst := range instruments {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func LookupDateRange(key string) (DateRange, bool) {
	for _, dr := range dateRanges {
		if dr.Key == key {
			return dr, true
		}
	}
	return DateRange{}, false
}

func DateRanges() []DateRange {
	out := make([]DateRange, len(dateRanges))
	copy(out, dateRanges)
	return out
}
