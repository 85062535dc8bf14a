package export

import "MarketDashboard/internal/model"

// Row is the flat export record of one bar.
type Row struct {
	Symbol    string  `json:"symbol" parquet:"symbol"`
	Timestamp int64   `json:"t" parquet:"t"`
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Volume    int64   `json:"v,omitempty" parquet:"v"`
}

// Rows flattens a series. Timestamps are Unix milliseconds.
func Rows(s model.Series) []Row {
	rows := make([]Row, len(s.Points))
	for i, p := range s.Points {
		rows[i] = Row{
			Symbol:    s.Symbol,
			Timestamp: p.Time.UnixMilli(),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		}
	}
	return rows
}
