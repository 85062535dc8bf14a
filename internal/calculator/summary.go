package calculator

import "MarketDashboard/internal/model"

// Summary describes a charted series: its vertical bounds and the move over the window.
type Summary struct {
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Spread        float64 `json:"spread"`
	First         float64 `json:"first"`
	Last          float64 `json:"last"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Position      float64 `json:"position"`
}

// Summarize computes the chart summary of a series. Bars that carry a high/low band
// (intraday) are bounded by it; otherwise the closes are used.
func Summarize(points []model.Point) (Summary, error) {
	high, low, err := CloseRange(points)
	if err != nil {
		return Summary{}, err
	}
	if hasBands(points) {
		high, low, _ = BarRange(points)
	}

	first, last := points[0].Close, points[len(points)-1].Close
	pos, err := RangePosition(last, high, low)
	if err != nil {
		return Summary{}, err
	}
	change := last - first
	return Summary{
		High:          high,
		Low:           low,
		Spread:        model.Round(high-low, 5),
		First:         first,
		Last:          last,
		Change:        model.Round(change, 5),
		ChangePercent: model.Round(model.ChangePercent(change, first), 2),
		Position:      model.Round(pos, 4),
	}, nil
}

func hasBands(points []model.Point) bool {
	for _, p := range points {
		if p.High <= 0 || p.Low <= 0 || p.High < p.Low {
			return false
		}
	}
	return true
}
