package calculator

import (
	"errors"
	"math"

	"MarketDashboard/internal/model"
)

// ErrNoPoints is returned when a range is requested over an empty series.
var ErrNoPoints = errors.New("no points provided")

// CloseRange returns the highest and lowest close of the series.
func CloseRange(points []model.Point) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, ErrNoPoints
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range points {
		high = math.Max(high, p.Close)
		low = math.Min(low, p.Close)
	}
	return high, low, nil
}

// BarRange returns the highest high and the lowest low of the series.
func BarRange(points []model.Point) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, ErrNoPoints
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range points {
		high = math.Max(high, p.High)
		low = math.Min(low, p.Low)
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high], clamped to 0.0~1.0.
// A flat range places every price in the middle.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
