package model

import "time"

// Period selects the window of a historical series.
type Period string

const (
	Period1W Period = "1W"
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period1Y Period = "1Y"
)

// ParsePeriod validates a period string. An empty string selects 1M.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return Period1M, nil
	case Period1W, Period1M, Period3M, Period1Y:
		return p, nil
	default:
		return "", Validation("parse period", "unsupported period %q", s)
	}
}

// Days is the number of points a series for this period holds.
func (p Period) Days() int {
	switch p {
	case Period1W:
		return 7
	case Period1M:
		return 30
	case Period3M:
		return 90
	default:
		return 365
	}
}

// Weekly reports whether the period is served from weekly bars instead of daily ones.
func (p Period) Weekly() bool {
	return p == Period3M || p == Period1Y
}

// Interval is the bar width of an intraday series.
type Interval string

const (
	Interval5Min  Interval = "5min"
	Interval15Min Interval = "15min"
	Interval30Min Interval = "30min"
	Interval60Min Interval = "60min"
)

// MaxIntradayPoints caps intraday series length.
const MaxIntradayPoints = 100

// ParseInterval validates an interval string. An empty string selects 5min.
func ParseInterval(s string) (Interval, error) {
	switch i := Interval(s); i {
	case "":
		return Interval5Min, nil
	case Interval5Min, Interval15Min, Interval30Min, Interval60Min:
		return i, nil
	default:
		return "", Validation("parse interval", "unsupported interval %q", s)
	}
}

// Duration is the wall-clock width of one bar.
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval15Min:
		return 15 * time.Minute
	case Interval30Min:
		return 30 * time.Minute
	case Interval60Min:
		return time.Hour
	default:
		return 5 * time.Minute
	}
}
