package timepressure

import (
	"fmt"

	"github.com/park285/Cheese-TimePressure/internal/domain"
)

// Classify reports whether the mean of the last window readings is at or below
// thresholdSeconds. Shorter series use every reading they have.
func Classify(series domain.ClockSeries, window, thresholdSeconds int) (bool, error) {
	if window <= 0 {
		return false, fmt.Errorf("%w: window size %d", ErrInvalidOption, window)
	}
	if len(series) == 0 {
		return false, ErrInsufficientMoveData
	}
	start := len(series) - window
	if start < 0 {
		start = 0
	}
	tail := series[start:]
	sum := 0
	for _, v := range tail {
		sum += v
	}
	// sum/n <= threshold without float rounding
	return sum <= thresholdSeconds*len(tail), nil
}

// TrailingMean is the value Classify compares, exposed for logging.
func TrailingMean(series domain.ClockSeries, window int) float64 {
	if len(series) == 0 || window <= 0 {
		return 0
	}
	start := len(series) - window
	if start < 0 {
		start = 0
	}
	sum := 0
	for _, v := range series[start:] {
		sum += v
	}
	return float64(sum) / float64(len(series)-start)
}
