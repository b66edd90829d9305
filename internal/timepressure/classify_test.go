package timepressure

import (
	"errors"
	"testing"

	"github.com/park285/Cheese-TimePressure/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		series    domain.ClockSeries
		window    int
		threshold int
		want      bool
	}{
		{"short game uses all readings", domain.ClockSeries{100, 95, 70}, 10, 120, true},
		{"mean equal to threshold counts", domain.ClockSeries{130, 110}, 10, 120, true},
		{"mean just above threshold", domain.ClockSeries{130, 111}, 10, 120, false},
		{"only trailing window counted", domain.ClockSeries{5, 5, 5, 500, 500}, 2, 120, false},
		{"trailing window low", domain.ClockSeries{900, 900, 900, 60, 50}, 2, 120, true},
		{"single reading", domain.ClockSeries{121}, 10, 120, false},
		{"zero threshold", domain.ClockSeries{0, 0}, 10, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.series, tc.window, tc.threshold)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Classify(%v, %d, %d)=%v want %v", tc.series, tc.window, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestClassify_EmptySeries(t *testing.T) {
	if _, err := Classify(nil, 10, 120); !errors.Is(err, ErrInsufficientMoveData) {
		t.Fatalf("expected ErrInsufficientMoveData, got %v", err)
	}
}

func TestClassify_InvalidWindow(t *testing.T) {
	if _, err := Classify(domain.ClockSeries{1}, 0, 120); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	s := domain.ClockSeries{200, 150, 100, 90}
	a, _ := Classify(s, 3, 120)
	b, _ := Classify(s, 3, 120)
	if a != b {
		t.Fatalf("classification not deterministic")
	}
}

func TestTrailingMean(t *testing.T) {
	got := TrailingMean(domain.ClockSeries{100, 95, 70}, 10)
	if got < 88.33 || got > 88.34 {
		t.Fatalf("TrailingMean=%v", got)
	}
}
