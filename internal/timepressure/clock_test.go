package timepressure

import (
	"errors"
	"testing"

	"github.com/park285/Cheese-TimePressure/internal/domain"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"[%clk 1:02:03]", 3723},
		{"[%clk 0:15:20]", 920},
		{"{ [%clk 0:00:00] }", 0},
		{"[%clk 12:0:5]", 43205},
		{"[%eval 0.3] [%clk 0:01:59] good move", 119},
		{"[%clk  0:02:00 ]", 120},
		{"[%clk 100:00:00]", 360000},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseClock(%q)=%d want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseClock_Malformed(t *testing.T) {
	for _, in := range []string{
		"no clock here",
		"",
		"[%clk 15:20]",
		"[%clk 0:15:20:01]",
		"[%clk 0:aa:20]",
		"[%clk 0:-1:20]",
		"[%clk 0:02:59.9]",
		"[%clk 99999999999999999:00:00]",
		"[%clk 99999999999999999999:00:00]",
		"[%clk 0:00:1000001]",
	} {
		_, err := ParseClock(in)
		if !errors.Is(err, ErrMalformedClockAnnotation) {
			t.Fatalf("ParseClock(%q): expected malformed error, got %v", in, err)
		}
		var ce *ClockError
		if !errors.As(err, &ce) || ce.Annotation != in {
			t.Fatalf("ParseClock(%q): expected ClockError carrying the annotation, got %v", in, err)
		}
	}
}

func TestBuildSeries_SplitsByMover(t *testing.T) {
	g := newGame(1, "A", "B", "1-0", 300, 290, 280, 270, 260)
	first, second, err := BuildSeries(g)
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}
	if !equalSeries(first, domain.ClockSeries{300, 280, 260}) {
		t.Fatalf("first mover series: %v", first)
	}
	if !equalSeries(second, domain.ClockSeries{290, 270}) {
		t.Fatalf("second mover series: %v", second)
	}
}

func TestBuildSeries_MalformedNamesGame(t *testing.T) {
	g := newGame(7, "Carlsen", "Nakamura", "1-0", 300, 290)
	g.Plies[1].Annotation = "no clock here"
	_, _, err := BuildSeries(g)
	if !errors.Is(err, ErrMalformedClockAnnotation) {
		t.Fatalf("expected malformed clock error, got %v", err)
	}
	var ge *GameError
	if !errors.As(err, &ge) || ge.Game != "#7 Carlsen vs Nakamura" {
		t.Fatalf("expected game label in error, got %v", err)
	}
}

func equalSeries(a, b domain.ClockSeries) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
