package timepressure

import (
	"regexp"
	"strconv"
	"strings"
)

var clockTag = regexp.MustCompile(`\[%clk\s+([^\]\s]+)\s*\]`)

// maxClockComponent bounds each H, MM and SS part so the total fits in an int.
const maxClockComponent = 1_000_000

// ParseClock returns the remaining seconds of a [%clk H:MM:SS] tag.
func ParseClock(annotation string) (int, error) {
	m := clockTag.FindStringSubmatch(annotation)
	if m == nil {
		return 0, &ClockError{Annotation: annotation, Reason: "no clock tag"}
	}
	parts := strings.Split(m[1], ":")
	if len(parts) != 3 {
		return 0, &ClockError{Annotation: annotation, Reason: "expected H:MM:SS"}
	}
	var vals [3]int
	for i, p := range parts {
		if !isDigits(p) {
			return 0, &ClockError{Annotation: annotation, Reason: "non-numeric time component " + strconv.Quote(p)}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > maxClockComponent {
			return 0, &ClockError{Annotation: annotation, Reason: "time component out of range " + strconv.Quote(p)}
		}
		vals[i] = n
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
