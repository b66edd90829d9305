package timepressure

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedClockAnnotation = errors.New("malformed clock annotation")
	ErrInsufficientMoveData     = errors.New("insufficient move data")
	ErrInvalidOption            = errors.New("invalid time pressure option")
)

// ClockError reports the raw annotation that could not be read as a clock.
type ClockError struct {
	Annotation string
	Reason     string
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("%s: %s in %q", ErrMalformedClockAnnotation, e.Reason, e.Annotation)
}

func (e *ClockError) Unwrap() error { return ErrMalformedClockAnnotation }

// GameError ties a fatal error to the game it came from.
type GameError struct {
	Game string
	Err  error
}

func (e *GameError) Error() string {
	return fmt.Sprintf("game %s: %v", e.Game, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }
