package timepressure

import (
	"fmt"

	"github.com/park285/Cheese-TimePressure/internal/domain"
)

// BuildSeries splits a game's clock readings into the first and second mover's series.
// The annotation after a ply belongs to the side that just moved.
func BuildSeries(game *domain.GameRecord) (first, second domain.ClockSeries, err error) {
	if game == nil {
		return nil, nil, fmt.Errorf("nil game record")
	}
	first = make(domain.ClockSeries, 0, len(game.Plies)/2+1)
	second = make(domain.ClockSeries, 0, len(game.Plies)/2+1)
	for i, ply := range game.Plies {
		sec, perr := ParseClock(ply.Annotation)
		if perr != nil {
			return nil, nil, &GameError{Game: game.Label(), Err: fmt.Errorf("ply %d: %w", i+1, perr)}
		}
		if ply.Mover() == domain.FirstMover {
			first = append(first, sec)
		} else {
			second = append(second, sec)
		}
	}
	return first, second, nil
}
