package domain

import "math"

// ScoreTally accumulates one player's games and points.
// PressureGames never exceeds Games.
type ScoreTally struct {
	Games          int     `json:"games"`
	Points         float64 `json:"points"`
	PressureGames  int     `json:"games_under_pressure"`
	PressurePoints float64 `json:"points_under_pressure"`
}

func (t *ScoreTally) RecordGame(points float64) {
	t.Games++
	t.Points += points
}

func (t *ScoreTally) RecordPressureGame(points float64) {
	t.PressureGames++
	t.PressurePoints += points
}

// Merge adds other into t field by field.
func (t *ScoreTally) Merge(other ScoreTally) {
	t.Games += other.Games
	t.Points += other.Points
	t.PressureGames += other.PressureGames
	t.PressurePoints += other.PressurePoints
}

// PressurePerformance is PressurePoints/PressureGames rounded to two decimals,
// or nil when the player was never under pressure.
func (t ScoreTally) PressurePerformance() *float64 {
	if t.PressureGames == 0 {
		return nil
	}
	v := math.Round(t.PressurePoints/float64(t.PressureGames)*100) / 100
	return &v
}

// PlayerRecord is one row of the emitted report.
type PlayerRecord struct {
	Name string `json:"name"`
	ScoreTally
	PressurePerformance *float64 `json:"pressure_performance"`
}

// Report is the full result of one aggregation pass.
type Report struct {
	Event     string         `json:"event"`
	Threshold int            `json:"threshold_seconds"`
	Window    int            `json:"window_size"`
	Games     int            `json:"games"`
	Players   []PlayerRecord `json:"players"`
}

// Player looks up a record by name.
func (r *Report) Player(name string) (PlayerRecord, bool) {
	if r == nil {
		return PlayerRecord{}, false
	}
	for _, p := range r.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerRecord{}, false
}
