package domain

import "testing"

func TestScoreTally_PressurePerformance(t *testing.T) {
	var tally ScoreTally
	if tally.PressurePerformance() != nil {
		t.Fatalf("expected undefined performance with no pressure games")
	}
	tally.RecordGame(1)
	tally.RecordPressureGame(1)
	tally.RecordGame(0.5)
	tally.RecordPressureGame(0.5)
	tally.RecordGame(0.5)
	tally.RecordPressureGame(0.5)
	perf := tally.PressurePerformance()
	if perf == nil || *perf != 0.67 {
		t.Fatalf("performance = %v, want 0.67", perf)
	}
}

func TestScoreTally_Merge(t *testing.T) {
	a := ScoreTally{Games: 2, Points: 1.5, PressureGames: 1, PressurePoints: 0.5}
	b := ScoreTally{Games: 3, Points: 1, PressureGames: 2, PressurePoints: 1}
	ab, ba := a, b
	ab.Merge(b)
	ba.Merge(a)
	if ab != ba {
		t.Fatalf("merge not commutative: %+v vs %+v", ab, ba)
	}
	if ab.Games != 5 || ab.Points != 2.5 || ab.PressureGames != 3 || ab.PressurePoints != 1.5 {
		t.Fatalf("merged tally: %+v", ab)
	}
}

func TestGameRecord_Label(t *testing.T) {
	g := &GameRecord{Index: 3, Headers: map[string]string{"White": "A", "Black": "B", "Round": "4.1"}}
	if got := g.Label(); got != "#3 A vs B (round 4.1)" {
		t.Fatalf("Label() = %q", got)
	}
	if (Ply{SideToMoveNext: SecondMover}).Mover() != FirstMover {
		t.Fatalf("mover should be the side not to move next")
	}
}
