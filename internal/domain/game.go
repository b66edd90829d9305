package domain

import (
	"fmt"
	"strings"
)

// Side identifies which player moves on a given ply.
type Side int

const (
	FirstMover Side = iota
	SecondMover
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == FirstMover {
		return SecondMover
	}
	return FirstMover
}

func (s Side) String() string {
	switch s {
	case FirstMover:
		return "white"
	case SecondMover:
		return "black"
	default:
		return "unknown"
	}
}

// Ply is one half-move with the free-text comment that follows it.
type Ply struct {
	Annotation     string
	SideToMoveNext Side
}

// Mover is the side whose clock the annotation reports.
func (p Ply) Mover() Side {
	return p.SideToMoveNext.Other()
}

// GameRecord is a tokenized game as delivered by a GameSource.
type GameRecord struct {
	Index   int
	Headers map[string]string
	Plies   []Ply
}

const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
)

func (g *GameRecord) header(key string) string {
	if g == nil || g.Headers == nil {
		return ""
	}
	return strings.TrimSpace(g.Headers[key])
}

func (g *GameRecord) White() string  { return g.header("White") }
func (g *GameRecord) Black() string  { return g.header("Black") }
func (g *GameRecord) Result() string { return g.header("Result") }
func (g *GameRecord) Event() string  { return g.header("Event") }

// Label identifies the game in log lines and errors.
func (g *GameRecord) Label() string {
	if g == nil {
		return "<nil game>"
	}
	label := fmt.Sprintf("#%d %s vs %s", g.Index, g.White(), g.Black())
	if round := g.header("Round"); round != "" && round != "?" {
		label += " (round " + round + ")"
	}
	return label
}

// ClockSeries holds one side's remaining seconds in play order.
type ClockSeries []int
