package pgnsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/Cheese-TimePressure/internal/domain"
	"go.uber.org/zap"
)

// headerKeys are the seven-tag roster entries copied into each GameRecord.
var headerKeys = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// Reader yields GameRecords from a PGN stream in file order.
type Reader struct {
	scanner *nchess.Scanner
	index   int
	logger  *zap.Logger
}

func NewReader(r io.Reader, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{scanner: nchess.NewScanner(r), logger: logger}
}

// Next returns io.EOF once every game has been read.
func (r *Reader) Next(ctx context.Context) (*domain.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.scanner.HasNext() {
		return nil, io.EOF
	}
	game, err := r.scanner.ParseNext()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("parse pgn game %d: %w", r.index+1, err)
	}
	r.index++
	rec := ToRecord(game, r.index)
	r.logger.Debug("pgn game read",
		zap.Int("index", rec.Index),
		zap.String("white", rec.White()),
		zap.String("black", rec.Black()),
		zap.Int("plies", len(rec.Plies)),
	)
	return rec, nil
}

// ToRecord converts a parsed game's mainline into a GameRecord.
func ToRecord(game *nchess.Game, index int) *domain.GameRecord {
	rec := &domain.GameRecord{Index: index, Headers: make(map[string]string, len(headerKeys))}
	if game == nil {
		return rec
	}
	for _, k := range headerKeys {
		if v := strings.TrimSpace(game.GetTagPair(k)); v != "" {
			rec.Headers[k] = v
		}
	}

	moves := game.Moves()
	positions := game.Positions()
	rec.Plies = make([]domain.Ply, 0, len(moves))
	for i, mv := range moves {
		next := domain.SecondMover
		if i%2 == 1 {
			next = domain.FirstMover
		}
		// positions[i+1] is the position after moves[i]
		if i+1 < len(positions) && positions[i+1] != nil {
			next = sideFromColor(positions[i+1].Turn())
		}
		rec.Plies = append(rec.Plies, domain.Ply{
			Annotation:     annotation(mv),
			SideToMoveNext: next,
		})
	}
	return rec
}

func sideFromColor(c nchess.Color) domain.Side {
	if c == nchess.Black {
		return domain.SecondMover
	}
	return domain.FirstMover
}

// annotation rebuilds the move comment including the clock command, which the
// parser keeps apart from the free text.
func annotation(mv *nchess.Move) string {
	if mv == nil {
		return ""
	}
	comment := strings.TrimSpace(mv.Comments())
	if strings.Contains(comment, "[%clk") {
		return comment
	}
	if clk, ok := mv.GetCommand("clk"); ok && strings.TrimSpace(clk) != "" {
		return strings.TrimSpace("[%clk " + strings.TrimSpace(clk) + "] " + comment)
	}
	return comment
}
