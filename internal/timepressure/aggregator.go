package timepressure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/park285/Cheese-TimePressure/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultThresholdSeconds = 120
	DefaultWindowSize       = 10
)

// GameSource yields games in file order and returns io.EOF when exhausted.
type GameSource interface {
	Next(ctx context.Context) (*domain.GameRecord, error)
}

type Options struct {
	ThresholdSeconds int
	WindowSize       int
}

func DefaultOptions() Options {
	return Options{ThresholdSeconds: DefaultThresholdSeconds, WindowSize: DefaultWindowSize}
}

func (o Options) Validate() error {
	if o.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidOption, o.WindowSize)
	}
	if o.ThresholdSeconds < 0 {
		return fmt.Errorf("%w: threshold must not be negative, got %d", ErrInvalidOption, o.ThresholdSeconds)
	}
	return nil
}

type Aggregator struct {
	opts   Options
	logger *zap.Logger
}

func NewAggregator(opts Options, logger *zap.Logger) (*Aggregator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{opts: opts, logger: logger}, nil
}

func (a *Aggregator) Options() Options { return a.opts }

// tallyBook maps a player name to its running tally.
type tallyBook map[string]*domain.ScoreTally

func (b tallyBook) player(name string) *domain.ScoreTally {
	t, ok := b[name]
	if !ok {
		t = &domain.ScoreTally{}
		b[name] = t
	}
	return t
}

func (b tallyBook) merge(other tallyBook) {
	for name, t := range other {
		b.player(name).Merge(*t)
	}
}

// Run consumes src to the end and returns the per-player report.
// Any malformed or empty clock data aborts the whole run.
func (a *Aggregator) Run(ctx context.Context, src GameSource) (*domain.Report, error) {
	if src == nil {
		return nil, fmt.Errorf("nil game source")
	}
	book := tallyBook{}
	event := ""
	games := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		game, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read game %d: %w", games+1, err)
		}
		if games == 0 {
			event = game.Event()
		}
		if err := a.apply(book, game); err != nil {
			return nil, err
		}
		games++
	}
	a.logger.Info("time pressure aggregation done",
		zap.Int("games", games),
		zap.Int("players", len(book)),
		zap.Int("threshold_sec", a.opts.ThresholdSeconds),
		zap.Int("window", a.opts.WindowSize),
	)
	return a.report(book, event, games), nil
}

// RunParallel aggregates an already-read game list across workers.
// Each worker fills a private book; books are merged in partition order.
func (a *Aggregator) RunParallel(ctx context.Context, games []*domain.GameRecord, workers int) (*domain.Report, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(games) {
		workers = len(games)
	}
	event := ""
	if len(games) > 0 {
		event = games[0].Event()
	}
	if workers <= 1 {
		book := tallyBook{}
		for _, g := range games {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := a.apply(book, g); err != nil {
				return nil, err
			}
		}
		return a.report(book, event, len(games)), nil
	}

	books := make([]tallyBook, workers)
	errs := make([]error, workers)
	chunk := (len(games) + workers - 1) / workers
	// Partitions do not cancel each other: each runs to its own first error
	// so the lowest failing partition is known.
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo > len(games) {
			lo = len(games)
		}
		hi := lo + chunk
		if hi > len(games) {
			hi = len(games)
		}
		idx := w
		part := games[lo:hi]
		eg.Go(func() error {
			book := tallyBook{}
			for _, g := range part {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					return err
				}
				if err := a.apply(book, g); err != nil {
					errs[idx] = err
					return err
				}
			}
			books[idx] = book
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// earliest failing partition, as a sequential run would report
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}

	merged := tallyBook{}
	for _, b := range books {
		merged.merge(b)
	}
	a.logger.Info("time pressure parallel aggregation done",
		zap.Int("games", len(games)),
		zap.Int("players", len(merged)),
		zap.Int("workers", workers),
	)
	return a.report(merged, event, len(games)), nil
}

// ReadAll drains src into memory, for RunParallel.
func ReadAll(ctx context.Context, src GameSource) ([]*domain.GameRecord, error) {
	var games []*domain.GameRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return games, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read game %d: %w", len(games)+1, err)
		}
		games = append(games, g)
	}
}

func (a *Aggregator) apply(book tallyBook, game *domain.GameRecord) error {
	if game == nil {
		return fmt.Errorf("nil game record")
	}
	white, black := game.White(), game.Black()
	wPts, bPts, ok := OutcomePoints(game.Result())
	if !ok {
		a.logger.Warn("unrecognized game result, scoring as 0-0",
			zap.String("game", game.Label()),
			zap.String("result", game.Result()),
		)
	}

	whiteTally := book.player(white)
	blackTally := book.player(black)
	whiteTally.RecordGame(wPts)
	blackTally.RecordGame(bPts)

	first, second, err := BuildSeries(game)
	if err != nil {
		return err
	}
	wPressure, err := Classify(first, a.opts.WindowSize, a.opts.ThresholdSeconds)
	if err != nil {
		return &GameError{Game: game.Label(), Err: fmt.Errorf("%s clock: %w", domain.FirstMover, err)}
	}
	bPressure, err := Classify(second, a.opts.WindowSize, a.opts.ThresholdSeconds)
	if err != nil {
		return &GameError{Game: game.Label(), Err: fmt.Errorf("%s clock: %w", domain.SecondMover, err)}
	}
	if wPressure {
		whiteTally.RecordPressureGame(wPts)
	}
	if bPressure {
		blackTally.RecordPressureGame(bPts)
	}

	if ce := a.logger.Check(zap.DebugLevel, "time pressure verdict"); ce != nil {
		ce.Write(
			zap.String("game", game.Label()),
			zap.Float64("white_mean", TrailingMean(first, a.opts.WindowSize)),
			zap.Float64("black_mean", TrailingMean(second, a.opts.WindowSize)),
			zap.Bool("white_pressure", wPressure),
			zap.Bool("black_pressure", bPressure),
		)
	}
	return nil
}

// OutcomePoints maps a PGN result to white and black points.
// ok is false for anything other than 1-0, 0-1 and 1/2-1/2.
func OutcomePoints(result string) (white, black float64, ok bool) {
	switch result {
	case domain.ResultWhiteWins:
		return 1, 0, true
	case domain.ResultBlackWins:
		return 0, 1, true
	case domain.ResultDraw:
		return 0.5, 0.5, true
	default:
		return 0, 0, false
	}
}

func (a *Aggregator) report(book tallyBook, event string, games int) *domain.Report {
	names := make([]string, 0, len(book))
	for name := range book {
		names = append(names, name)
	}
	sort.Strings(names)

	players := make([]domain.PlayerRecord, 0, len(names))
	for _, name := range names {
		t := *book[name]
		players = append(players, domain.PlayerRecord{
			Name:                name,
			ScoreTally:          t,
			PressurePerformance: t.PressurePerformance(),
		})
	}
	return &domain.Report{
		Event:     event,
		Threshold: a.opts.ThresholdSeconds,
		Window:    a.opts.WindowSize,
		Games:     games,
		Players:   players,
	}
}
