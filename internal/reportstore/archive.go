package reportstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/park285/Cheese-TimePressure/internal/domain"
)

// Schema creates the archive tables when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS time_pressure_runs (
    run_id            UUID PRIMARY KEY,
    event             TEXT NOT NULL,
    source            TEXT NOT NULL,
    threshold_seconds INTEGER NOT NULL,
    window_size       INTEGER NOT NULL,
    games             INTEGER NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS time_pressure_players (
    run_id                UUID NOT NULL REFERENCES time_pressure_runs(run_id) ON DELETE CASCADE,
    name                  TEXT NOT NULL,
    games                 INTEGER NOT NULL,
    points                DOUBLE PRECISION NOT NULL,
    games_under_pressure  INTEGER NOT NULL,
    points_under_pressure DOUBLE PRECISION NOT NULL,
    pressure_performance  DOUBLE PRECISION,
    PRIMARY KEY (run_id, name)
);`

// Execer is the subset of *sql.DB used inside a transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Archive stores every finished report in Postgres.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db, now: time.Now}
}

// OpenArchive opens and pings the database at databaseURL.
func OpenArchive(ctx context.Context, databaseURL string) (*Archive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewArchive(db), nil
}

func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create archive schema: %w", err)
	}
	return nil
}

// SaveRun writes the run and its player rows in one transaction and returns the run ID.
func (a *Archive) SaveRun(ctx context.Context, source string, rep *domain.Report) (uuid.UUID, error) {
	if rep == nil {
		return uuid.Nil, fmt.Errorf("nil report")
	}
	runID := uuid.New()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin archive tx: %w", err)
	}
	if err := insertRun(ctx, tx, runID, source, rep, a.now()); err != nil {
		_ = tx.Rollback()
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit archive tx: %w", err)
	}
	return runID, nil
}

func insertRun(ctx context.Context, ex Execer, runID uuid.UUID, source string, rep *domain.Report, at time.Time) error {
	const runQuery = `
		INSERT INTO time_pressure_runs (
			run_id, event, source, threshold_seconds, window_size, games, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := ex.ExecContext(ctx, runQuery,
		runID.String(), rep.Event, strings.TrimSpace(source), rep.Threshold, rep.Window, rep.Games, at,
	); err != nil {
		return fmt.Errorf("insert time pressure run: %w", err)
	}

	const playerQuery = `
		INSERT INTO time_pressure_players (
			run_id, name, games, points, games_under_pressure, points_under_pressure, pressure_performance
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, p := range rep.Players {
		var perf sql.NullFloat64
		if p.PressurePerformance != nil {
			perf = sql.NullFloat64{Float64: *p.PressurePerformance, Valid: true}
		}
		if _, err := ex.ExecContext(ctx, playerQuery,
			runID.String(), p.Name, p.Games, p.Points, p.PressureGames, p.PressurePoints, perf,
		); err != nil {
			return fmt.Errorf("insert player %q: %w", p.Name, err)
		}
	}
	return nil
}
