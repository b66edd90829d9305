package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/park285/Cheese-TimePressure/internal/config"
	"github.com/park285/Cheese-TimePressure/internal/domain"
	"github.com/park285/Cheese-TimePressure/internal/msgcat"
	"github.com/park285/Cheese-TimePressure/internal/obslog"
	"github.com/park285/Cheese-TimePressure/internal/pgnsource"
	"github.com/park285/Cheese-TimePressure/internal/report"
	"github.com/park285/Cheese-TimePressure/internal/reportstore"
	"github.com/park285/Cheese-TimePressure/internal/timepressure"
	"go.uber.org/zap"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("time pressure analysis failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

type cliFlags struct {
	input   string
	saveCSV bool
	chart   string
	asJSON  bool
	noCache bool
}

// parseFlags layers command-line flags over the loaded configuration.
func parseFlags(args []string, cfg *config.AppConfig, stderr io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet("time-pressure", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cli := &cliFlags{}
	fs.StringVar(&cli.input, "input", "", "input pgn file or http(s) url (required)")
	fs.IntVar(&cfg.ThresholdSeconds, "time-pressure-sec", cfg.ThresholdSeconds, "average remaining seconds at or below which a player is in time pressure")
	fs.IntVar(&cfg.WindowSize, "last-n-moves", cfg.WindowSize, "number of trailing moves per player to average")
	fs.BoolVar(&cli.saveCSV, "save-csv", false, "save the report as <input stem>.csv in the output dir")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel aggregation workers")
	fs.StringVar(&cli.chart, "chart", "", "write a PNG bar chart to this path")
	fs.BoolVar(&cli.asJSON, "json", false, "print the report as JSON")
	fs.BoolVar(&cli.noCache, "no-cache", false, "skip the redis report cache")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cli.input) == "" {
		fs.Usage()
		return nil, fmt.Errorf("--input is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cli, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cli, err := parseFlags(args, cfg, os.Stderr)
	if err != nil {
		return err
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return fmt.Errorf("message catalog: %w", err)
	}

	fetcher := pgnsource.NewFetcher(pgnsource.WithTimeout(cfg.FetchTimeout))
	pgn, err := pgnsource.Load(ctx, cli.input, fetcher)
	if err != nil {
		return err
	}

	cache := openCache(ctx, cfg, cli.noCache, logger)
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	rep, err := analyze(ctx, cfg, pgn, cache, logger)
	if err != nil {
		return err
	}

	// 아카이브 실패 시 출력 전에 종료 (부분 출력 없음)
	if cfg.DatabaseURL != "" {
		if err := archive(ctx, cfg.DatabaseURL, cli.input, rep, logger); err != nil {
			return err
		}
	}

	if cli.asJSON {
		if err := report.WriteJSON(stdout, rep); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	} else if err := report.NewWriter(cat).WriteText(stdout, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cli.saveCSV {
		path := report.CSVPath(cfg.OutputDir, cli.input)
		if err := report.SaveCSV(path, rep); err != nil {
			return err
		}
		logger.Info(cat.RenderOr("report.saved_csv", map[string]any{"Path": path}, "csv saved"), zap.String("path", path))
	}
	if cli.chart != "" {
		path := cli.chart
		if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
			path = filepath.Join(cfg.OutputDir, path)
		}
		if err := report.SaveChartPNG(ctx, path, rep, cat); err != nil {
			return err
		}
		logger.Info(cat.RenderOr("report.saved_chart", map[string]any{"Path": path}, "chart saved"), zap.String("path", path))
	}
	return nil
}

// analyze returns the cached report for this input and options, or aggregates it.
func analyze(ctx context.Context, cfg *config.AppConfig, pgn []byte, cache *reportstore.Cache, logger *zap.Logger) (*domain.Report, error) {
	key := reportstore.Key(pgn, cfg.ThresholdSeconds, cfg.WindowSize)
	if cache != nil {
		rep, err := cache.Get(ctx, key)
		if err != nil {
			logger.Warn("report cache read failed", zap.Error(err))
		} else if rep != nil {
			logger.Info("report cache hit", zap.String("key", key))
			return rep, nil
		}
	}

	agg, err := timepressure.NewAggregator(cfg.Options(), logger)
	if err != nil {
		return nil, err
	}
	src := pgnsource.NewReader(bytes.NewReader(pgn), logger)

	var rep *domain.Report
	if cfg.Workers > 1 {
		games, err := timepressure.ReadAll(ctx, src)
		if err != nil {
			return nil, err
		}
		rep, err = agg.RunParallel(ctx, games, cfg.Workers)
		if err != nil {
			return nil, err
		}
	} else {
		rep, err = agg.Run(ctx, src)
		if err != nil {
			return nil, err
		}
	}

	if cache != nil {
		if err := cache.Put(ctx, key, rep); err != nil {
			logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return rep, nil
}

// openCache는 캐시 비활성화 또는 redis 연결 실패 시 nil을 반환 (경고만 남기고 계속 진행).
func openCache(ctx context.Context, cfg *config.AppConfig, disabled bool, logger *zap.Logger) *reportstore.Cache {
	if disabled || strings.TrimSpace(cfg.RedisURL) == "" {
		return nil
	}
	cache, err := reportstore.Dial(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Warn("report cache unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return cache
}

func archive(ctx context.Context, databaseURL, source string, rep *domain.Report, logger *zap.Logger) error {
	store, err := reportstore.OpenArchive(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	runID, err := store.SaveRun(ctx, source, rep)
	if err != nil {
		return err
	}
	logger.Info("report archived", zap.String("run_id", runID.String()), zap.Int("players", len(rep.Players)))
	return nil
}
