package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	cluster "github.com/yyyoichi/subsidy_cluster"
	"github.com/yyyoichi/subsidy_cluster/chart"
	"github.com/yyyoichi/subsidy_cluster/housing"
)

type config struct {
	csvPath   string
	dbPath    string
	importCSV bool
	k         int
	maxIter   int
	seed      uint64
	strategy  string
	outDir    string
	logFormat string
	verbose   bool
	noChart   bool
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("housingcluster", flag.ContinueOnError)
	fs.StringVar(&cfg.csvPath, "csv", "data/cleaned_subsidized_housing.csv", "Path to the cleaned CSV file")
	fs.StringVar(&cfg.dbPath, "db", "", "Path to a SQLite record store; records are read from it unless -import is set")
	fs.BoolVar(&cfg.importCSV, "import", false, "Import the CSV file into the -db store, replacing its records, before clustering")
	fs.IntVar(&cfg.k, "k", cluster.DefaultK, "Number of clusters")
	fs.IntVar(&cfg.maxIter, "max-iter", cluster.DefaultMaxIterations, "Maximum k-means refinement steps")
	fs.Uint64Var(&cfg.seed, "seed", cluster.DefaultSeed, "Seed for k-means++ initialization")
	fs.StringVar(&cfg.strategy, "init", "kmeans++", "Centroid initialization: kmeans++ or spaced")
	fs.StringVar(&cfg.outDir, "out", "output", "Directory for chart files")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "Log format: text or json")
	fs.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&cfg.noChart, "no-chart", false, "Do not write a chart file")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.importCSV && cfg.dbPath == "" {
		return config{}, errors.New("-import requires -db")
	}
	return cfg, nil
}

func (c config) initStrategy() (cluster.Init, error) {
	switch c.strategy {
	case "kmeans++", "":
		return cluster.InitPlusPlus, nil
	case "spaced":
		return cluster.InitSpaced, nil
	default:
		return 0, fmt.Errorf("unknown -init %q", c.strategy)
	}
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	logger := newLogger(os.Stderr, cfg.logFormat, cfg.verbose)
	if err := run(context.Background(), cfg, os.Stdout, logger); err != nil {
		logger.Error("clustering failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, out io.Writer, logger *slog.Logger) error {
	strategy, err := cfg.initStrategy()
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d cleaned housing entries.\n", len(records))

	res, err := cluster.Run(records,
		cluster.WithK(cfg.k),
		cluster.WithMaxIterations(cfg.maxIter),
		cluster.WithSeed(cfg.seed),
		cluster.WithInit(strategy),
		cluster.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	printSummary(out, res)

	if cfg.noChart {
		return nil
	}
	path, err := chart.WriteFile(cfg.outDir, records, res)
	if err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(out, "Saved plot to %s\n", path)
	return nil
}

func loadRecords(ctx context.Context, cfg config, logger *slog.Logger) ([]housing.Record, error) {
	if cfg.dbPath != "" && !cfg.importCSV {
		store, err := housing.Open(cfg.dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Records(ctx)
	}

	loaded, err := housing.LoadCSVFile(ctx, cfg.csvPath)
	if err != nil {
		return nil, err
	}
	for _, msg := range loaded.Errors {
		logger.Warn("skipping invalid row", slog.String("reason", msg))
	}
	if loaded.Skipped > 0 {
		logger.Info("csv loaded", slog.Int("rows", loaded.Total), slog.Int("skipped", loaded.Skipped))
	}
	if !cfg.importCSV {
		return loaded.Records, nil
	}

	store, err := housing.Open(cfg.dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	n, err := store.Replace(ctx, loaded.Records)
	if err != nil {
		return nil, err
	}
	logger.Info("records imported", slog.String("db", cfg.dbPath), slog.Int("records", n))
	return loaded.Records, nil
}
