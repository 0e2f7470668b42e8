package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/liftplan/internal/config"
	"github.com/meltforce/liftplan/internal/ingest/sheet"
	"github.com/meltforce/liftplan/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	workbookPath := flag.String("workbook", "", "path to plan workbook .xlsx (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *workbookPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftplan-import -config config.yaml -workbook /path/to/plan.xlsx\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*workbookPath)
	if err != nil {
		log.Error("failed to open workbook", "path", *workbookPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Run import
	ingestor := sheet.NewIngestor(db, log)
	result, err := ingestor.Ingest(ctx, f)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete", "days", result.Days, "dates", result.Dates)
}
