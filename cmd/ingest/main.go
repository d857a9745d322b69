package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"inmoscan/internal/config"
	"inmoscan/internal/db"
	"inmoscan/internal/ingest"
	"inmoscan/internal/logger"
	"inmoscan/internal/pkg/catastro"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	path := flag.String("file", "", "spreadsheet to ingest (.xlsx, .csv or .xls/.html)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logger.NewFromConfig(cfg.LogLevel, cfg.LogFormat)

	if *path == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	if err := run(cfg, log, *path); err != nil {
		log.Fatal().Stack().Err(err).Msg("Ingestion failed")
	}
}

// run keeps every deferred cleanup inside a function that returns, so main
// only exits after the file and signal handler are released.
func run(cfg *config.Config, log zerolog.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	conn, err := db.InitDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	// Ctrl-C stops after the current row
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	pipeline := ingest.NewPipeline(db.NewAuctionRepository(conn), catastro.New(cfg.CatastroTimeout, log), log)

	log.Info().Str("file", path).Msg("Starting ingestion")

	summary, err := pipeline.IngestFile(ctx, path, f)
	if err != nil {
		return err
	}

	out := struct {
		*ingest.Summary
		Failures []ingest.RowOutcome `json:"failures"`
	}{summary, summary.Failures()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "write summary")
}
