package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"capital_metrics/pkg/core/config"
	"capital_metrics/pkg/core/engine"
	"capital_metrics/pkg/core/store"
	"capital_metrics/pkg/models"
)

func main() {
	ticker := flag.String("ticker", "", "ticker symbol to evaluate")
	dataDir := flag.String("data", "data", "directory with per-ticker statement snapshots")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: spread -ticker AAPL [-data dir] [-config file]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, assuming environment variables are set")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx := context.Background()

	st, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer cleanup()

	eng := engine.New(&engine.FileProvider{Dir: *dataDir}, store.NewCache(st, cfg.TTLDays))

	result, err := eng.Evaluate(ctx, *ticker, engine.Options{
		Years:             cfg.Years,
		RiskFreeRate:      cfg.RiskFreeRate,
		MarketRiskPremium: cfg.MarketRiskPremium,
		Beta:              cfg.Beta,
		Sensitivity:       cfg.Sensitivity,
	})
	if err != nil {
		log.Fatal().Str("ticker", *ticker).Err(err).Msg("evaluation failed")
	}

	rec := models.NewRecord(uuid.NewString(), *ticker, result, cfg.TTLDays, time.Now())
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode result failed")
	}
	fmt.Println(string(out))
}

// buildStore picks Postgres when DATABASE_URL is configured, file
// otherwise.
func buildStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		if err := store.InitDB(ctx); err != nil {
			return nil, nil, err
		}
		pg := store.NewPGStore(store.GetPool())
		if err := pg.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return pg, store.Close, nil
	}
	fs, err := store.NewFileStore(cfg.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}
