package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_finder/internal/adapters/hotelbeds"
	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/app"
	"hotel_finder/internal/shared"
	mysqlrepo "hotel_finder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "hotel-finder-ingestor")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is required for ingestion")
	}
	if len(cfg.IngestHotelCodes) == 0 {
		log.Fatal().Msg("INGEST_HOTEL_CODES is empty; nothing to ingest")
	}

	log.Info().
		Str("base", cfg.HotelbedsBase).
		Int("workers", cfg.IngestWorkers).
		Int("hotels", len(cfg.IngestHotelCodes)).
		Int("batch", cfg.StaticBatchSize).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	repo := mysqlrepo.New(db)
	if err := repo.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	client, err := hotelbeds.New(hotelbeds.Options{
		BaseURL:     cfg.HotelbedsBase,
		APIKey:      cfg.HotelbedsKey,
		Secret:      cfg.HotelbedsSecret,
		Language:    cfg.HotelbedsLanguage,
		RPS:         cfg.ProviderRPS,
		MaxInFlight: cfg.ProviderInFlight,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Hotelbeds client")
	}

	ing := app.NewIngestionService(client, repo, cfg.IngestAttempts)
	sem := semaphore.NewWeighted(int64(max(cfg.IngestWorkers, 1)))
	var (
		wg     sync.WaitGroup
		stored atomic.Int64
		failed atomic.Int64
	)

	codes := cfg.IngestHotelCodes
	size := max(cfg.StaticBatchSize, 1)
	for start := 0; start < len(codes); start += size {
		batch := codes[start:min(start+size, len(codes))]

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion interrupted")
			break
		}

		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := ing.IngestBatch(ctx, batch)
			if err != nil {
				failed.Add(int64(len(batch)))
				log.Warn().Err(err).Str("first", batch[0]).Int("size", len(batch)).Msg("ingest failed")
				return
			}
			stored.Add(int64(n))
			log.Info().Str("first", batch[0]).Int("stored", n).Msg("ingest ok")
		}(batch)
	}

	wg.Wait()
	log.Info().Int64("stored", stored.Load()).Int64("failed", failed.Load()).Msg("ingestion completed")
}
