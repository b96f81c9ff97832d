package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/agenttool"
	"hotel_finder/internal/adapters/hotelbeds"
	server "hotel_finder/internal/adapters/http_server"
	"hotel_finder/internal/adapters/kafka"
	"hotel_finder/internal/adapters/memory"
	"hotel_finder/internal/adapters/observability"
	redisad "hotel_finder/internal/adapters/redis"
	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/shared"
	mysqlrepo "hotel_finder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "hotel-finder-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// static cache: redis when configured, in-process otherwise
	var cache domain.Cache = memory.New()
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		defer rc.Close()
		cache = rc
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
	}

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

	invOpts := []app.InventoryOption{
		app.WithStaticBatchSize(cfg.StaticBatchSize),
		app.WithStaticTTL(cfg.StaticTTL()),
	}
	var catalog domain.HotelCatalog
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		repo := mysqlrepo.New(db)
		if err := repo.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		catalog = repo
		invOpts = append(invOpts, app.WithCatalog(repo))
	}
	inv := app.NewInventory(client, cache, invOpts...)

	searchOpts := []app.SearchOption{
		app.WithSearchTimeout(cfg.SearchTimeout()),
		app.WithTopN(cfg.DefaultTopN, cfg.MaxTopN),
	}
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaSearchTopic)
		defer p.Close()
		searchOpts = append(searchOpts, app.WithEvents(p))
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaSearchTopic).Msg("search events enabled")
	}
	search := app.NewSearchService(inv, searchOpts...)

	// http
	srv := server.New(cfg.SearchTimeout() + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Search:  search,
		Catalog: catalog,
		Tools:   agenttool.NewDispatcher(search),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
