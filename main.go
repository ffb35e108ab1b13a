package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/routle/internal/config"
	"github.com/robalobadob/routle/internal/daily"
	"github.com/robalobadob/routle/internal/httpserver"
	"github.com/robalobadob/routle/internal/metrics"
	"github.com/robalobadob/routle/internal/routes"
	"github.com/robalobadob/routle/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	catalog, err := routes.Open(cfg.RoutesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load route catalog")
	}
	cal, err := daily.LoadCalendar(cfg.Zone)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzle zone")
	}
	log.Info().Str("zone", cal.Location().String()).Stringer("today", cal.Today()).Msg("puzzle calendar")
	src, err := daily.SourceFor(cfg.RNG, cfg.Salt)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to pick puzzle rng")
	}

	var kv store.KV = store.NewMemory()
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open ledger database")
		}
		defer db.Close()
		kv = db
		log.Info().Str("path", cfg.DBPath).Msg("guess ledger on sqlite")
	} else {
		log.Warn().Msg("DB_PATH not set; guess ledger is in-memory")
	}

	m := metrics.NewCollector()
	m.CatalogRoutes.Set(float64(catalog.Len()))

	srv := httpserver.New(httpserver.Deps{
		Catalog:      catalog,
		Calendar:     cal,
		Source:       src,
		Store:        kv,
		MaxGuesses:   cfg.MaxGuesses,
		Metrics:      m,
		ClientOrigin: cfg.ClientOrigin,
		SecureCookie: cfg.SecureCookie,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Int("routes", catalog.Len()).
			Str("today", cal.Today().String()).
			Msg("starting routle server")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()
		return httpSrv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
