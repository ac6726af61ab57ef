package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/handwash-service/internal/config"
	"github.com/iliyamo/handwash-service/internal/database"
	"github.com/iliyamo/handwash-service/internal/handler"
	"github.com/iliyamo/handwash-service/internal/middleware"
	"github.com/iliyamo/handwash-service/internal/model"
	"github.com/iliyamo/handwash-service/internal/queue"
	"github.com/iliyamo/handwash-service/internal/repository"
	"github.com/iliyamo/handwash-service/internal/router"
	"github.com/iliyamo/handwash-service/internal/service"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("database setup failed: %v", err)
	}
	defer db.Close()

	// Keep serving when the database is down; storage routes answer 500
	// until it comes back.
	if err := database.Ping(db, cfg.DB.ConnectTimeout); err != nil {
		log.Printf("database connection failed: %v", err)
	} else {
		log.Printf("connected to %s database", cfg.DB.Driver)
		if cfg.DB.AutoMigrate {
			if err := repository.CreateSchema(context.Background(), db, cfg.DB.Driver, cfg.DB.Table); err != nil {
				log.Fatalf("schema setup failed: %v", err)
			}
		}
	}

	repo, err := repository.NewObservationRepo(db, cfg.DB.Driver, cfg.DB.Table)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var hooks []handler.RecordedHook

	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, nil)
	if cacheCfg.Enabled {
		if rdb := config.NewRedisClient(); rdb != nil {
			defer rdb.Close()
			cache = middleware.NewRedisCache(cacheCfg, rdb)
			purge := middleware.CachePurger(cacheCfg, rdb)
			hooks = append(hooks, func(ctx context.Context, _ model.Observation) error { return purge(ctx) })
			log.Printf("response cache enabled (ttl=%s)", cacheCfg.TTL)
		} else {
			log.Printf("redis unavailable; response cache disabled")
		}
	}

	eventsCfg := config.LoadEventsConfig()
	if eventsCfg.Enabled {
		pub := &service.Publisher{URL: eventsCfg.URL, Queue: eventsCfg.Queue}
		hooks = append(hooks, pub.Hook)
	}
	if eventsCfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: eventsCfg.URL, Queue: eventsCfg.Queue, LogDir: eventsCfg.LogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("observation consumer stopped: %v", err)
			}
		}()
	}

	e := router.New(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		BodyLimit:   cfg.BodyLimit,
		AccessLog:   true,
	})
	router.RegisterRoutes(e, &handler.HealthHandler{Pinger: repo})
	obs := handler.NewObservationHandler(repo, cfg.RecordsLimit, cfg.StatsMode == config.StatsRaw, hooks...)
	router.RegisterObservations(e, obs, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := serve(ctx, e, addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

// serve runs e until ctx is cancelled or the listener fails, then shuts it
// down.  Errors come back to the caller so deferred cleanup in main runs.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		log.Printf("shutting down")
	case err = <-serveErr:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := e.Shutdown(shutdownCtx); serr != nil {
		log.Printf("shutdown: %v", serr)
	}
	return err
}
