package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	formstore "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/store"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/notify"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/config"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/database"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/health"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/httpserver"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/logger"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/privacy"
	platformredis "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/redis"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/ratelimit"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/handler"
	submissionmetrics "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/metrics"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/service"
	submissionstore "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/store"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/tracer"
	httptransport "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/transport/http"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/widget"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/platform/middleware/metadata"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/platform/middleware/request"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing canopy-forms",
		"addr", cfg.Addr,
		"rate_limit", cfg.RateLimit,
		"rate_window", cfg.RateWindow.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthHandler := health.New(envOr("CANOPY_ENV", "development"))

	// Stores: Postgres when configured, in-memory otherwise.
	var forms formstore.Store
	var submissions submissionstore.Store
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		forms = formstore.NewPostgres(pool.DB())
		submissions = submissionstore.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
		defer pool.Close() //nolint:errcheck // shutdown path
	} else {
		log.Warn("no database configured, using in-memory stores")
		forms = formstore.NewInMemory()
		submissions = submissionstore.NewInMemory()
	}

	// Rate limiter: Redis when configured so replicas share a window,
	// otherwise the in-process store with a background sweeper.
	var limiter ratelimit.Limiter
	var sweeper *ratelimit.CleanupWorker
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient.Client)
		healthHandler.RegisterCheck("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(checkCtx)
		})
		defer redisClient.Close() //nolint:errcheck // shutdown path
	} else {
		memLimiter := ratelimit.NewMemoryLimiter()
		limiter = memLimiter
		sweeper = ratelimit.NewCleanupWorker(memLimiter, ratelimit.WithLogger(log))
	}

	// Notifications: SES when configured, log sink otherwise.
	var sink notify.Sink
	if cfg.SESRegion != "" && cfg.NotifySender != "" {
		sesSink, err := notify.NewSESSink(ctx, cfg.SESRegion, cfg.NotifySender)
		if err != nil {
			log.Error("ses init failed", "error", err)
			os.Exit(1)
		}
		sink = sesSink
	} else {
		sink = notify.NewLogSink(log)
	}
	subMetrics := submissionmetrics.New()
	dispatcher := notify.NewDispatcher(sink, log,
		notify.WithDropCallback(subMetrics.IncrementNotificationsDropped))
	defer dispatcher.Close()

	svc := service.NewService(
		forms,
		submissions,
		limiter,
		privacy.NewHasher(cfg.IPHashKey),
		log,
		service.WithNotifier(dispatcher),
		service.WithMetrics(subMetrics),
		service.WithTracer(tracer.NewOTel()),
		service.WithRateLimit(cfg.RateLimit, cfg.RateWindow),
	)

	renderer, err := widget.NewRenderer()
	if err != nil {
		log.Error("widget renderer init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(
		httptransport.Config{
			BodyLimit: cfg.BodyLimit,
			Metadata:  &metadata.Config{TrustedProxies: cfg.TrustedProxies},
			Latency:   request.NewMetrics(),
		},
		handler.New(svc, log),
		widget.NewHandler(forms, renderer, log),
		healthHandler,
		log,
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if sweeper != nil {
		g.Go(func() error {
			if err := sweeper.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
