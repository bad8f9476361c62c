package main

import (
	"context"
	"errors"
	"eventBooking/internal/bootstrap"
	"eventBooking/internal/config"
	"eventBooking/internal/http-server/handlers/auth/login"
	"eventBooking/internal/http-server/handlers/auth/signup"
	"eventBooking/internal/http-server/handlers/booking/cancelBooking"
	"eventBooking/internal/http-server/handlers/booking/createBooking"
	"eventBooking/internal/http-server/handlers/booking/getMyBookings"
	"eventBooking/internal/http-server/handlers/event/createEvent"
	"eventBooking/internal/http-server/handlers/event/deleteEvent"
	"eventBooking/internal/http-server/handlers/event/getAllEvents"
	"eventBooking/internal/http-server/handlers/event/getEventInfo"
	"eventBooking/internal/http-server/handlers/event/updateEvent"
	"eventBooking/internal/http-server/handlers/health"
	"eventBooking/internal/http-server/middleware/mwauth"
	"eventBooking/internal/http-server/middleware/mwlogger"
	"eventBooking/internal/http-server/middleware/mwmetrics"
	"eventBooking/internal/http-server/middleware/mwratelimit"
	"eventBooking/internal/lib/logger/handlers/slogpretty"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/lib/upload"
	"eventBooking/internal/reconcile"
	"eventBooking/internal/storage/postgres"
	redisstore "eventBooking/internal/storage/redis"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting event booking", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Error("invalid booking timezone", sl.Err(err), slog.String("timezone", cfg.Booking.Timezone))
		os.Exit(1)
	}

	if cfg.Database.Migrate {
		if err = postgres.Migrate(&cfg.Database); err != nil {
			log.Error("failed to apply migrations", sl.Err(err))
			os.Exit(1)
		}
		log.Info("migrations applied")
	}

	storage, err := postgres.InitDB(&cfg.Database, loc)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = bootstrap.EnsureAdmin(ctx, log, storage, cfg.Admin); err != nil {
		log.Error("failed to bootstrap admin account", sl.Err(err))
		os.Exit(1)
	}

	var cache redis.Cmdable
	redisClient := setupRedis(log, &cfg.Redis)
	if redisClient != nil {
		cache = redisClient
	}

	images := upload.NewImageSaver(cfg.Uploads.Dir, cfg.Uploads.MaxSize, cfg.Uploads.MaxDimension)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwlogger.New(log))
	router.Use(mwmetrics.New())
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/healthz", health.New(log, storage.DB, cache))
	router.Handle("/metrics", promhttp.Handler())

	fs := http.FileServer(http.Dir(images.Dir()))
	router.Handle(upload.PublicPrefix+"*", http.StripPrefix(upload.PublicPrefix, fs))

	router.Route("/auth", func(r chi.Router) {
		if cache != nil {
			r.Use(mwratelimit.New(log, cache, "auth", cfg.RateLimit.Requests, cfg.RateLimit.Window))
		}

		r.Post("/signup", signup.New(log, storage, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
		r.Post("/login", login.New(log, storage, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	})

	router.Route("/events", func(r chi.Router) {
		r.Get("/", getAllEvents.New(log, storage))
		r.Get("/{id}", getEventInfo.New(log, storage))

		r.Group(func(r chi.Router) {
			r.Use(mwauth.New(log, cfg.Auth.JWTSecret))
			r.Use(mwauth.RequireAdmin)

			r.Post("/", createEvent.New(log, storage, images))
			r.Patch("/{id}", updateEvent.New(log, storage, images))
			r.Delete("/{id}", deleteEvent.New(log, storage))
		})
	})

	router.Route("/bookings", func(r chi.Router) {
		r.Use(mwauth.New(log, cfg.Auth.JWTSecret))

		r.Post("/", createBooking.New(log, storage))
		r.Get("/me", getMyBookings.New(log, storage))
		r.Delete("/{id}", cancelBooking.New(log, storage))
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go reconcile.Run(ctx, log, storage, cfg.Booking.ReconcileInterval)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if redisClient != nil {
		if err = redisClient.Close(); err != nil {
			log.Error("failed to close redis connection", sl.Err(err))
		}
	}

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

// setupRedis connects to Redis when an address is configured. The service
// keeps running without it; only the auth rate limiter depends on Redis.
func setupRedis(log *slog.Logger, cfg *config.Redis) *redis.Client {
	if cfg.Address == "" {
		log.Info("redis is not configured, auth rate limiting disabled")
		return nil
	}

	client, err := redisstore.New(cfg)
	if err != nil {
		log.Error("failed to connect to redis, auth rate limiting disabled", sl.Err(err))
		return nil
	}

	log.Info("redis connected", slog.String("address", cfg.Address))

	return client
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
