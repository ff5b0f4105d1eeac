// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ssssstella/the-wild-oasis-customer/internal/auth"
	"github.com/ssssstella/the-wild-oasis-customer/internal/config"
	"github.com/ssssstella/the-wild-oasis-customer/internal/database"
	"github.com/ssssstella/the-wild-oasis-customer/internal/handler"
	"github.com/ssssstella/the-wild-oasis-customer/internal/metrics"
	"github.com/ssssstella/the-wild-oasis-customer/internal/repository"
	"github.com/ssssstella/the-wild-oasis-customer/internal/service"
	"github.com/ssssstella/the-wild-oasis-customer/internal/session"
	"github.com/ssssstella/the-wild-oasis-customer/internal/viewcache"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	// External stores: Postgres for records, Redis for sessions and views.
	pool, err := database.NewPool(ctx, cfg.DB, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	log.Info().Msg("connected to redis")

	metrics.Register()

	// Wire up layers.
	bookingRepo := repository.NewBookingRepository(pool)
	guestRepo := repository.NewGuestRepository(pool)
	cabinRepo := repository.NewCabinRepository(pool)

	views := viewcache.New(rdb, cfg.ViewTTL, &log)
	sessions := session.NewRedisStore(rdb, cfg.SessionTTL)

	reservationSvc := service.NewReservationService(sessions, bookingRepo, guestRepo, cabinRepo, views, &log)
	reservationHandler := handler.NewReservationHandler(reservationSvc, cabinRepo, views)
	authHandler := auth.New(cfg.Google, guestRepo, sessions, &log)

	// Build the router.
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.AccessLog(&log))
	r.Use(session.Middleware)

	r.Get("/health", handler.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signin", authHandler.SignIn)
		r.Get("/callback", authHandler.Callback)
		r.Post("/signout", authHandler.SignOut)
	})

	r.Route("/cabins", func(r chi.Router) {
		r.Get("/{id}", reservationHandler.GetCabin)
		r.Post("/{cabinID}/reservations", reservationHandler.CreateReservation)
	})

	r.Route("/account", func(r chi.Router) {
		r.Get("/reservations", reservationHandler.ListReservations)
		r.Post("/reservations", reservationHandler.UpdateReservation)
		r.Delete("/reservations/{id}", reservationHandler.DeleteReservation)
		r.Post("/profile", reservationHandler.UpdateProfile)
	})

	// Start server with graceful shutdown.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
