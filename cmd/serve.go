package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kaancelik05/swimago-api-sub001/internal/booking"
	"github.com/kaancelik05/swimago-api-sub001/internal/clock"
	"github.com/kaancelik05/swimago-api-sub001/internal/config"
	"github.com/kaancelik05/swimago-api-sub001/internal/notify"
	"github.com/kaancelik05/swimago-api-sub001/internal/storage/postgres"
	"github.com/kaancelik05/swimago-api-sub001/internal/storage/ratecache"
	transporthttp "github.com/kaancelik05/swimago-api-sub001/internal/transport/http"
	"github.com/kaancelik05/swimago-api-sub001/migrations"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Default()
			cfg := config.FromEnv(logger)

			startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(startupCtx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if migrateUp {
				if err := migrations.Apply(startupCtx, pool); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			resRepo := postgres.NewReservationRepository(pool)
			venueRepo := postgres.NewVenueRepository(pool)

			var redisClient *redis.Client
			if cfg.RedisAddr != "" {
				redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				if err := redisClient.Ping(startupCtx).Err(); err != nil {
					logger.Printf("WARN: redis unreachable, rate caching disabled: %v", err)
					redisClient = nil
				}
			}
			rates := ratecache.New(venueRepo, redisClient, logger)

			var sink booking.NotificationSink
			if cfg.AMQPURL != "" {
				pub, err := notify.NewPublisher(cfg.AMQPURL, logger)
				if err != nil {
					logger.Printf("WARN: amqp unreachable, falling back to log notifications: %v", err)
					sink = notify.NewLogSink(logger)
				} else {
					defer pub.Close()
					sink = pub
				}
			} else {
				sink = notify.NewLogSink(logger)
			}

			svc := booking.NewService(resRepo, venueRepo, rates, sink, clock.NewSystem(),
				booking.WithPolicy(booking.Policy{
					MinimumNotice:      cfg.MinimumNotice,
					CancellationWindow: cfg.CancellationWindow,
					CheckInGrace:       cfg.CheckInGrace,
				}),
			)
			adminSvc := booking.NewVenueAdminService(venueRepo, clock.NewSystem(),
				booking.WithRateInvalidator(rates),
			)

			stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sweeper := booking.NewSweeper(svc, resRepo, clock.NewSystem(),
				booking.WithSweepInterval(cfg.SweepInterval),
				booking.WithSweepLogger(logger),
			)
			go func() {
				if err := sweeper.Run(stopCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Printf("sweeper stopped: %v", err)
				}
			}()

			mux := http.NewServeMux()
			mux.HandleFunc("/health", transporthttp.HealthHandler)
			mux.Handle("/reservations", transporthttp.HandleCreateReservation(svc))
			mux.Handle("/reservations/", transporthttp.HandleReservationByID(svc))
			mux.Handle("/reservations/code/", transporthttp.HandleReservationByCode(svc))
			mux.Handle("/venues/", transporthttp.HandleVenueReservations(svc))
			mux.Handle("/admin/venues", transporthttp.HandleAdminVenues(adminSvc))
			mux.Handle("/admin/venues/", transporthttp.HandleAdminRateOverrides(adminSvc))
			mux.Handle("/", transporthttp.NotFoundHandler())

			handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

			server := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: handler,
			}

			logger.Printf("api listening on :%s", cfg.Port)

			srvErr := make(chan error, 1)
			go func() {
				srvErr <- server.ListenAndServe()
			}()

			select {
			case err := <-srvErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
			case <-stopCtx.Done():
				logger.Printf("shutdown signal received, stopping server")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("server shutdown error: %v", err)
			}
			logger.Printf("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}
