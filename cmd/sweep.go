package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/kaancelik05/swimago-api-sub001/internal/booking"
	"github.com/kaancelik05/swimago-api-sub001/internal/clock"
	"github.com/kaancelik05/swimago-api-sub001/internal/config"
	"github.com/kaancelik05/swimago-api-sub001/internal/storage/postgres"
)

// newSweepCmd runs a single no-show pass and exits, for cron-style setups
// where the in-process sweeper is not wanted.
func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark overdue confirmed reservations as no-shows and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Default()
			cfg := config.FromEnv(logger)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			resRepo := postgres.NewReservationRepository(pool)
			venueRepo := postgres.NewVenueRepository(pool)
			svc := booking.NewService(resRepo, venueRepo, venueRepo, nil, clock.NewSystem(),
				booking.WithPolicy(booking.Policy{
					MinimumNotice:      cfg.MinimumNotice,
					CancellationWindow: cfg.CancellationWindow,
					CheckInGrace:       cfg.CheckInGrace,
				}),
			)

			sweeper := booking.NewSweeper(svc, resRepo, clock.NewSystem(),
				booking.WithSweepLogger(logger),
			)
			marked, err := sweeper.Sweep(ctx)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			logger.Printf("sweep complete, marked %d no-shows", marked)
			return nil
		},
	}
}
