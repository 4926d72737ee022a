package booking

import (
	"context"
	"log"
	"time"

	"github.com/kaancelik05/swimago-api-sub001/internal/clock"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

// SweepStore lists confirmed reservations whose window started at or before
// the cutoff, oldest first.
type SweepStore interface {
	FindNoShowCandidates(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}

// Sweeper periodically marks confirmed reservations whose start has passed,
// plus the check-in grace, as no-shows. Cadence is deployment configuration,
// not a correctness knob: a late sweep only delays the status change.
type Sweeper struct {
	svc      *Service
	store    SweepStore
	clock    clock.Clock
	logger   *log.Logger
	interval time.Duration
	batch    int
}

const (
	defaultSweepInterval = time.Minute
	defaultSweepBatch    = 50
)

func NewSweeper(svc *Service, store SweepStore, clk clock.Clock, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		svc:      svc,
		store:    store,
		clock:    clk,
		logger:   log.Default(),
		interval: defaultSweepInterval,
		batch:    defaultSweepBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SweeperOption func(*Sweeper)

func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithSweepBatch(n int) SweeperOption {
	return func(s *Sweeper) {
		if n > 0 {
			s.batch = n
		}
	}
}

func WithSweepLogger(logger *log.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Run ticks until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	// kick immediately
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	marked, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Printf("sweeper: pass failed: %v", err)
		return
	}
	if marked > 0 {
		s.logger.Printf("sweeper: marked %d reservation(s) no_show", marked)
	}
}

// Sweep runs a single pass and returns how many reservations were marked.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.svc.policy.CheckInGrace)
	ids, err := s.store.FindNoShowCandidates(ctx, cutoff, s.batch)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, id := range ids {
		if _, err := s.svc.MarkNoShow(ctx, id); err != nil {
			// A concurrent check-in or cancel wins the race; skip quietly.
			if domain.IsInvalidTransition(err) {
				continue
			}
			s.logger.Printf("sweeper: mark no_show %s: %v", id, err)
			continue
		}
		marked++
	}
	return marked, nil
}
