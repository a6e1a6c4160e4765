package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the sweep at the top of every minute
const DefaultSchedule = "* * * * *"

// Finalizer is the part of the governance registry the sweeper drives
type Finalizer interface {
	Refresh(ctx context.Context) error
	PendingFinalization() []uint64
	Finalize(ctx context.Context, id uint64) (*models.Proposal, error)
}

// Sweeper periodically finalizes proposals whose voting deadline has passed
type Sweeper struct {
	cron      *cron.Cron
	finalizer Finalizer
	schedule  string
	timeout   time.Duration
	log       *slog.Logger
}

// NewSweeper creates a sweeper from the runtime configuration
func NewSweeper(cfg *config.RuntimeConfig, finalizer Finalizer, log *slog.Logger) *Sweeper {
	schedule := cfg.Sweeper.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Sweeper{
		cron:      cron.New(),
		finalizer: finalizer,
		schedule:  schedule,
		timeout:   timeout,
		log:       log.With("component", "sweeper"),
	}
}

// Start registers the sweep job and starts the cron loop
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info("sweeper started", "schedule", s.schedule)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("sweeper stopped")
}

// Sweep finalizes every pending proposal once and returns how many were
// finalized. Failures are logged and left for the next run.
func (s *Sweeper) Sweep(ctx context.Context) int {
	// other processes may have voted or finalized since the last run
	if err := s.finalizer.Refresh(ctx); err != nil {
		s.log.Error("failed to refresh governance ledger", "error", err)
		return 0
	}
	ids := s.finalizer.PendingFinalization()
	if len(ids) == 0 {
		return 0
	}

	finalized := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		p, err := s.finalizer.Finalize(ctx, id)
		switch {
		case err == nil:
			finalized++
			s.log.Debug("proposal finalized", "id", id, "status", p.Status)
		case errors.Is(err, domain.ErrVotingOpen):
			// deadline moved under us; nothing to do
		default:
			s.log.Error("failed to finalize proposal", "id", id, "error", err)
		}
	}
	return finalized
}
