// Package jobs runs the daemon's periodic housekeeping on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/update"
)

// Default schedules, in cron-with-seconds syntax.
const (
	RetrySpec       = "@every 5m"
	PruneSpec       = "0 30 3 * * *"
	UpdateCheckSpec = "0 0 9 * * *"

	DefaultRetention = 30 * 24 * time.Hour
)

// Retrier asks the scheduler to retry a failed refresh.
type Retrier interface {
	Retry()
}

// Pruner deletes records older than a cutoff.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// UpdateChecker reports whether a newer release exists.
type UpdateChecker interface {
	Check(ctx context.Context) (update.Result, error)
}

// Options configures the runner. Nil dependencies disable their job.
type Options struct {
	Retrier Retrier
	// Pruners are keyed by a name used in logs.
	Pruners   map[string]Pruner
	Retention time.Duration

	Updates UpdateChecker
	// OnUpdate is called when a newer release is found.
	OnUpdate func(update.Result)

	Now func() time.Time
}

// Runner manages the periodic jobs.
type Runner struct {
	cron *cron.Cron
	opts Options
	log  zerolog.Logger
}

// NewRunner creates a runner. Jobs are registered by Start.
func NewRunner(opts Options) *Runner {
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		cron: cron.New(cron.WithSeconds()),
		opts: opts,
		log:  log.Logger.With().Str("component", "jobs").Logger(),
	}
}

// Start registers the jobs and starts the cron. The update check also runs
// once immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info().Msg("Starting job scheduler...")

	if r.opts.Retrier != nil {
		if _, err := r.cron.AddFunc(RetrySpec, r.Retry); err != nil {
			return fmt.Errorf("scheduling retry: %w", err)
		}
	}
	if len(r.opts.Pruners) > 0 {
		if _, err := r.cron.AddFunc(PruneSpec, func() { r.Prune(ctx) }); err != nil {
			return fmt.Errorf("scheduling prune: %w", err)
		}
	}
	if r.opts.Updates != nil {
		if _, err := r.cron.AddFunc(UpdateCheckSpec, func() { r.CheckUpdates(ctx) }); err != nil {
			return fmt.Errorf("scheduling update check: %w", err)
		}
		go r.CheckUpdates(ctx)
	}

	r.cron.Start()
	r.log.Info().Int("jobs", len(r.cron.Entries())).Msg("Job scheduler started")
	return nil
}

// Stop stops the cron and waits for running jobs.
func (r *Runner) Stop() {
	r.log.Info().Msg("Stopping job scheduler...")
	<-r.cron.Stop().Done()
	r.log.Info().Msg("Job scheduler stopped")
}

// Retry asks the scheduler to retry a failed refresh. The scheduler
// ignores it when the current schedule is fine.
func (r *Runner) Retry() {
	r.opts.Retrier.Retry()
}

// Prune deletes history older than the retention.
func (r *Runner) Prune(ctx context.Context) {
	cutoff := r.opts.Now().Add(-r.opts.Retention)
	for name, p := range r.opts.Pruners {
		n, err := p.PruneBefore(ctx, cutoff)
		if err != nil {
			r.log.Error().Err(err).Str("table", name).Msg("Prune failed")
			continue
		}
		if n > 0 {
			r.log.Info().Str("table", name).Int64("deleted", n).Msg("Pruned old records")
		}
	}
}

// CheckUpdates queries for a newer release.
func (r *Runner) CheckUpdates(ctx context.Context) {
	res, err := r.opts.Updates.Check(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("Update check failed")
		return
	}
	if !res.UpdateAvailable {
		r.log.Debug().Str("latest", res.Latest).Msg("No update available")
		return
	}

	r.log.Info().Str("current", res.Current).Str("latest", res.Latest).Msg("Update available")
	if r.opts.OnUpdate != nil {
		r.opts.OnUpdate(res)
	}
}
