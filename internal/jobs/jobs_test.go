package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikrisyahid/adzanid/internal/update"
)

type retrier struct{ n atomic.Int32 }

func (r *retrier) Retry() { r.n.Add(1) }

type pruner struct {
	cutoff time.Time
	n      int64
	err    error
}

func (p *pruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return p.n, p.err
}

type checker struct {
	res update.Result
	err error
}

func (c checker) Check(context.Context) (update.Result, error) { return c.res, c.err }

func TestPruneUsesRetention(t *testing.T) {
	now := time.Date(2026, time.October, 14, 3, 30, 0, 0, time.UTC)
	triggers := &pruner{n: 4}
	archive := &pruner{err: errors.New("locked")}

	r := NewRunner(Options{
		Pruners: map[string]Pruner{"trigger_history": triggers, "schedule_archive": archive},
		Now:     func() time.Time { return now },
	})
	r.Prune(context.Background())

	want := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, want, triggers.cutoff)
	assert.Equal(t, want, archive.cutoff)
}

func TestCheckUpdatesNotifiesOnlyWhenNewer(t *testing.T) {
	var got []update.Result
	onUpdate := func(res update.Result) { got = append(got, res) }

	NewRunner(Options{
		Updates:  checker{res: update.Result{Current: "1.2.0", Latest: "1.2.0"}},
		OnUpdate: onUpdate,
	}).CheckUpdates(context.Background())
	NewRunner(Options{
		Updates:  checker{err: errors.New("rate limited")},
		OnUpdate: onUpdate,
	}).CheckUpdates(context.Background())
	assert.Empty(t, got)

	newer := update.Result{Current: "1.2.0", Latest: "1.3.0", UpdateAvailable: true, DownloadURL: update.DownloadURL}
	NewRunner(Options{Updates: checker{res: newer}, OnUpdate: onUpdate}).CheckUpdates(context.Background())
	assert.Equal(t, []update.Result{newer}, got)
}

func TestStartRegistersJobs(t *testing.T) {
	var mu sync.Mutex
	checked := 0
	r := NewRunner(Options{
		Retrier: &retrier{},
		Pruners: map[string]Pruner{"trigger_history": &pruner{}},
		Updates: checker{res: update.Result{UpdateAvailable: true}},
		OnUpdate: func(update.Result) {
			mu.Lock()
			checked++
			mu.Unlock()
		},
	})
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Len(t, r.cron.Entries(), 3)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return checked == 1
	}, time.Second, 5*time.Millisecond, "update check runs at start")
}

func TestStartWithoutDependencies(t *testing.T) {
	r := NewRunner(Options{})
	require.NoError(t, r.Start(context.Background()))
	assert.Empty(t, r.cron.Entries())
	r.Stop()
}

func TestRetryJobFires(t *testing.T) {
	rt := &retrier{}
	r := NewRunner(Options{Retrier: rt})
	r.cron = cron.New(cron.WithSeconds())
	_, err := r.cron.AddFunc("@every 1s", r.Retry)
	require.NoError(t, err)
	r.cron.Start()
	defer r.Stop()

	require.Eventually(t, func() bool { return rt.n.Load() > 0 }, 3*time.Second, 5*time.Millisecond)
}

func TestSpecsParse(t *testing.T) {
	p := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for _, spec := range []string{RetrySpec, PruneSpec, UpdateCheckSpec} {
		_, err := p.Parse(spec)
		assert.NoError(t, err, spec)
	}
}
