package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

var day = prayer.Date{Year: 2026, Month: time.October, Day: 14}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "data", "adzanid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(context.Background(), db))
	return db
}

func testSchedule(t *testing.T, date prayer.Date, subuhMinute int) *prayer.Schedule {
	t.Helper()
	s, err := prayer.NewSchedule(date, map[prayer.Name]prayer.TimeOfDay{
		prayer.Subuh:   {Hour: 4, Minute: subuhMinute},
		prayer.Dzuhur:  {Hour: 11, Minute: 52},
		prayer.Ashar:   {Hour: 15, Minute: 14},
		prayer.Maghrib: {Hour: 17, Minute: 50},
		prayer.Isya:    {Hour: 19, Minute: 2},
	})
	require.NoError(t, err)
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, db))

	applied, err := AppliedMigrations(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_initial.sql", "002_trigger_history.sql"}, applied)
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	s.City = "Bandung"
	s.Muted = true
	s.Volume = 40
	s.DesktopNotifications = false
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s.Volume = 70
	require.NoError(t, repo.Save(ctx, s))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Volume)
}

func TestSettingsDefaultsOverride(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	d := models.DefaultSettings()
	d.City = "Surabaya"
	repo.SetDefaults(d)

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Surabaya", s.City)

	s.City = "Medan"
	require.NoError(t, repo.Save(ctx, s))
	s, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Medan", s.City, "saved values win over defaults")
}

func TestScheduleArchive(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, "Jakarta", day)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Put(ctx, "Jakarta", testSchedule(t, day, 35)))
	require.NoError(t, repo.Put(ctx, "Jakarta", testSchedule(t, day, 36)))

	got, err := repo.Get(ctx, "Jakarta", day)
	require.NoError(t, err)
	subuh, _ := got.Lookup(prayer.Subuh)
	assert.Equal(t, prayer.TimeOfDay{Hour: 4, Minute: 36}, subuh, "put must replace the same day")

	_, err = repo.Get(ctx, "Bandung", day)
	assert.ErrorIs(t, err, ErrNotFound)

	yesterday := prayer.Date{Year: 2026, Month: time.October, Day: 13}
	require.NoError(t, repo.Put(ctx, "Jakarta", testSchedule(t, yesterday, 35)))

	list, err := repo.List(ctx, "Jakarta", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-10-14", list[0].Date)
	assert.Equal(t, "04:36", list[0].Times["Subuh"])

	n, err := repo.PruneBefore(ctx, time.Date(2026, time.October, 14, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTriggerHistory(t *testing.T) {
	repo := NewTriggerRepository(newTestDB(t))
	ctx := context.Background()

	old := prayer.TriggerEvent{
		ID: "old", Prayer: prayer.Isya, Date: prayer.Date{Year: 2026, Month: time.August, Day: 1},
		Minute: prayer.TimeOfDay{Hour: 19, Minute: 2}, LocationKey: "Jakarta",
		FiredAt: time.Date(2026, time.August, 1, 19, 2, 0, 0, time.UTC),
	}
	fresh := prayer.TriggerEvent{
		Prayer: prayer.Subuh, Date: day, Minute: prayer.TimeOfDay{Hour: 4, Minute: 35},
		LocationKey: "Jakarta", FiredAt: time.Date(2026, time.October, 14, 4, 35, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Record(ctx, old, prayer.DispatchResult{Notified: true, AudioStarted: true}))
	require.NoError(t, repo.Record(ctx, fresh, prayer.DispatchResult{Notified: true, DndActive: true, AudioSkipped: prayer.SkipDnd}))

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Subuh", list[0].Prayer)
	assert.True(t, list[0].DndActive)
	assert.Equal(t, prayer.SkipDnd, list[0].AudioSkipped)
	assert.NotEmpty(t, list[0].ID)
	assert.Equal(t, "old", list[1].ID)

	n, err := repo.PruneBefore(ctx, time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTriggerRecorderListener(t *testing.T) {
	repo := NewTriggerRepository(newTestDB(t))
	var l prayer.Listener = NewTriggerRecorder(repo)

	l.OnTrigger(prayer.TriggerEvent{
		ID: "abc", Prayer: prayer.Ashar, Date: day,
		Minute: prayer.TimeOfDay{Hour: 15, Minute: 14}, LocationKey: "Jakarta", FiredAt: time.Now(),
	}, prayer.DispatchResult{Notified: true})

	list, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ashar", list[0].Prayer)
}

type countingUpstream struct {
	calls int
	err   error
	sched *prayer.Schedule
}

func (u *countingUpstream) Fetch(context.Context, string, prayer.Date) (*prayer.Schedule, error) {
	u.calls++
	return u.sched, u.err
}

func TestArchivingProviderServesArchiveFirst(t *testing.T) {
	archive := NewScheduleRepository(newTestDB(t))
	upstream := &countingUpstream{sched: testSchedule(t, day, 35)}
	p := NewArchivingProvider(archive, upstream)
	ctx := context.Background()

	first, err := p.Fetch(ctx, "Jakarta", day)
	require.NoError(t, err)
	second, err := p.Fetch(ctx, "Jakarta", day)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, first.Entries(), second.Entries())
}

func TestArchivingProviderForcedFetchOverwritesArchive(t *testing.T) {
	archive := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, archive.Put(ctx, "Jakarta", testSchedule(t, day, 35)))

	upstream := &countingUpstream{sched: testSchedule(t, day, 37)}
	p := NewArchivingProvider(archive, upstream)

	s, err := p.Fetch(ctx, "Jakarta", day)
	require.NoError(t, err)
	subuh, _ := s.Lookup(prayer.Subuh)
	assert.Equal(t, 35, subuh.Minute)
	assert.Equal(t, 0, upstream.calls)

	s, err = p.Fetch(prayer.WithForcedFetch(ctx), "Jakarta", day)
	require.NoError(t, err)
	subuh, _ = s.Lookup(prayer.Subuh)
	assert.Equal(t, 37, subuh.Minute)
	assert.Equal(t, 1, upstream.calls)

	got, err := archive.Get(ctx, "Jakarta", day)
	require.NoError(t, err)
	subuh, _ = got.Lookup(prayer.Subuh)
	assert.Equal(t, 37, subuh.Minute, "forced fetch must replace the archived day")
}

func TestArchivingProviderPropagatesUpstreamError(t *testing.T) {
	archive := NewScheduleRepository(newTestDB(t))
	boom := errors.New("offline")
	p := NewArchivingProvider(archive, &countingUpstream{err: boom})

	_, err := p.Fetch(context.Background(), "Jakarta", day)
	assert.ErrorIs(t, err, boom)

	_, err = archive.Get(context.Background(), "Jakarta", day)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchivingProviderSurvivesUnreachableRedis(t *testing.T) {
	archive := &RedisArchive{
		client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		}),
		ttl: time.Hour,
	}
	defer archive.Close()

	upstream := &countingUpstream{sched: testSchedule(t, day, 35)}
	p := NewArchivingProvider(archive, upstream)

	s, err := p.Fetch(context.Background(), "Jakarta", day)
	require.NoError(t, err)
	assert.Equal(t, day, s.Date())
	assert.Equal(t, 1, upstream.calls)
	assert.Error(t, archive.Ping(context.Background()))
}

func TestScheduleKey(t *testing.T) {
	assert.Equal(t, "adzanid:schedule:Banda Aceh:2026-10-14", scheduleKey("Banda Aceh", day))
}
