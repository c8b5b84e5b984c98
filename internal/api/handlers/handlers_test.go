package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikrisyahid/adzanid/internal/api/middleware"
	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

var today = prayer.Date{Year: 2026, Month: time.October, Day: 14}

func noon() time.Time { return time.Date(2026, time.October, 14, 12, 0, 0, 0, time.Local) }

type fakeScheduler struct {
	status    prayer.Status
	schedule  *prayer.Schedule
	refreshes int
	testDelay time.Duration
}

func (f *fakeScheduler) Status() prayer.Status { return f.status }
func (f *fakeScheduler) Today(time.Time) (*prayer.Schedule, error) {
	if f.schedule == nil {
		return nil, prayer.ErrNoSchedule
	}
	return f.schedule, nil
}
func (f *fakeScheduler) Refresh()                        { f.refreshes++ }
func (f *fakeScheduler) TriggerTest(delay time.Duration) { f.testDelay = delay }

func loadedScheduler(t *testing.T) *fakeScheduler {
	t.Helper()
	s, err := prayer.NewSchedule(today, map[prayer.Name]prayer.TimeOfDay{
		prayer.Subuh:   {Hour: 4, Minute: 35},
		prayer.Dzuhur:  {Hour: 11, Minute: 52},
		prayer.Ashar:   {Hour: 15, Minute: 14},
		prayer.Maghrib: {Hour: 17, Minute: 50},
		prayer.Isya:    {Hour: 19, Minute: 2},
	})
	require.NoError(t, err)
	d := today
	return &fakeScheduler{
		schedule: s,
		status:   prayer.Status{Running: true, LocationKey: "Jakarta", AudioPath: "assets/adzan.mp3", ScheduleDate: &d},
	}
}

type fakePlayer struct {
	files   map[string]string
	played  []string
	stopped int
	muted   bool
	fail    bool
}

func (p *fakePlayer) Resolve(path string) (string, bool) {
	abs, ok := p.files[path]
	return abs, ok
}
func (p *fakePlayer) Play(path string) bool {
	if p.fail {
		return false
	}
	p.played = append(p.played, path)
	return true
}
func (p *fakePlayer) Stop()                   { p.stopped++ }
func (p *fakePlayer) Playing() (string, bool) { return "", len(p.played) > 0 }
func (p *fakePlayer) Volume() int             { return 80 }
func (p *fakePlayer) Muted() bool             { return p.muted }

type memSettings struct {
	s       models.Settings
	saveErr error
}

func (m *memSettings) Load(context.Context) (models.Settings, error) { return m.s, nil }
func (m *memSettings) Save(_ context.Context, s models.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.s = s
	return nil
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type gateFunc func(ctx context.Context) (bool, error)

func (f gateFunc) IsActive(ctx context.Context) (bool, error) { return f(ctx) }

type notices struct{ titles, bodies []string }

func (n *notices) Notify(title, body string) {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func serve(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHealthCheck(t *testing.T) {
	sched := loadedScheduler(t)

	rec := serve(HealthCheck(pinger{}, sched), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[HealthResponse](t, rec).Status)

	rec = serve(HealthCheck(pinger{err: errors.New("locked")}, sched), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "degraded", resp.Status)
	assert.False(t, resp.DBConnected)
	assert.True(t, resp.ScheduleLoaded)
}

func TestStatusReportsNextPrayerAndDnd(t *testing.T) {
	deps := StatusDeps{
		Scheduler: loadedScheduler(t),
		Audio:     &fakePlayer{},
		Dnd:       gateFunc(func(context.Context) (bool, error) { return true, nil }),
		Clients:   func() int { return 3 },
		Breaker:   func() string { return "closed" },
		Version:   "1.2.0",
		Now:       noon,
	}

	rec := serve(Status(deps), http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Jakarta", body["location"])
	assert.Equal(t, true, body["dnd_active"])
	assert.Equal(t, float64(3), body["websocket_clients"])
	assert.Equal(t, "closed", body["provider_circuit"])
	next := body["next_prayer"].(map[string]any)
	assert.Equal(t, "Ashar", next["name"])
	assert.Equal(t, "15:14", next["time"])
}

func TestStatusDndProbeFailsOpen(t *testing.T) {
	deps := StatusDeps{
		Scheduler: loadedScheduler(t),
		Dnd: gateFunc(func(ctx context.Context) (bool, error) {
			<-ctx.Done()
			return true, ctx.Err()
		}),
		DndTimeout: 20 * time.Millisecond,
		Now:        noon,
	}

	rec := serve(Status(deps), http.MethodGet, "/api/status", "")
	resp := decode[StatusResponse](t, rec)
	assert.False(t, resp.DndActive)
	assert.NotEmpty(t, resp.DndError)
}

func TestTodaySchedule(t *testing.T) {
	rec := serve(TodaySchedule(loadedScheduler(t), noon), http.MethodGet, "/api/schedule/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ScheduleResponse](t, rec)
	assert.Equal(t, today, resp.Date)
	assert.Len(t, resp.Entries, 5)
	require.NotNil(t, resp.Next)
	assert.Equal(t, prayer.Ashar, resp.Next.Name)

	rec = serve(TodaySchedule(&fakeScheduler{}, noon), http.MethodGet, "/api/schedule/today", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, middleware.ErrUnavailable, decode[middleware.ErrorResponse](t, rec).Error)
}

func TestRefreshSchedule(t *testing.T) {
	sched := loadedScheduler(t)
	rec := serve(RefreshSchedule(sched), http.MethodPost, "/api/schedule/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, sched.refreshes)
}

func TestListCities(t *testing.T) {
	rec := serve(ListCities(), http.MethodGet, "/api/cities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cities []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cities))
	assert.NotEmpty(t, cities)
}

type fakeTriggers struct {
	limit   int
	records []models.TriggerRecord
}

func (f *fakeTriggers) ListRecent(_ context.Context, limit int) ([]models.TriggerRecord, error) {
	f.limit = limit
	return f.records, nil
}

func TestListTriggers(t *testing.T) {
	lister := &fakeTriggers{records: []models.TriggerRecord{{ID: "a", Prayer: "Subuh"}}}

	rec := serve(ListTriggers(lister), http.MethodGet, "/api/triggers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultTriggerLimit, lister.limit)
	assert.Len(t, decode[[]models.TriggerRecord](t, rec), 1)

	rec = serve(ListTriggers(lister), http.MethodGet, "/api/triggers?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, lister.limit)

	for _, bad := range []string{"0", "abc", "1000"} {
		rec = serve(ListTriggers(lister), http.MethodGet, "/api/triggers?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestUpdateSettingsAppliesPartialChange(t *testing.T) {
	store := &memSettings{s: models.DefaultSettings()}
	var applied []models.Settings
	h := UpdateSettings(store, ApplierFunc(func(s models.Settings) { applied = append(applied, s) }))

	rec := serve(h, http.MethodPut, "/api/settings", `{"city":"Bandung","volume":40}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[models.Settings](t, rec)
	assert.Equal(t, "Bandung", got.City)
	assert.Equal(t, 40, got.Volume)
	assert.Equal(t, models.DefaultSettings().AdhanPath, got.AdhanPath)
	assert.Equal(t, got, store.s)
	require.Len(t, applied, 1)
	assert.Equal(t, got, applied[0])

	rec = serve(GetSettings(store), http.MethodGet, "/api/settings", "")
	assert.Equal(t, got, decode[models.Settings](t, rec))
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	store := &memSettings{s: models.DefaultSettings()}
	applied := 0
	h := UpdateSettings(store, ApplierFunc(func(models.Settings) { applied++ }))

	rec := serve(h, http.MethodPut, "/api/settings", `{"volume":150,"city":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[middleware.ErrorResponse](t, rec)
	assert.Equal(t, middleware.ErrValidation, resp.Error)
	details := resp.Details.(map[string]any)
	assert.Equal(t, "max", details["Volume"])
	assert.Equal(t, "required", details["City"])

	rec = serve(h, http.MethodPut, "/api/settings", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	store.saveErr = errors.New("disk full")
	rec = serve(h, http.MethodPut, "/api/settings", `{"muted":true}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Zero(t, applied)
	assert.Equal(t, models.DefaultSettings(), store.s)
}

func TestTestNotification(t *testing.T) {
	sched := loadedScheduler(t)
	n := &notices{}

	rec := serve(TestNotification(n, sched, 0), http.MethodPost, "/api/test-notification", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, DefaultTestDelay, sched.testDelay)
	assert.Equal(t, []string{"Test Notifikasi"}, n.titles)
	assert.Equal(t, []string{"Adzan akan berbunyi dalam 10 detik"}, n.bodies)
}

func TestAudioEndpoints(t *testing.T) {
	sched := loadedScheduler(t)
	player := &fakePlayer{files: map[string]string{"assets/adzan.mp3": "/opt/adzanid/assets/adzan.mp3"}}

	rec := serve(TestAudio(player, sched), http.MethodPost, "/api/audio/test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/opt/adzanid/assets/adzan.mp3"}, player.played)

	rec = serve(StopAudio(player), http.MethodPost, "/api/audio/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, player.stopped)

	player.muted = true
	rec = serve(TestAudio(player, sched), http.MethodPost, "/api/audio/test", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	player.muted = false
	player.fail = true
	rec = serve(TestAudio(player, sched), http.MethodPost, "/api/audio/test", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	sched.status.AudioPath = "missing.mp3"
	rec = serve(TestAudio(player, sched), http.MethodPost, "/api/audio/test", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleClientMessage(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(handleClientMessage([]byte(`{"type":"ping"}`)), &m))
	assert.Equal(t, "pong", m["type"])

	require.NoError(t, json.Unmarshal(handleClientMessage([]byte(`{"type":"subscribe"}`)), &m))
	assert.Equal(t, "error", m["type"])
	assert.Equal(t, "subscribe", m["payload"].(map[string]any)["original_type"])

	require.NoError(t, json.Unmarshal(handleClientMessage([]byte(`nope`)), &m))
	assert.Equal(t, "error", m["type"])
}
