package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

func TestCollectorCountsSchedulerEvents(t *testing.T) {
	c := NewCollector()
	var l prayer.Listener = c

	l.OnTrigger(prayer.TriggerEvent{Prayer: prayer.Subuh}, prayer.DispatchResult{Notified: true, AudioStarted: true})
	l.OnTrigger(prayer.TriggerEvent{Prayer: prayer.Subuh}, prayer.DispatchResult{Notified: true, DndActive: true, AudioSkipped: prayer.SkipDnd})
	l.OnTrigger(prayer.TriggerEvent{Prayer: prayer.Isya}, prayer.DispatchResult{Notified: true, DndError: "timeout", AudioSkipped: prayer.SkipNoResource})
	l.OnScheduleRefreshed(prayer.Snapshot{Generation: 7})
	l.OnFetchError(&prayer.FetchError{Err: errors.New("offline")})
	l.OnStaleResponse(prayer.RefreshRequest{Generation: 6})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Triggers.WithLabelValues("Subuh")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Triggers.WithLabelValues("Isya")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DndChecks.WithLabelValues("active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DndChecks.WithLabelValues("inactive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DndChecks.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AudioPlays.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AudioPlays.WithLabelValues(prayer.SkipDnd)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Stale))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.Generation))
}

func TestHandlerAndMiddleware(t *testing.T) {
	c := NewCollector()
	r := mux.NewRouter()
	r.Use(c.Middleware)
	r.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}).Methods("PUT")
	r.Handle("/metrics", c.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("PUT", "/api/settings", "400")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "adzanid_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}

type chanSource struct {
	c       chan time.Time
	stopped bool
}

func (s *chanSource) C() <-chan time.Time { return s.c }
func (s *chanSource) Now() time.Time      { return time.Unix(0, 0) }
func (s *chanSource) Stop()               { s.stopped = true }

func TestCountTicks(t *testing.T) {
	c := NewCollector()
	inner := &chanSource{c: make(chan time.Time)}
	ts := CountTicks(inner, c.Ticks)

	for i := 0; i < 3; i++ {
		inner.c <- time.Unix(int64(i), 0)
		select {
		case got := <-ts.C():
			assert.Equal(t, int64(i), got.Unix())
		case <-time.After(time.Second):
			t.Fatal("tick not relayed")
		}
	}

	require.Eventually(t, func() bool { return testutil.ToFloat64(c.Ticks) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, time.Unix(0, 0), ts.Now())

	ts.Stop()
	ts.Stop()
	assert.True(t, inner.stopped)
}
