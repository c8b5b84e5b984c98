package handlers

import (
	"net/http"
	"time"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status           string `json:"status"`
	DBConnected      bool   `json:"db_connected"`
	SchedulerRunning bool   `json:"scheduler_running"`
	ScheduleLoaded   bool   `json:"schedule_loaded"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db Pinger, sched Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.PingContext(r.Context()) == nil
		st := sched.Status()

		status := "healthy"
		if !dbConnected || !st.Running {
			status = "degraded"
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, HealthResponse{
			Status:           status,
			DBConnected:      dbConnected,
			SchedulerRunning: st.Running,
			ScheduleLoaded:   st.ScheduleDate != nil,
		})
	}
}

// StatusDeps are the sources the status endpoint reads.
type StatusDeps struct {
	Scheduler  Scheduler
	Audio      AudioController
	Dnd        prayer.DndGate
	DndTimeout time.Duration
	// Clients reports connected WebSocket clients.
	Clients func() int
	// Breaker reports the schedule provider's circuit state.
	Breaker func() string
	Version string
	Now     func() time.Time
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	prayer.Status
	NextPrayer       *prayer.Entry `json:"next_prayer,omitempty"`
	DndActive        bool          `json:"dnd_active"`
	DndError         string        `json:"dnd_error,omitempty"`
	AudioPlaying     bool          `json:"audio_playing"`
	Muted            bool          `json:"muted"`
	Volume           int           `json:"volume"`
	WebSocketClients int           `json:"websocket_clients"`
	ProviderCircuit  string        `json:"provider_circuit,omitempty"`
	Version          string        `json:"version"`
}

// Status returns a handler that provides daemon status information.
func Status(deps StatusDeps) http.HandlerFunc {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	timeout := deps.DndTimeout
	if timeout <= 0 {
		timeout = prayer.DefaultDndTimeout
	}

	return func(w http.ResponseWriter, r *http.Request) {
		t := now()
		resp := StatusResponse{
			Status:  deps.Scheduler.Status(),
			Version: deps.Version,
		}

		if sched, err := deps.Scheduler.Today(t); err == nil {
			if next, ok := sched.Next(prayer.TimeOfDayOf(t)); ok {
				resp.NextPrayer = &next
			}
		}

		if deps.Dnd != nil {
			active, err := prayer.QueryDnd(r.Context(), deps.Dnd, timeout)
			resp.DndActive = active
			if err != nil {
				resp.DndError = err.Error()
			}
		}

		if deps.Audio != nil {
			_, resp.AudioPlaying = deps.Audio.Playing()
			resp.Muted = deps.Audio.Muted()
			resp.Volume = deps.Audio.Volume()
		}
		if deps.Clients != nil {
			resp.WebSocketClients = deps.Clients()
		}
		if deps.Breaker != nil {
			resp.ProviderCircuit = deps.Breaker()
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
