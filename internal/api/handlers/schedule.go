package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fikrisyahid/adzanid/internal/aladhan"
	"github.com/fikrisyahid/adzanid/internal/api/middleware"
	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// ScheduleResponse is today's schedule in API responses.
type ScheduleResponse struct {
	Date     prayer.Date    `json:"date"`
	Location string         `json:"location"`
	Entries  []prayer.Entry `json:"entries"`
	Next     *prayer.Entry  `json:"next,omitempty"`
}

// TodaySchedule returns today's schedule for the current location.
func TodaySchedule(sched Scheduler, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		t := now()
		s, err := sched.Today(t)
		if errors.Is(err, prayer.ErrNoSchedule) {
			middleware.WriteError(w, http.StatusServiceUnavailable, middleware.ErrUnavailable, "Schedule not loaded yet")
			return
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to read schedule")
			return
		}

		resp := ScheduleResponse{
			Date:     s.Date(),
			Location: sched.Status().LocationKey,
			Entries:  s.Entries(),
		}
		if next, ok := s.Next(prayer.TimeOfDayOf(t)); ok {
			resp.Next = &next
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// RefreshSchedule forces a refetch of today's schedule.
func RefreshSchedule(sched Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sched.Refresh()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
	}
}

// ListCities returns the built-in city catalog.
func ListCities() http.HandlerFunc {
	cities := aladhan.Cities()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cities)
	}
}
