// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fikrisyahid/adzanid/internal/api/handlers"
	"github.com/fikrisyahid/adzanid/internal/api/middleware"
	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/websocket"
)

// Dependencies are the components the routes are bound to.
type Dependencies struct {
	DB        handlers.Pinger
	Scheduler handlers.Scheduler
	Audio     handlers.AudioController
	Dnd       prayer.DndGate
	Notifier  prayer.NotificationSink
	Settings  handlers.SettingsStore
	Applier   handlers.SettingsApplier
	Triggers  handlers.TriggerLister
	Hub       *websocket.Hub

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// Breaker reports the provider's circuit state.
	Breaker func() string

	DndTimeout time.Duration
	TestDelay  time.Duration
	Version    string
	// StaticDir is served at / when set.
	StaticDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(deps.DB, deps.Scheduler)).Methods("GET")
	status := handlers.StatusDeps{
		Scheduler:  deps.Scheduler,
		Audio:      deps.Audio,
		Dnd:        deps.Dnd,
		DndTimeout: deps.DndTimeout,
		Breaker:    deps.Breaker,
		Version:    deps.Version,
	}
	if deps.Hub != nil {
		status.Clients = deps.Hub.ClientCount
	}
	api.HandleFunc("/status", handlers.Status(status)).Methods("GET")

	if deps.Hub != nil {
		api.HandleFunc("/ws", handlers.WebSocketUpgrade(deps.Hub)).Methods("GET")
	}

	// Schedule endpoints
	api.HandleFunc("/schedule/today", handlers.TodaySchedule(deps.Scheduler, nil)).Methods("GET")
	api.HandleFunc("/schedule/refresh", handlers.RefreshSchedule(deps.Scheduler)).Methods("POST")
	api.HandleFunc("/cities", handlers.ListCities()).Methods("GET")
	api.HandleFunc("/triggers", handlers.ListTriggers(deps.Triggers)).Methods("GET")

	// Notification and audio endpoints
	api.HandleFunc("/test-notification", handlers.TestNotification(deps.Notifier, deps.Scheduler, deps.TestDelay)).Methods("POST")
	api.HandleFunc("/audio/stop", handlers.StopAudio(deps.Audio)).Methods("POST")
	api.HandleFunc("/audio/test", handlers.TestAudio(deps.Audio, deps.Scheduler)).Methods("POST")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(deps.Settings)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(deps.Settings, deps.Applier)).Methods("PUT")

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods("GET")
	}

	if deps.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(deps.StaticDir)))
	}

	return r
}
