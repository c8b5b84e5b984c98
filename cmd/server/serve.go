package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/fikrisyahid/adzanid/internal/api"
	"github.com/fikrisyahid/adzanid/internal/audio"
	"github.com/fikrisyahid/adzanid/internal/config"
	"github.com/fikrisyahid/adzanid/internal/dnd"
	"github.com/fikrisyahid/adzanid/internal/jobs"
	"github.com/fikrisyahid/adzanid/internal/metrics"
	"github.com/fikrisyahid/adzanid/internal/notify"
	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/storage"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
	"github.com/fikrisyahid/adzanid/internal/update"
	"github.com/fikrisyahid/adzanid/internal/websocket"
)

const shutdownTimeout = 30 * time.Second

func serve(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info().Str("version", version).Msg("Starting adzanid...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.NewDB(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info().Str("path", db.Path()).Msg("Database migrations complete")

	// Initialize repositories
	settingsRepo := storage.NewSettingsRepository(db)
	settingsRepo.SetDefaults(settingsFromConfig(cfg))
	scheduleRepo := storage.NewScheduleRepository(db)
	triggerRepo := storage.NewTriggerRepository(db)

	settings, err := settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Schedule provider: Aladhan behind the archive
	client := newProvider(cfg)
	var archive storage.ScheduleArchive = scheduleRepo
	if cfg.Redis.Address != "" {
		ra := storage.NewRedisArchive(storage.RedisOptions{
			Address:  cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		defer ra.Close()
		if err := ra.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, archive will fall through to the API")
		}
		archive = ra
	}
	provider := storage.NewArchivingProvider(archive, client)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	broadcaster := websocket.NewEventBroadcaster(hub)

	// Sinks
	player := audio.NewPlayer(afero.NewOsFs(), resourceDirs()...)
	player.OnStateChange(broadcaster.BroadcastAudioStatus)
	desktop := notify.NewDesktop(settings.DesktopNotifications)
	detector := dnd.New()
	collector := metrics.NewCollector()
	notifier := notify.Multi{desktop, broadcaster}

	sched, err := prayer.New(prayer.Options{
		LocationKey: settings.City,
		AudioPath:   settings.AdhanPath,
		Provider:    provider,
		Notifier:    notifier,
		Audio:       player,
		Resolver:    player,
		Dnd:         detector,
		DndTimeout:  cfg.DndTimeout,
		TimeSource:  metrics.CountTicks(prayer.NewTickerSource(time.Second), collector.Ticks),
	})
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.AddListener(broadcaster)
	sched.AddListener(storage.NewTriggerRecorder(triggerRepo))
	sched.AddListener(collector)

	if cfg.MQTT.Broker != "" {
		pub, err := notify.ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT disabled")
		} else {
			defer pub.Close()
			sched.AddListener(pub)
		}
	}

	applier := newSettingsApplier(sched, player, desktop)
	applier.Apply(settings)

	// Periodic jobs
	jobOpts := jobs.Options{
		Retrier: sched,
		Pruners: map[string]jobs.Pruner{
			"trigger_history":  triggerRepo,
			"schedule_archive": scheduleRepo,
		},
	}
	if cfg.Update.Enabled {
		jobOpts.Updates = update.NewChecker(cfg.Update.URL, version)
		jobOpts.OnUpdate = func(res update.Result) {
			broadcaster.BroadcastNotification("info", "Update Tersedia",
				fmt.Sprintf("Versi %s tersedia", res.Latest),
				&websocket.NotificationAction{Type: "link", Label: "Download", URL: res.DownloadURL})
		}
	}
	runner := jobs.NewRunner(jobOpts)

	// Config reloads edit the same settings the API does
	watcher := config.NewWatcher(cfg)
	watcher.OnChange(func(old, next *config.Config) {
		reloadSettings(ctx, settingsRepo, applier, old, next)
	})

	router := api.NewRouter(api.Dependencies{
		DB:         db,
		Scheduler:  sched,
		Audio:      player,
		Dnd:        detector,
		Notifier:   notifier,
		Settings:   settingsRepo,
		Applier:    applier,
		Triggers:   triggerRepo,
		Hub:        hub,
		Metrics:    collector.Handler(),
		Breaker:    client.BreakerState,
		DndTimeout: cfg.DndTimeout,
		Version:    version,
		StaticDir:  cfg.StaticDir,
	})
	router.Use(collector.Middleware)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := sched.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		if err := runner.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		runner.Stop()
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		player.Stop()
		desktop.Wait()
		return nil
	})

	err = g.Wait()
	log.Info().Msg("Server stopped")
	return err
}

// resourceDirs are searched for relative adhan paths: the working
// directory, then the executable's directory.
func resourceDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

func settingsFromConfig(cfg *config.Config) models.Settings {
	s := models.DefaultSettings()
	s.City = cfg.City
	s.AdhanPath = cfg.AdhanPath
	s.DesktopNotifications = cfg.DesktopNotifications
	return s
}
