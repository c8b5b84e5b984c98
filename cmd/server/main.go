// Package main is the entry point for the adzanid prayer-time daemon.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/fikrisyahid/adzanid/internal/aladhan"
	"github.com/fikrisyahid/adzanid/internal/config"
	"github.com/fikrisyahid/adzanid/internal/dnd"
	"github.com/fikrisyahid/adzanid/internal/logging"
	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "1.2.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("adzanid failed")
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "adzanid"
	app.Usage = "prayer time notifications with adhan playback"
	app.Version = version
	app.Action = serve
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the daemon and its HTTP API (default)",
			Action: serve,
		},
		{
			Name:      "fetch",
			Usage:     "print the prayer schedule for a city once",
			UsageText: "adzanid fetch [--city NAME] [--date YYYY-MM-DD]",
			Action:    fetch,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "city", Usage: "city name (defaults to the configured city)"},
				cli.StringFlag{Name: "date", Usage: "date as YYYY-MM-DD (defaults to today)"},
			},
		},
		{
			Name:   "dnd",
			Usage:  "probe the do-not-disturb state",
			Action: probeDnd,
		},
		{
			Name:   "health",
			Usage:  "check a running daemon, for container health checks",
			Action: healthCheck,
		},
		{
			Name:  "version",
			Usage: "print the version",
			Action: func(c *cli.Context) error {
				fmt.Fprintln(c.App.Writer, version)
				return nil
			},
		},
	}
	return app
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

func newProvider(cfg *config.Config) *aladhan.Client {
	ac := aladhan.DefaultConfig()
	ac.BaseURL = cfg.Aladhan.URL
	ac.Country = cfg.Aladhan.Country
	ac.Method = cfg.Aladhan.Method
	ac.Tune = cfg.Aladhan.Tune
	ac.UseCoordinates = cfg.Aladhan.UseCoordinates
	return aladhan.NewClient(ac)
}

func fetch(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	city := c.String("city")
	if city == "" {
		city = cfg.City
	}
	date := prayer.DateOf(time.Now())
	if raw := c.String("date"); raw != "" {
		if date, err = prayer.ParseDate(raw); err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid --date: %v", err), 2)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched, err := newProvider(cfg).Fetch(ctx, city, date)
	if err != nil {
		return fmt.Errorf("fetching schedule: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Jadwal %s, %s\n", city, sched.Date())
	for _, e := range sched.Entries() {
		fmt.Fprintf(c.App.Writer, "  %-8s %s\n", e.Name, e.Time)
	}
	return nil
}

func probeDnd(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	active, err := prayer.QueryDnd(context.Background(), dnd.New(), cfg.DndTimeout)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "do-not-disturb: unknown (%v), treated as off\n", err)
		return nil
	}
	state := "off"
	if active {
		state = "on"
	}
	fmt.Fprintf(c.App.Writer, "do-not-disturb: %s\n", state)
	return nil
}

// healthURL returns the health endpoint for a listen address. Wildcard or
// empty hosts are reached through localhost.
func healthURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/health", nil
}

// healthCheck performs a health check against the running server.
func healthCheck(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	url, err := healthURL(cfg.Addr)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("health check failed: %v", err), 1)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("health check failed: %v", err), 1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cli.NewExitError(fmt.Sprintf("health check failed: status %d", resp.StatusCode), 1)
	}
	return nil
}
