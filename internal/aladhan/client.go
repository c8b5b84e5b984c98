package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

var (
	// ErrUnknownCity is returned when the API cannot locate the city.
	ErrUnknownCity = errors.New("unknown city")

	// ErrCircuitOpen is returned while the breaker rejects requests.
	ErrCircuitOpen = errors.New("aladhan circuit open")
)

// timingKeys maps prayer names to Aladhan timing keys.
var timingKeys = map[prayer.Name]string{
	prayer.Subuh:   "Fajr",
	prayer.Dzuhur:  "Dhuhr",
	prayer.Ashar:   "Asr",
	prayer.Maghrib: "Maghrib",
	prayer.Isya:    "Isha",
}

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is a client for the Aladhan API. It implements
// prayer.ScheduleProvider.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// NewClient creates a new Aladhan API client.
func NewClient(config Config) *Client {
	logger := log.Logger.With().Str("component", "aladhan").Logger()
	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		log: logger,
	}
	threshold := config.BreakerFailures
	if threshold == 0 {
		threshold = 5
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "aladhan",
		MaxRequests: 1,
		Timeout:     config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("Circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnknownCity) || errors.Is(err, context.Canceled)
		},
	})
	return c
}

type timingsResponse struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type timingsData struct {
	Timings map[string]string `json:"timings"`
	Date    struct {
		Gregorian struct {
			Date string `json:"date"`
		} `json:"gregorian"`
	} `json:"date"`
}

// Fetch retrieves the schedule for a city on date.
func (c *Client) Fetch(ctx context.Context, city string, date prayer.Date) (*prayer.Schedule, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, city, date)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}
	return result.(*prayer.Schedule), nil
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) fetch(ctx context.Context, city string, date prayer.Date) (*prayer.Schedule, error) {
	req, byCity, err := c.newRequest(ctx, city, date)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if byCity && resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w %q: %w", ErrUnknownCity, city, apiErr)
		}
		return nil, apiErr
	}

	var envelope timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Code != http.StatusOK {
		return nil, &APIError{StatusCode: envelope.Code, Body: string(envelope.Data)}
	}

	var data timingsData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding timings: %w", err)
	}
	return toSchedule(date, data)
}

func toSchedule(date prayer.Date, data timingsData) (*prayer.Schedule, error) {
	if got := data.Date.Gregorian.Date; got != "" && got != formatDate(date) {
		return nil, fmt.Errorf("response is for %s, requested %s", got, formatDate(date))
	}

	times := make(map[prayer.Name]prayer.TimeOfDay, len(timingKeys))
	for name, key := range timingKeys {
		raw, ok := data.Timings[key]
		if !ok {
			return nil, fmt.Errorf("response has no %s timing", key)
		}
		tod, err := prayer.ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("timing %s: %w", key, err)
		}
		times[name] = tod
	}
	return prayer.NewSchedule(date, times)
}

// newRequest builds the timings request. Catalog cities are looked up by
// coordinates; anything else goes through the city search endpoint.
func (c *Client) newRequest(ctx context.Context, city string, date prayer.Date) (*http.Request, bool, error) {
	q := url.Values{}
	q.Set("method", strconv.Itoa(c.config.Method))
	if c.config.Tune != "" {
		q.Set("tune", c.config.Tune)
	}

	var path string
	byCity := true
	if known, ok := LookupCity(city); ok && c.config.UseCoordinates {
		path = "/timings/" + formatDate(date)
		q.Set("latitude", strconv.FormatFloat(known.Latitude, 'f', -1, 64))
		q.Set("longitude", strconv.FormatFloat(known.Longitude, 'f', -1, 64))
		byCity = false
	} else {
		path = "/timingsByCity/" + formatDate(date)
		q.Set("city", city)
		q.Set("country", c.config.Country)
	}

	u := strings.TrimRight(c.config.BaseURL, "/") + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", u).Msg("Requesting timings")
	return req, byCity, nil
}

func formatDate(d prayer.Date) string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}
