package prayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultFetchTimeout bounds one provider fetch.
const DefaultFetchTimeout = 30 * time.Second

// ErrNoProvider is returned by New when Options has no provider.
var ErrNoProvider = errors.New("schedule provider is required")

// Options configures a Scheduler.
type Options struct {
	LocationKey string
	AudioPath   string

	Provider ScheduleProvider
	Notifier NotificationSink
	Audio    AudioSink
	Resolver ResourceResolver
	Dnd      DndGate

	DndTimeout   time.Duration
	FetchTimeout time.Duration

	// TimeSource defaults to a one second ticker.
	TimeSource TimeSource
	Logger     *zerolog.Logger
	NewID      func() string
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Running          bool            `json:"running"`
	LocationKey      string          `json:"location"`
	AudioPath        string          `json:"adhan_path"`
	ScheduleDate     *Date           `json:"schedule_date,omitempty"`
	ScheduleLocation string          `json:"schedule_location,omitempty"`
	Generation       uint64          `json:"generation"`
	LatestGeneration uint64          `json:"latest_generation"`
	Refreshing       bool            `json:"refreshing"`
	LastFetchError   string          `json:"last_fetch_error,omitempty"`
	LastFetchAt      *time.Time      `json:"last_fetch_at,omitempty"`
	LastRefreshAt    *time.Time      `json:"last_refresh_at,omitempty"`
	LastTick         *time.Time      `json:"last_tick,omitempty"`
	LastTrigger      *TriggerEvent   `json:"last_trigger,omitempty"`
	LastDispatch     *DispatchResult `json:"last_dispatch,omitempty"`
}

type command func(now time.Time)

// Scheduler runs the tick loop. All matching, rollover and dedup state is
// owned by the goroutine executing Run; other goroutines talk to it through
// queued commands.
type Scheduler struct {
	provider     ScheduleProvider
	dispatcher   *Dispatcher
	ts           TimeSource
	fetchTimeout time.Duration
	newID        func() string
	log          zerolog.Logger

	cache    *ScheduleCache
	detector *RolloverDetector
	matcher  *Matcher

	// owned by the loop
	location  string
	audioPath string

	cmds    chan command
	done    chan struct{}
	baseCtx context.Context
	fetches sync.WaitGroup

	// dispatches run off the loop, one at a time
	dispatches sync.WaitGroup
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	status    Status
	listeners []Listener
}

// New creates a scheduler. Run starts it.
func New(opts Options) (*Scheduler, error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	if opts.LocationKey == "" {
		return nil, fmt.Errorf("location key is required")
	}

	logger := log.Logger.With().Str("component", "scheduler").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	ts := opts.TimeSource
	if ts == nil {
		ts = NewTickerSource(time.Second)
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	cache := NewScheduleCache()
	s := &Scheduler{
		provider: opts.Provider,
		dispatcher: &Dispatcher{
			notifier:   opts.Notifier,
			audio:      opts.Audio,
			dnd:        opts.Dnd,
			resolver:   opts.Resolver,
			dndTimeout: opts.DndTimeout,
			log:        logger,
		},
		ts:           ts,
		fetchTimeout: fetchTimeout,
		newID:        newID,
		log:          logger,
		cache:        cache,
		detector:     NewRolloverDetector(cache),
		matcher:      NewMatcher(),
		location:     opts.LocationKey,
		audioPath:    opts.AudioPath,
		cmds:         make(chan command, 16),
		done:         make(chan struct{}),
		baseCtx:      context.Background(),
	}
	s.status.LocationKey = opts.LocationKey
	s.status.AudioPath = opts.AudioPath
	return s, nil
}

// AddListener registers an observer. Call before Run.
func (s *Scheduler) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Run drives the loop until ctx is cancelled. On return the ticker is
// stopped, every in-flight fetch is invalidated and pending dispatches have
// finished.
func (s *Scheduler) Run(ctx context.Context) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	s.baseCtx = fetchCtx

	s.mu.Lock()
	s.status.Running = true
	s.mu.Unlock()
	s.log.Info().Str("location", s.location).Msg("Scheduler started")

	defer func() {
		s.ts.Stop()
		s.cache.Invalidate()
		cancel()
		close(s.done)
		s.fetches.Wait()
		s.dispatches.Wait()

		s.mu.Lock()
		s.status.Running = false
		s.mu.Unlock()
		s.log.Info().Msg("Scheduler stopped")
	}()

	s.tick(s.ts.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-s.ts.C():
			s.tick(now)
		case cmd := <-s.cmds:
			s.exec(cmd)
		}
	}
}

// SetLocation switches the location key. A change issues an immediate
// refresh with a new generation and clears the dedup guard.
func (s *Scheduler) SetLocation(key string) {
	s.enqueue(func(now time.Time) { s.changeLocation(now, key) })
}

// SetAudioPath changes the adhan resource used by later triggers.
func (s *Scheduler) SetAudioPath(path string) {
	s.enqueue(func(time.Time) {
		s.audioPath = path
		s.mu.Lock()
		s.status.AudioPath = path
		s.mu.Unlock()
	})
}

// Retry refetches the current day when no valid schedule is cached and no
// fetch is in flight.
func (s *Scheduler) Retry() {
	s.enqueue(func(now time.Time) { s.refetch(now, false) })
}

// Refresh refetches the current day unconditionally.
func (s *Scheduler) Refresh() {
	s.enqueue(func(now time.Time) { s.refetch(now, true) })
}

// TriggerTest fires a synthetic trigger after delay through the normal
// dispatch path. Dedup state is not touched.
func (s *Scheduler) TriggerTest(delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.enqueue(func(now time.Time) { s.fire(now, TestPrayer) })
	})
}

// Snapshot returns the cached schedule, or nil.
func (s *Scheduler) Snapshot() *Snapshot {
	return s.cache.Get()
}

// Today returns the cached schedule if it is valid for the date of now and
// the current location.
func (s *Scheduler) Today(now time.Time) (*Schedule, error) {
	snap := s.cache.Get()
	s.mu.RLock()
	location := s.status.LocationKey
	s.mu.RUnlock()
	if snap == nil || snap.LocationKey != location || snap.Schedule.Date() != DateOf(now) {
		return nil, ErrNoSchedule
	}
	return snap.Schedule, nil
}

// Status returns a copy of the current status.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()

	st.LatestGeneration = s.cache.Latest()
	if snap := s.cache.Get(); snap != nil {
		date := snap.Schedule.Date()
		st.ScheduleDate = &date
		st.ScheduleLocation = snap.LocationKey
		st.Generation = snap.Generation
	}
	return st
}

func (s *Scheduler) enqueue(cmd command) {
	select {
	case s.cmds <- cmd:
	case <-s.done:
	}
}

func (s *Scheduler) exec(cmd command) {
	defer s.recoverLoop("command")
	cmd(s.ts.Now())
}

func (s *Scheduler) tick(now time.Time) {
	defer s.recoverLoop("tick")

	s.mu.Lock()
	s.status.LastTick = &now
	s.mu.Unlock()

	s.refreshIfDue(now)

	name, ok := s.matcher.Evaluate(now, s.currentSchedule())
	if !ok {
		return
	}
	s.fire(now, name)
}

func (s *Scheduler) refreshIfDue(now time.Time) {
	req, due := s.detector.Check(now, s.location)
	if !due {
		return
	}
	s.matcher.Reset(req.Date)
	s.log.Info().
		Str("location", req.LocationKey).
		Stringer("date", req.Date).
		Uint64("generation", req.Generation).
		Msg("Schedule refresh due")
	s.startFetch(req, false)
}

func (s *Scheduler) changeLocation(now time.Time, key string) {
	if key == "" || key == s.location {
		return
	}
	s.log.Info().Str("from", s.location).Str("to", key).Msg("Location changed")
	s.location = key
	s.mu.Lock()
	s.status.LocationKey = key
	s.mu.Unlock()

	s.refreshIfDue(now)
}

func (s *Scheduler) refetch(now time.Time, force bool) {
	if !force {
		s.mu.RLock()
		refreshing := s.status.Refreshing
		s.mu.RUnlock()
		if refreshing || s.currentScheduleFor(now) != nil {
			return
		}
	}
	req := s.detector.Reissue(now, s.location)
	s.log.Info().Uint64("generation", req.Generation).Bool("forced", force).Msg("Refetching schedule")
	s.startFetch(req, force)
}

// currentSchedule returns the cached schedule when it belongs to the
// current location. The matcher rejects other dates itself.
func (s *Scheduler) currentSchedule() *Schedule {
	snap := s.cache.Get()
	if snap == nil || snap.LocationKey != s.location {
		return nil
	}
	return snap.Schedule
}

func (s *Scheduler) currentScheduleFor(now time.Time) *Schedule {
	sched := s.currentSchedule()
	if sched == nil || sched.Date() != DateOf(now) {
		return nil
	}
	return sched
}

func (s *Scheduler) startFetch(req RefreshRequest, forced bool) {
	s.mu.Lock()
	s.status.Refreshing = true
	s.mu.Unlock()

	ctx := s.baseCtx
	if forced {
		ctx = WithForcedFetch(ctx)
	}
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		defer func() {
			if r := recover(); r != nil {
				s.fetchFailed(req, fmt.Errorf("provider panicked: %v", r))
			}
		}()

		fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()

		sched, err := s.provider.Fetch(fctx, req.LocationKey, req.Date)
		if err != nil {
			s.fetchFailed(req, err)
			return
		}
		if sched == nil {
			s.fetchFailed(req, ErrNoSchedule)
			return
		}
		if sched.Date() != req.Date {
			s.fetchFailed(req, fmt.Errorf("provider returned schedule for %s", sched.Date()))
			return
		}
		s.fetchSucceeded(req, sched)
	}()
}

// settleFetch applies update to the status and clears Refreshing, but
// only while req is still the latest request. It reports whether req was
// current. The loop issues a generation before it marks Refreshing under
// s.mu, so a newer in-flight request is never marked idle by an older one.
func (s *Scheduler) settleFetch(req RefreshRequest, update func(*Status)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Generation != s.cache.Latest() {
		return false
	}
	s.status.Refreshing = false
	update(&s.status)
	return true
}

func (s *Scheduler) fetchSucceeded(req RefreshRequest, sched *Schedule) {
	if !s.cache.Set(req, sched) {
		s.log.Debug().Uint64("generation", req.Generation).Msg("Discarding stale schedule response")
		s.each(func(l Listener) { l.OnStaleResponse(req) })
		return
	}

	now := time.Now()
	s.settleFetch(req, func(st *Status) {
		st.LastFetchError = ""
		st.LastFetchAt = &now
		st.LastRefreshAt = &now
	})

	s.log.Info().
		Str("location", req.LocationKey).
		Stringer("date", req.Date).
		Uint64("generation", req.Generation).
		Msg("Schedule refreshed")

	snap := Snapshot{Schedule: sched, LocationKey: req.LocationKey, Generation: req.Generation}
	s.each(func(l Listener) { l.OnScheduleRefreshed(snap) })
}

func (s *Scheduler) fetchFailed(req RefreshRequest, err error) {
	fe := &FetchError{Request: req, Err: err}
	now := time.Now()
	current := s.settleFetch(req, func(st *Status) {
		st.LastFetchError = fe.Error()
		st.LastFetchAt = &now
	})
	if !current {
		s.log.Debug().Err(err).Uint64("generation", req.Generation).Msg("Ignoring error from stale fetch")
		s.each(func(l Listener) { l.OnStaleResponse(req) })
		return
	}

	s.log.Error().Err(err).
		Str("location", req.LocationKey).
		Stringer("date", req.Date).
		Msg("Failed to fetch prayer schedule")
	s.each(func(l Listener) { l.OnFetchError(fe) })
}

func (s *Scheduler) fire(now time.Time, name Name) {
	ev := TriggerEvent{
		ID:          s.newID(),
		Prayer:      name,
		Date:        DateOf(now),
		Minute:      TimeOfDayOf(now),
		LocationKey: s.location,
		FiredAt:     now,
	}
	s.log.Info().Str("prayer", string(name)).Stringer("minute", ev.Minute).Msg("Prayer time reached")

	// Dispatch can block on sinks or the DND query, so it runs off the loop.
	audioPath := s.audioPath
	s.dispatches.Add(1)
	go func() {
		defer s.dispatches.Done()
		defer s.recoverLoop("dispatch")

		s.dispatchMu.Lock()
		defer s.dispatchMu.Unlock()

		res := s.dispatcher.Dispatch(context.Background(), ev, audioPath)

		s.mu.Lock()
		s.status.LastTrigger = &ev
		s.status.LastDispatch = &res
		s.mu.Unlock()

		s.each(func(l Listener) { l.OnTrigger(ev, res) })
	}()
}

func (s *Scheduler) each(fn func(Listener)) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error().Interface("panic", r).Msg("Listener panicked")
				}
			}()
			fn(l)
		}()
	}
}

func (s *Scheduler) recoverLoop(where string) {
	if r := recover(); r != nil {
		s.log.Error().Interface("panic", r).Str("in", where).Msg("Recovered scheduler panic")
	}
}
