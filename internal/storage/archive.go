package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// ScheduleArchive stores schedules keyed by (location, date).
// Get returns ErrNotFound for a miss.
type ScheduleArchive interface {
	Get(ctx context.Context, location string, date prayer.Date) (*prayer.Schedule, error)
	Put(ctx context.Context, location string, s *prayer.Schedule) error
}

// ArchivingProvider serves archived schedules and archives fresh ones.
// Archive failures never fail a fetch.
type ArchivingProvider struct {
	archive  ScheduleArchive
	upstream prayer.ScheduleProvider
	log      zerolog.Logger
}

// NewArchivingProvider wraps upstream with archive.
func NewArchivingProvider(archive ScheduleArchive, upstream prayer.ScheduleProvider) *ArchivingProvider {
	return &ArchivingProvider{
		archive:  archive,
		upstream: upstream,
		log:      log.Logger.With().Str("component", "archive").Logger(),
	}
}

// Fetch implements prayer.ScheduleProvider. A forced fetch skips the
// archive lookup and replaces the archived entry.
func (p *ArchivingProvider) Fetch(ctx context.Context, location string, date prayer.Date) (*prayer.Schedule, error) {
	if !prayer.IsForcedFetch(ctx) {
		s, err := p.archive.Get(ctx, location, date)
		switch {
		case err == nil:
			p.log.Debug().Str("location", location).Stringer("date", date).Msg("Serving archived schedule")
			return s, nil
		case !errors.Is(err, ErrNotFound):
			p.log.Warn().Err(err).Msg("Archive lookup failed")
		}
	}

	s, err := p.upstream.Fetch(ctx, location, date)
	if err != nil {
		return nil, err
	}
	if err := p.archive.Put(ctx, location, s); err != nil {
		p.log.Warn().Err(err).Str("location", location).Msg("Failed to archive schedule")
	}
	return s, nil
}
