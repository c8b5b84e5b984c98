package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

// ScheduleRepository archives fetched schedules per (location, date).
type ScheduleRepository struct {
	BaseRepository
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{BaseRepository: NewBaseRepository(db)}
}

// Get returns the archived schedule, or ErrNotFound.
func (r *ScheduleRepository) Get(ctx context.Context, location string, date prayer.Date) (*prayer.Schedule, error) {
	var raw [5]string
	err := r.DB().QueryRowContext(ctx, `
		SELECT subuh, dzuhur, ashar, maghrib, isya
		FROM schedule_archive WHERE location = ? AND date = ?
	`, location, date.String()).Scan(&raw[0], &raw[1], &raw[2], &raw[3], &raw[4])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}

	times := make(map[prayer.Name]prayer.TimeOfDay, len(prayer.Order))
	for i, name := range prayer.Order {
		tod, err := prayer.ParseTimeOfDay(raw[i])
		if err != nil {
			return nil, fmt.Errorf("archived %s: %w", name, err)
		}
		times[name] = tod
	}
	return prayer.NewSchedule(date, times)
}

// Put stores or replaces the schedule for location.
func (r *ScheduleRepository) Put(ctx context.Context, location string, s *prayer.Schedule) error {
	var cols [5]string
	for i, e := range s.Entries() {
		cols[i] = e.Time.String()
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO schedule_archive (id, location, date, subuh, dzuhur, ashar, maghrib, isya, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(location, date) DO UPDATE SET
			subuh = excluded.subuh, dzuhur = excluded.dzuhur, ashar = excluded.ashar,
			maghrib = excluded.maghrib, isya = excluded.isya, fetched_at = excluded.fetched_at
	`, GenerateID(), location, s.Date().String(), cols[0], cols[1], cols[2], cols[3], cols[4], r.Now())
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return nil
}

// List returns archived schedules for location, newest date first.
func (r *ScheduleRepository) List(ctx context.Context, location string, limit int) ([]models.ArchivedSchedule, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, location, date, subuh, dzuhur, ashar, maghrib, isya, fetched_at
		FROM schedule_archive WHERE location = ?
		ORDER BY date DESC LIMIT ?
	`, location, limit)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	var out []models.ArchivedSchedule
	for rows.Next() {
		var a models.ArchivedSchedule
		var raw [5]string
		if err := rows.Scan(&a.ID, &a.Location, &a.Date, &raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		a.Times = make(map[string]string, len(raw))
		for i, name := range prayer.Order {
			a.Times[string(name)] = raw[i]
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PruneBefore deletes schedules dated before cutoff.
func (r *ScheduleRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM schedule_archive WHERE date < ?", prayer.DateOf(cutoff).String())
	if err != nil {
		return 0, fmt.Errorf("pruning schedules: %w", err)
	}
	return res.RowsAffected()
}
