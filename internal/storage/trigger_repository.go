package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

// TriggerRepository stores the history of fired triggers.
type TriggerRepository struct {
	BaseRepository
}

// NewTriggerRepository creates a new trigger repository.
func NewTriggerRepository(db *DB) *TriggerRepository {
	return &TriggerRepository{BaseRepository: NewBaseRepository(db)}
}

// Record inserts a fired trigger with its dispatch result.
func (r *TriggerRepository) Record(ctx context.Context, ev prayer.TriggerEvent, res prayer.DispatchResult) error {
	id := ev.ID
	if id == "" {
		id = GenerateID()
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO trigger_history (
			id, prayer, date, minute, location, fired_at,
			notified, dnd_active, audio_started, audio_skipped
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, string(ev.Prayer), ev.Date.String(), ev.Minute.String(), ev.LocationKey, ev.FiredAt.UTC(),
		res.Notified, res.DndActive, res.AudioStarted, res.AudioSkipped,
	)
	if err != nil {
		return fmt.Errorf("inserting trigger: %w", err)
	}
	return nil
}

// ListRecent returns the latest triggers, newest first.
func (r *TriggerRepository) ListRecent(ctx context.Context, limit int) ([]models.TriggerRecord, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, prayer, date, minute, location, fired_at,
			   notified, dnd_active, audio_started, audio_skipped
		FROM trigger_history
		ORDER BY fired_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying triggers: %w", err)
	}
	defer rows.Close()

	records := []models.TriggerRecord{}
	for rows.Next() {
		var t models.TriggerRecord
		if err := rows.Scan(
			&t.ID, &t.Prayer, &t.Date, &t.Minute, &t.Location, &t.FiredAt,
			&t.Notified, &t.DndActive, &t.AudioStarted, &t.AudioSkipped,
		); err != nil {
			return nil, fmt.Errorf("scanning trigger: %w", err)
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

// PruneBefore deletes triggers fired before cutoff.
func (r *TriggerRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM trigger_history WHERE fired_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning triggers: %w", err)
	}
	return res.RowsAffected()
}

// TriggerRecorder persists triggers as a scheduler listener.
type TriggerRecorder struct {
	prayer.BaseListener
	repo    *TriggerRepository
	timeout time.Duration
}

// NewTriggerRecorder creates a recorder writing to repo.
func NewTriggerRecorder(repo *TriggerRepository) *TriggerRecorder {
	return &TriggerRecorder{repo: repo, timeout: 5 * time.Second}
}

// OnTrigger records the trigger.
func (t *TriggerRecorder) OnTrigger(ev prayer.TriggerEvent, res prayer.DispatchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.repo.Record(ctx, ev, res); err != nil {
		log.Warn().Err(err).Str("prayer", string(ev.Prayer)).Msg("Failed to record trigger")
	}
}
