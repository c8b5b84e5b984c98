package handlers

import (
	"net/http"

	"github.com/fikrisyahid/adzanid/internal/api/middleware"
)

// StopAudio stops any playing adhan.
func StopAudio(player AudioController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player.Stop()
		writeJSON(w, http.StatusOK, map[string]bool{"playing": false})
	}
}

// TestAudio plays the configured adhan immediately, bypassing the DND gate.
func TestAudio(player AudioController, sched Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configured := sched.Status().AudioPath
		path, ok := player.Resolve(configured)
		if !ok {
			middleware.WriteErrorWithDetails(w, http.StatusNotFound, middleware.ErrNotFound, "Adhan file not found",
				map[string]string{"adhan_path": configured})
			return
		}
		if player.Muted() {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Audio is muted")
			return
		}
		if !player.Play(path) {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to start playback")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"playing": true, "path": path})
	}
}
