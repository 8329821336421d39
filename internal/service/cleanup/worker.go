package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionSweeper drops engine sessions that have gone quiet.
type SessionSweeper interface {
	CleanupIdleSessions(maxIdle time.Duration) int
}

// RoomSweeper closes relay rooms that have gone quiet.
type RoomSweeper interface {
	CleanupIdleRooms(maxIdle time.Duration) int
}

type Worker struct {
	Sessions SessionSweeper
	Rooms    RoomSweeper
	Interval time.Duration
	MaxIdle  time.Duration
}

func NewWorker(sessions SessionSweeper, rooms RoomSweeper, interval, maxIdle time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Worker{Sessions: sessions, Rooms: rooms, Interval: interval, MaxIdle: maxIdle}
}

// Run sweeps once immediately, then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Dur("interval", w.Interval).Dur("max_idle", w.MaxIdle).Msg("[CLEANUP] Background worker started")

	w.RunCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[CLEANUP] Background worker stopped")
			return nil
		case <-ticker.C:
			w.RunCleanup()
		}
	}
}

// RunCleanup executes one sweep
func (w *Worker) RunCleanup() (sessions, rooms int) {
	if w.Sessions != nil {
		sessions = w.Sessions.CleanupIdleSessions(w.MaxIdle)
	}
	if w.Rooms != nil {
		rooms = w.Rooms.CleanupIdleRooms(w.MaxIdle)
	}
	log.Debug().Int("sessions", sessions).Int("rooms", rooms).Msg("[CLEANUP] sweep finished")
	return sessions, rooms
}
