package server

import (
	"context"
	"time"

	"pulsebot/internal/logger"
)

// sweepInterval is how often stale conversation contexts are purged.
const sweepInterval = time.Hour

// Scheduler drives the morning digest send and the periodic context sweep.
type Scheduler struct {
	server   *Server
	sendHour int
	location *time.Location
}

// NewScheduler creates a scheduler. The timezone name comes from
// configuration; unknown names fall back to the local zone.
func NewScheduler(server *Server, sendHour int, timezone string) *Scheduler {
	location := time.Local
	if timezone != "" && timezone != "Local" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			location = loc
		} else {
			logger.Warn("Unknown timezone, using local", "timezone", timezone)
		}
	}
	if sendHour < 0 || sendHour > 23 {
		sendHour = 9
	}
	return &Scheduler{server: server, sendHour: sendHour, location: location}
}

// Run blocks until the context is cancelled, firing the daily send and the
// hourly sweep.
func (sc *Scheduler) Run(ctx context.Context) {
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	daily := time.NewTimer(time.Until(sc.nextSend(time.Now())))
	defer daily.Stop()

	logger.Info("Scheduler started",
		"send_hour", sc.sendHour, "next_send", sc.nextSend(time.Now()).Format(time.RFC3339))

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			if purged := sc.server.deps.Curator.PurgeStaleContexts(); purged > 0 {
				logger.Info("Purged stale conversation contexts", "count", purged)
			}
		case <-daily.C:
			sc.sendAll(ctx)
			daily.Reset(time.Until(sc.nextSend(time.Now())))
		}
	}
}

// nextSend returns the next occurrence of the configured send hour.
func (sc *Scheduler) nextSend(now time.Time) time.Time {
	now = now.In(sc.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), sc.sendHour, 0, 0, 0, sc.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// sendAll delivers the morning digest to every onboarded user as a DM.
func (sc *Scheduler) sendAll(ctx context.Context) {
	userIDs := sc.server.deps.Store.ProfileUserIDs()
	logger.Info("Morning digest send starting", "users", len(userIDs))

	for _, userID := range userIDs {
		sendCtx, cancel := context.WithTimeout(ctx, sc.server.jobTimeout)
		// Posting to the user id opens a DM with the bot.
		sc.server.sendDigest(sendCtx, userID, userID)
		cancel()
	}
}
