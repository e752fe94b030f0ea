package main

import (
	"context"
	"fmt"
	"time"

	"screener-trader/internal/logger"
)

// nextOccurrence parses HH:MM or HH:MM:SS and returns the next time that clock reading
// occurs at or after now. A reading already past today rolls over to tomorrow.
func nextOccurrence(now time.Time, clock string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM or HH:MM:SS", clock)
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

// waitUntil blocks until at, printing the remaining time every tick. It returns
// ctx.Err() if cancelled first.
func waitUntil(ctx context.Context, at time.Time, tick time.Duration, show func(string)) error {
	timer := time.NewTimer(time.Until(at))
	defer timer.Stop()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	logger.Info(ctx, "Waiting for scheduled start", "at", at.Format(time.RFC3339))
	show(fmt.Sprintf("Scheduled for %s. Press Ctrl+C to cancel.", at.Format("15:04:05")))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-ticker.C:
			show("Starting in " + formatCountdown(time.Until(at)))
		}
	}
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
