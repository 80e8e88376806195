// backend/src/services/retention.go
package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/username/pricedash/backend/src/logger"
)

// RunRetention deletes runs older than days before now. A non-positive
// days keeps everything.
func RunRetention(ctx context.Context, service AnalysisService, days int, now time.Time) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -days)
	purged, err := service.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.L.Info("Retention pass finished", "cutoff", cutoff.Format(time.RFC3339), "purged", purged)
	return purged, nil
}

// StartRetentionJob schedules RunRetention on a cron expression. It
// returns a nil scheduler when retention is disabled; callers stop a
// non-nil one with Stop.
func StartRetentionJob(ctx context.Context, service AnalysisService, schedule string, days int) (*cron.Cron, error) {
	if days <= 0 {
		logger.L.Info("Retention job disabled")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := RunRetention(ctx, service, days, time.Now()); err != nil {
			logger.L.Error("Retention pass failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.L.Info("Retention job scheduled", "schedule", schedule, "days", days)
	return c, nil
}
