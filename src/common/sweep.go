package common

import (
	"context"
	"gsc/src/config"
	"gsc/src/lib/metrics"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

const SweepJobName = "expire-stale-drafts"

// DraftTTL is the age after which an untouched visa draft expires. The
// lifecycle/draft_ttl_days setting overrides the environment.
func DraftTTL(tx *gorm.DB) time.Duration {
	days := models.SettingInt(tx, models.SETTINGS_GROUP_LIFECYCLE, "draft_ttl_days", config.DraftTTLDays())
	if days <= 0 {
		days = config.DraftTTLDays()
	}
	return time.Duration(days) * 24 * time.Hour
}

// SweepStaleDrafts expires old visa drafts and records the run as a job task.
func SweepStaleDrafts(ctx context.Context, db *gorm.DB, engine *lifecycle.Engine, source string) (*models.JobTask, error) {
	started := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}()

	ttl := DraftTTL(db)
	cutoff := started.UTC().Add(-ttl)
	task, err := models.StartJobTask(db, SweepJobName, "DurationJob", source, types.JSONB{
		"cutoff":   cutoff.Format(time.RFC3339),
		"ttl_days": int(ttl.Hours() / 24),
	})
	if err != nil {
		return nil, err
	}

	processed, failed, runErr := engine.ExpireDrafts(ctx, cutoff)
	if runErr != nil {
		log.Printf("Expiry sweep failed: %s\n", runErr.Error())
	}
	if err := task.Finish(db, processed, failed, runErr); err != nil {
		log.Printf("Failed to record sweep result: %s\n", err.Error())
	}
	log.Printf("Expiry sweep done: expired=%d failed=%d\n", processed, failed)
	return task, runErr
}
