package scheduler

import (
	"log"

	"dealscout/repository"

	"github.com/robfig/cron/v3"
)

// RetentionCleaner prunes old search history rows on a schedule.
type RetentionCleaner struct {
	cron       *cron.Cron
	searchRepo *repository.SearchRepository
	days       int
}

func NewRetentionCleaner(searchRepo *repository.SearchRepository, retentionDays int) *RetentionCleaner {
	return &RetentionCleaner{
		cron:       cron.New(cron.WithSeconds()),
		searchRepo: searchRepo,
		days:       retentionDays,
	}
}

// Start schedules the nightly cleanup at 03:00 and runs one pass on
// startup.
func (rc *RetentionCleaner) Start() {
	_, err := rc.cron.AddFunc("0 0 3 * * *", rc.prune)
	if err != nil {
		log.Printf("Failed to schedule retention cleaner: %v", err)
		return
	}

	go rc.prune()

	rc.cron.Start()
	log.Printf("Retention cleaner scheduled nightly, keeping %d days of history", rc.days)
}

// Stop stops the scheduler.
func (rc *RetentionCleaner) Stop() {
	if rc.cron != nil {
		rc.cron.Stop()
	}
}

func (rc *RetentionCleaner) prune() {
	deleted, err := rc.searchRepo.PruneOlderThan(rc.days)
	if err != nil {
		log.Printf("Retention cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Retention cleanup removed %d old searches", deleted)
	}
}
