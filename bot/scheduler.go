package bot

import (
	"fmt"
	"log"
	"time"

	"forums-bot/database"
	"forums-bot/utils"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the cron jobs.
func startScheduler(actions *database.ActionLog, retentionDays int) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	_, err := c.AddFunc("@daily", func() {
		cleanupActions(actions, retentionDays)
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Action log cleanup scheduled to run daily.")
}

func cleanupActions(actions *database.ActionLog, retentionDays int) {
	removed, err := actions.CleanupOldActions(time.Now(), retentionDays)
	if err != nil {
		utils.Error("Scheduler", "CleanupActions", err.Error())
		return
	}
	if removed > 0 {
		utils.Info("Scheduler", "CleanupActions", fmt.Sprintf("Removed %d actions older than %d days", removed, retentionDays))
	}
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		<-c.Stop().Done()
		log.Println("Scheduler stopped.")
	}
}
