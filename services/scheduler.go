// services/scheduler.go
package services

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

// StartRetentionScheduler prunes old daily quest rows every night at 03:00 local time.
// Balances are never touched by scheduled jobs.
func (s *QuestService) StartRetentionScheduler(retentionDays int) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithClock(s.Clock),
		gocron.WithLocation(s.Loc),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			n, err := s.PruneDailyQuests(retentionDays)
			if err != nil {
				log.Printf("[Scheduler] Failed to prune daily quests: %v", err)
				return
			}
			if n > 0 {
				log.Printf("🧹 Pruned %d daily quest rows older than %d days", n, retentionDays)
			}
		}),
		gocron.WithName("prune-daily-quests"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
