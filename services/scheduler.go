// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRecoveryScheduler runs Tick every interval until the returned scheduler
// is shut down. Runs never overlap.
func (s *StaminaService) StartRecoveryScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create stamina scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.Tick),
		gocron.WithName("stamina-recovery"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule stamina recovery: %w", err)
	}

	sched.Start()
	log.Printf("✅ Stamina recovery running (every %s)", interval)
	return sched, nil
}
