package session

import (
	"context"
	"time"

	"github.com/wonny/rebalancer/pkg/logger"
)

// SweepJob removes idle sessions on a cron schedule.
type SweepJob struct {
	manager  *Manager
	schedule string
	logger   *logger.Logger
}

// NewSweepJob creates the idle-session janitor. Sweeps go through the
// manager so live subscribers of evicted sessions are closed.
func NewSweepJob(manager *Manager, schedule string, log *logger.Logger) *SweepJob {
	return &SweepJob{manager: manager, schedule: schedule, logger: log}
}

func (j *SweepJob) Name() string     { return "session_sweep" }
func (j *SweepJob) Schedule() string { return j.schedule }

func (j *SweepJob) Run(ctx context.Context) error {
	removed, err := j.manager.Sweep(ctx, time.Now())
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Idle sessions swept")
	}
	return nil
}
