package scheduler

import (
	"github.com/newsloom/newsloom/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a runnable scheduled task.
type Job interface {
	Run() error
}

// Service drives the trend refresh on a cron schedule.
type Service struct {
	config *config.Config
	job    Job
	cron   *cron.Cron
}

// NewService creates a scheduler for the given job.
func NewService(cfg *config.Config, job Job) *Service {
	return &Service{
		config: cfg,
		job:    job,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled refresh.
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.RefreshSchedule {
	case "hourly":
		cronExpression = "0 0 * * * *"
	case "daily":
		// Daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	default:
		cronExpression = "0 0 * * * *"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		if err := s.job.Run(); err != nil {
			logrus.Errorf("Scheduled trend refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s refresh schedule", s.config.RefreshSchedule)
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
