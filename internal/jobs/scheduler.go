// Package jobs runs the periodic ledger chores: snapshot backups to disk and
// payment reminders for overdue customers.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/udhaar-ledger/internal/logging"
)

const jobTimeout = 5 * time.Minute

// Job is one scheduled chore.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *logrus.Logger
}

func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Add schedules job with a standard five-field cron spec. An empty spec leaves
// the job disabled.
func (s *Scheduler) Add(spec string, job Job) error {
	if spec == "" {
		s.logger.WithField("job", job.Name()).Info("Scheduler.Add.disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		s.RunNow(job)
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"job": job.Name(), "schedule": spec}).Info("Scheduler.Add")
	return nil
}

// RunNow runs job synchronously with the same logging as a scheduled run.
func (s *Scheduler) RunNow(job Job) {
	logData := logging.NewLogData(s.logger)
	logData.AddData("job", job.Name())

	ctx, cancel := context.WithTimeout(logging.WithLogData(context.Background(), logData), jobTimeout)
	defer cancel()

	endTimer := logData.AddTiming("duration")
	err := job.Run(ctx)
	endTimer()
	if err != nil {
		logData.Log().WithError(err).Errorf("Job.%v.Error", job.Name())
		return
	}
	logData.Log().Infof("Job.%v.Complete", job.Name())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
