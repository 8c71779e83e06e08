package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Job is a periodic task. A job with a non-positive Interval is not scheduled.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	jobs []Job

	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	for _, j := range s.jobs {
		if j.Interval <= 0 {
			logrus.WithField("job", j.Name).Info("job disabled")
			continue
		}
		run := j.Run
		name := j.Name
		task := func(jobCtx context.Context) {
			execID := uuid.NewString()
			if runErr := run(jobCtx); runErr != nil {
				logrus.WithError(runErr).WithFields(logrus.Fields{"job": name, "exec_id": execID}).Error("job failed")
			}
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(j.Interval),
			gocron.NewTask(task),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return err
		}
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	sched := s.sched
	s.sched = nil
	s.mu.Unlock()

	if sched == nil {
		return nil
	}
	return sched.Shutdown()
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}
