package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one background refresh. Errors are logged, never retried early:
// the next tick is the retry.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		timeout: timeout,
	}
}

// Add registers jobs under a cron schedule such as "@every 10m".
func (s *Scheduler) Add(schedule string, jobs ...Job) error {
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(schedule, func() { s.run(job) }); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	log.Printf("[SCHEDULER] started with %d jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := job.Run(ctx); err != nil {
		log.Printf("[SCHEDULER] %s failed: %v", job.Name, err)
	}
}
