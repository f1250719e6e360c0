// Package jobs runs the periodic funding sync and ledger export on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/suiholar/research-dao-backend/internal/logging"
)

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Schedule string // six-field cron spec, seconds first
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Result is the outcome of the most recent run of a job.
type Result struct {
	Name     string
	Started  time.Time
	Duration time.Duration
	Err      error
}

type Scheduler struct {
	cron *cron.Cron
	jobs map[string]Job

	mu      sync.Mutex
	results map[string]Result
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		jobs:    make(map[string]Job),
		results: make(map[string]Result),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers a job. An empty schedule registers it for RunNow only.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job needs a name and a run func")
	}
	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("job %q already registered", job.Name)
	}
	if job.Schedule != "" {
		if _, err := s.cron.AddFunc(job.Schedule, func() { _ = s.run(s.ctx, job) }); err != nil {
			return fmt.Errorf("schedule %q for %s: %w", job.Schedule, job.Name, err)
		}
	}
	s.jobs[job.Name] = job
	return nil
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("Cron scheduler started with %d job(s)", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Println("Cron scheduler stopped")
}

// RunNow runs a registered job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(ctx, job)
}

// LastResult returns the most recent outcome of a job.
func (s *Scheduler) LastResult(name string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[name]
	return r, ok
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}
	ctx = logging.WithRequestID(ctx, "job-"+job.Name)
	logger := logging.NewLogger(ctx)

	started := time.Now()
	err := job.Run(ctx)
	res := Result{Name: job.Name, Started: started, Duration: time.Since(started), Err: err}

	s.mu.Lock()
	s.results[job.Name] = res
	s.mu.Unlock()

	if err != nil {
		logger.LogError(job.Name, err)
	} else {
		logger.LogInfof(job.Name, "completed in %s", res.Duration)
	}
	return err
}
