package schedjobs

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/daddykotex/pdf-edit-bulk/svc"
)

// Scheduler runs cron jobs on minute boundaries as a svc.Service.
// Jobs of the same minute run concurrently; Stop waits for running jobs.
type Scheduler struct {
	Ctx    context.Context    // Service Context
	cancel context.CancelFunc // Service Context CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
	state  int        // internal service state
	done   chan error // Shutdown Error Channel
	jobs   []*CronJob
	// Default Callback
	OnCronJobFinished func(job *CronJob, err error)
}

// Ensure Scheduler implements svc.Service
var _ svc.Service = (*Scheduler)(nil)

func NewScheduler(parentCtx context.Context) *Scheduler {
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &Scheduler{
		Ctx:    svcCtx,
		cancel: svcCancel,
		state:  svc.StateREADY,
		done:   make(chan error, 1),
	}
}

func (s *Scheduler) Name() string {
	return "JobScheduler"
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateREADY {
		return fmt.Errorf("cannot start. not ready")
	}
	s.state = svc.StateRUNNING
	go s.loop()
	log.Printf("[INFO][SCHED] job scheduler started with %d jobs", len(s.jobs))
	return nil
}

func (s *Scheduler) Stop() {
	s.cancel()
}

func (s *Scheduler) Done() <-chan error {
	return s.done
}

func (s *Scheduler) AddCronJob(job *CronJob) {
	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()
	logJobAdded(job)
}

// CronJobs returns a copy of the registered jobs
func (s *Scheduler) CronJobs() []*CronJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.jobs)
}

func (s *Scheduler) loop() {
	// align on the next minute boundary
	timer := time.NewTimer(time.Until(time.Now().Truncate(time.Minute).Add(time.Minute)))
	defer timer.Stop()
	for {
		select {
		case now := <-timer.C:
			s.runDue(now)
			timer.Reset(time.Until(now.Truncate(time.Minute).Add(time.Minute)))
		case <-s.Ctx.Done():
			s.wg.Wait() // wait for running jobs
			s.mu.Lock()
			s.state = svc.StateSTOPPED
			s.mu.Unlock()
			log.Println("[INFO][SCHED] job scheduler stopped")
			s.done <- nil
			return
		}
	}
}

// runDue starts every job matching now
func (s *Scheduler) runDue(now time.Time) int {
	n := 0
	for _, job := range s.CronJobs() {
		if job.Matches(now) {
			s.run(job)
			n++
		}
	}
	return n
}

func (s *Scheduler) run(job *CronJob) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] Recovered in job %s: %v", job.ID, r)
			}
		}()
		started := time.Now()
		err := job.Task(s.Ctx)
		logJobFinished(job, time.Since(started), err)
		if job.OnFinished != nil {
			job.OnFinished(err)
		}
		if s.OnCronJobFinished != nil {
			s.OnCronJobFinished(job, err)
		}
	}()
}
