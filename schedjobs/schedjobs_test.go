package schedjobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCronJobMatches(t *testing.T) {
	job := NewDailyCronJob("prune", 3, 30, nil)
	job.Weekdays = BitsFromWeekdays([]int{1, 5}) // mon, fri
	job.DaysOfMonth = BitsFromDaysOfMonth([]int{1, 2, 3, 4, 5, 6, 7, 31})

	tests := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2026, 6, 1, 3, 30, 0, 0, time.UTC), true},  // monday 1st
		{time.Date(2026, 6, 1, 3, 31, 0, 0, time.UTC), false}, // wrong minute
		{time.Date(2026, 6, 1, 4, 30, 0, 0, time.UTC), false}, // wrong hour
		{time.Date(2026, 6, 2, 3, 30, 0, 0, time.UTC), false}, // tuesday
		{time.Date(2026, 6, 5, 3, 30, 0, 0, time.UTC), true},  // friday 5th
		{time.Date(2026, 6, 8, 3, 30, 0, 0, time.UTC), false}, // monday 8th
	}
	for _, tt := range tests {
		if got := job.Matches(tt.at); got != tt.want {
			t.Errorf("Matches(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	every := NewEveryMinEmptyCronJob("every")
	if !every.Matches(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)) {
		t.Error("every-minute job misses the last minute of the year")
	}
}

func TestBitsIgnoreOutOfRange(t *testing.T) {
	if got := BitsFromMinutes([]int{-1, 0, 59, 60}); got != 1|1<<59 {
		t.Errorf("minutes = %x", got)
	}
	if got := BitsFromHours([]int{24, 23}); got != 1<<23 {
		t.Errorf("hours = %x", got)
	}
	if got := BitsFromDaysOfMonth([]int{0, 1, 32}); got != 1 {
		t.Errorf("days = %x", got)
	}
	if got := BitsFromWeekdays([]int{7, 6}); got != 1<<6 {
		t.Errorf("weekdays = %b", got)
	}
}

func TestSchedulerRunsDueJobs(t *testing.T) {
	s := NewScheduler(context.Background())
	var ran atomic.Int32
	finished := make(chan error, 2)
	s.OnCronJobFinished = func(_ *CronJob, err error) { finished <- err }

	s.AddCronJob(NewDailyCronJob("due", 3, 0, func(context.Context) error {
		ran.Add(1)
		return nil
	}))
	s.AddCronJob(NewDailyCronJob("failing", 3, 0, func(context.Context) error {
		return errors.New("boom")
	}))
	s.AddCronJob(NewDailyCronJob("later", 4, 0, func(context.Context) error {
		t.Error("job ran outside its minute")
		return nil
	}))

	if n := s.runDue(time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)); n != 2 {
		t.Fatalf("started %d jobs, want 2", n)
	}
	var errs int
	for range 2 {
		if err := <-finished; err != nil {
			errs++
		}
	}
	if ran.Load() != 1 || errs != 1 {
		t.Errorf("ran=%d errs=%d, want 1 and 1", ran.Load(), errs)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(context.Background())
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start succeeded")
	}
	s.Stop()
	select {
	case err := <-s.Done():
		if err != nil {
			t.Errorf("Done = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
