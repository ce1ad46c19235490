//go:build debug

package schedjobs

import (
	"log"
	"time"
)

func logJobAdded(job *CronJob) {
	log.Printf("[DEBUG][SCHED] job added %s min=%x hour=%x dom=%x wd=%b",
		job.ID, job.Minutes, job.Hours, job.DaysOfMonth, job.Weekdays)
}

func logJobFinished(job *CronJob, took time.Duration, err error) {
	if err != nil {
		log.Printf("[ERROR][SCHED] job %s after %v: %v", job.ID, took, err)
		return
	}
	log.Printf("[DEBUG][SCHED] job %s done in %v", job.ID, took)
}
