//go:build !debug

package schedjobs

import (
	"log"
	"time"
)

func logJobAdded(*CronJob) {}

func logJobFinished(job *CronJob, _ time.Duration, err error) {
	if err != nil {
		log.Printf("[ERROR][SCHED] job %s: %v", job.ID, err)
	}
}
