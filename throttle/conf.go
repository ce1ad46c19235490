package throttle

import "time"

type BucketConf struct {
	Burst     int           // maximum number of tokens in the bucket
	Increment int           // how many tokens to add each period
	Period    time.Duration // how often to add Increment
}

// Conf is the JSON form, `throttle` in .core.json
type Conf struct {
	Burst               int `json:"burst"`
	Increment           int `json:"increment"`
	PeriodSec           int `json:"period_sec"`
	CleanupCycleSec     int `json:"cleanup_cycle_sec"`
	CleanupOlderThanSec int `json:"cleanup_older_than_sec"`
}

// Enabled is false for a zero burst: uploads are not throttled
func (c Conf) Enabled() bool {
	return c.Burst > 0
}

func (c Conf) BucketConf() *BucketConf {
	inc := c.Increment
	if inc <= 0 {
		inc = 1
	}
	period := time.Duration(c.PeriodSec) * time.Second
	if period <= 0 {
		period = time.Minute
	}
	return &BucketConf{Burst: c.Burst, Increment: inc, Period: period}
}

// Window is the fixed window used by the shared limiter: the time an empty
// bucket takes to refill completely.
func (c Conf) Window() time.Duration {
	bc := c.BucketConf()
	periods := (bc.Burst + bc.Increment - 1) / bc.Increment
	if periods < 1 {
		periods = 1
	}
	return time.Duration(periods) * bc.Period
}

func (c Conf) CleanupCycle() time.Duration {
	if c.CleanupCycleSec <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CleanupCycleSec) * time.Second
}

func (c Conf) CleanupOlderThan() time.Duration {
	if c.CleanupOlderThanSec <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.CleanupOlderThanSec) * time.Second
}
