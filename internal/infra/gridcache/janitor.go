package gridcache

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Purger drops expired entries.
type Purger interface {
	Purge() int
}

// Janitor periodically purges expired frames so idle entries do not pin memory until evicted by size.
type Janitor struct {
	scheduler *gocron.Scheduler
	target    Purger
	logger    *slog.Logger
}

// NewJanitor schedules a purge of target every interval. A nil target yields a janitor that does nothing.
func NewJanitor(target Purger, interval time.Duration, logger *slog.Logger) (*Janitor, error) {
	j := &Janitor{target: target, logger: logger.With("component", "gridcache.janitor")}
	if target == nil || interval <= 0 {
		return j, nil
	}
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(interval).Do(j.sweep); err != nil {
		return nil, err
	}
	j.scheduler = s
	return j, nil
}

// Start runs the schedule in the background.
func (j *Janitor) Start() {
	if j.scheduler == nil {
		return
	}
	j.logger.Info("frame cache janitor started")
	j.scheduler.StartAsync()
}

// Stop halts the schedule.
func (j *Janitor) Stop() {
	if j.scheduler == nil {
		return
	}
	j.scheduler.Stop()
	j.logger.Info("frame cache janitor stopped")
}

func (j *Janitor) sweep() {
	if removed := j.target.Purge(); removed > 0 {
		j.logger.Debug("purged expired frames", "count", removed)
	}
}
