package health

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/catalog"
)

// DefaultSweepSchedule runs the observability sweep once a minute.
const DefaultSweepSchedule = "* * * * *"

// Sweeper periodically snapshots the tracker and hands the result to a
// publish callback, typically a metrics gauge update. Recovery itself is
// lazy and does not depend on the sweep running.
type Sweeper struct {
	tracker  *Tracker
	schedule string
	publish  func(map[catalog.Key]State)
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewSweeper builds a sweeper on the given cron schedule.
func NewSweeper(tracker *Tracker, schedule string, publish func(map[catalog.Key]State), logger *slog.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		tracker:  tracker,
		schedule: schedule,
		publish:  publish,
		logger:   logger,
	}, nil
}

// Start schedules the sweep. It returns immediately; sweeps run on the cron
// goroutine until Stop.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("scheduling health sweep: %w", err)
	}
	s.cron.Start()
	s.logger.Info("health sweeper started", "schedule", s.schedule)
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	snapshot := s.tracker.Snapshot()
	if s.publish != nil {
		s.publish(snapshot)
	}
	down := 0
	for _, st := range snapshot {
		if st.Status == StatusDown {
			down++
		}
	}
	if down > 0 {
		s.logger.Warn("health sweep found open circuits", "down", down, "tracked", len(snapshot))
	} else {
		s.logger.Debug("health sweep complete", "tracked", len(snapshot))
	}
}
