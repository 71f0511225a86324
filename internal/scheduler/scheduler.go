package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/services"
)

// Scheduler pre-generates the day's puzzle shortly after UTC midnight
// and announces it to push subscribers, so the first visitor rarely
// pays generation latency. The HTTP cron endpoint stays available for
// external triggers; both paths hit the same per-day cache.
type Scheduler struct {
	cron          *cron.Cron
	puzzles       services.PuzzleService
	notifications services.NotificationService
	spec          string
	log           *logger.Logger
}

func New(puzzles services.PuzzleService, notifications services.NotificationService, spec string) *Scheduler {
	if spec == "" {
		spec = "5 0 * * *" // 00:05 UTC daily
	}
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		puzzles:       puzzles,
		notifications: notifications,
		spec:          spec,
		log:           logger.Default().WithPrefix("scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runDaily(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started: spec=%q", s.spec)
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runDaily(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(logger.NewContext(ctx, s.log), 5*time.Minute)
	defer cancel()

	now := time.Now()
	day := models.DayKey(now)
	s.log.Info("scheduled generation starting: day=%s", day)

	puzzle, generated, err := s.puzzles.EnsureDailyPuzzle(runCtx, now)
	if err != nil {
		s.log.Error("scheduled generation failed: %v", err)
		return
	}
	s.log.Info("scheduled generation done: day=%s, id=%s, generated=%v", day, puzzle.ID, generated)

	queued, err := s.notifications.AnnounceDailyPuzzle(runCtx, day)
	if err != nil {
		s.log.Warn("daily announcement failed: %v", err)
		return
	}
	s.log.Info("daily announcement queued to %d subscribers", queued)
}
