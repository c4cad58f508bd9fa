package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// SchedulerConfig configures the background jobs.
type SchedulerConfig struct {
	ReminderSpec string        // cron spec for streak reminders
	SweepSpec    string        // cron spec for the reconciliation sweep
	SweepWindow  time.Duration // how far back the sweep looks for completions
	Workers      int           // users processed concurrently by the sweep
}

// ReminderService runs the streak reminder and the reconciliation sweep.
type ReminderService struct {
	streaks  StreakRepository
	progress ProgressRepository
	pipeline *Pipeline
	notifier Notifier
	cfg      SchedulerConfig
	opts     Options
	logger   *zap.Logger
}

func NewReminderService(
	streaks StreakRepository,
	progress ProgressRepository,
	pipeline *Pipeline,
	cfg SchedulerConfig,
	opts Options,
) *ReminderService {
	opts = opts.withDefaults()
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &ReminderService{
		streaks:  streaks,
		progress: progress,
		pipeline: pipeline,
		notifier: NopNotifier{},
		cfg:      cfg,
		opts:     opts,
		logger:   opts.Logger,
	}
}

// SetNotifier sets the notifier (called after the delivery layer is created).
func (s *ReminderService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Start schedules both jobs and blocks until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.opts.Location))

	if _, err := c.AddFunc(s.cfg.ReminderSpec, func() {
		if _, err := s.SendStreakReminders(ctx); err != nil {
			s.logger.Error("failed to send streak reminders", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule streak reminders: %w", err)
	}

	if _, err := c.AddFunc(s.cfg.SweepSpec, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("failed to run reconciliation sweep", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule reconciliation sweep: %w", err)
	}

	c.Start()
	s.logger.Info("scheduler started",
		zap.String("reminders", s.cfg.ReminderSpec),
		zap.String("sweep", s.cfg.SweepSpec),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// SendStreakReminders warns every user whose streak ends unless they finish a
// course today. It returns the number of reminders sent.
func (s *ReminderService) SendStreakReminders(ctx context.Context) (int, error) {
	today := entities.DateOf(s.opts.Now(), s.opts.Location)

	streaks, err := s.streaks.ListLastActiveOn(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		return 0, fmt.Errorf("list streaks at risk: %w", err)
	}

	sent := 0
	for _, st := range streaks {
		if !st.AtRisk(today) {
			continue
		}
		s.notifier.Notify(ctx, entities.StreakAtRisk{UserID: st.UserID, CurrentStreak: st.CurrentStreak})
		sent++
	}

	s.logger.Info("streak reminders sent", zap.Int("sent", sent))
	return sent, nil
}

// Sweep reconciles every user with a completion inside the sweep window. A
// failure for one user is logged and does not stop the others. It returns the
// number of users reconciled.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	since := s.opts.Now().Add(-s.cfg.SweepWindow)

	users, err := s.progress.UsersCompletedSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list recently active users: %w", err)
	}

	var reconciled atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, userID := range users {
		g.Go(func() error {
			res, err := s.pipeline.Reconcile(gctx, userID, since)
			if err != nil {
				s.logger.Error("failed to reconcile user", zap.Int64("user_id", userID), zap.Error(err))
				return nil
			}
			reconciled.Add(1)
			if len(res.Events) > 0 {
				s.logger.Info("user reconciled",
					zap.Int64("user_id", userID),
					zap.Int("events", len(res.Events)),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(reconciled.Load()), nil
}
