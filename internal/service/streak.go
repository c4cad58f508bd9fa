package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// StreakService is the streak evaluator.
type StreakService struct {
	streaks StreakRepository
	opts    Options
}

func NewStreakService(streaks StreakRepository, opts Options) *StreakService {
	return &StreakService{streaks: streaks, opts: opts.withDefaults()}
}

// DayOf maps an instant to its calendar day in the configured timezone.
func (s *StreakService) DayOf(t time.Time) time.Time {
	return entities.DateOf(t, s.opts.Location)
}

// Today is the current calendar day in the configured timezone.
func (s *StreakService) Today() time.Time {
	return s.DayOf(s.opts.Now())
}

// RecordActivity counts day as active and reports whether the streak changed.
// Repeated calls for the same day, or for a day before the last counted one,
// change nothing.
func (s *StreakService) RecordActivity(ctx context.Context, userID int64, day time.Time) (*entities.Streak, bool, error) {
	const op = "record activity"

	y, m, d := day.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		st, err := s.load(ctx, userID)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}

		if !st.RecordActivity(day, s.opts.Now()) {
			return st, false, nil
		}

		err = s.streaks.Update(ctx, st)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
		return st, true, nil
	}

	return nil, false, apperr.Conflict(op)
}

// Get returns the streak of a user, or an empty one if none was recorded yet.
func (s *StreakService) Get(ctx context.Context, userID int64) (*entities.Streak, error) {
	st, err := s.streaks.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return entities.NewStreak(userID, s.opts.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}
	return st, nil
}

func (s *StreakService) load(ctx context.Context, userID int64) (*entities.Streak, error) {
	st, err := s.streaks.Get(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	st = entities.NewStreak(userID, s.opts.Now())
	created, err := s.streaks.Create(ctx, st)
	if err != nil {
		return nil, err
	}
	if created {
		return st, nil
	}
	return s.streaks.Get(ctx, userID)
}
