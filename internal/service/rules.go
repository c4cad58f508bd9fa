package service

import (
	"context"
	"errors"
	"time"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// rule decides whether a user meets the criteria of a trophy.
type rule struct {
	// afterAwards rules read award counts, so they run once the independent
	// rules of the same evaluation have been granted.
	afterAwards bool
	check       func(ctx context.Context, userID int64, value int) (bool, error)
}

func (s *TrophyService) ruleTable() map[entities.CriteriaType]rule {
	return map[entities.CriteriaType]rule{
		entities.CriteriaCoursesCompleted:    {check: s.coursesCompleted},
		entities.CriteriaRoleCompletion:      {check: s.roleCompletion},
		entities.CriteriaDistinctRoles:       {check: s.distinctRoles},
		entities.CriteriaStreakDays:          {check: s.streakDays},
		entities.CriteriaCompletedBeforeHour: {check: s.completedBeforeHour},
		entities.CriteriaCompletedFromHour:   {check: s.completedFromHour},
		entities.CriteriaPerfectCourses:      {check: s.perfectCourses},
		entities.CriteriaTopOfFriends:        {afterAwards: true, check: s.topOfFriends},
	}
}

func (s *TrophyService) coursesCompleted(ctx context.Context, userID int64, value int) (bool, error) {
	n, err := s.progress.CountCompleted(ctx, userID)
	if err != nil {
		return false, err
	}
	return n >= value, nil
}

// roleCompletion holds when some role has at least value percent of its courses completed.
func (s *TrophyService) roleCompletion(ctx context.Context, userID int64, value int) (bool, error) {
	done, err := s.progress.CompletedByRole(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(done) == 0 {
		return false, nil
	}

	totals, err := s.courses.CountByRole(ctx)
	if err != nil {
		return false, err
	}

	for role, n := range done {
		total := totals[role]
		if total > 0 && n*100 >= value*total {
			return true, nil
		}
	}
	return false, nil
}

func (s *TrophyService) distinctRoles(ctx context.Context, userID int64, value int) (bool, error) {
	done, err := s.progress.CompletedByRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(done) >= value, nil
}

func (s *TrophyService) streakDays(ctx context.Context, userID int64, value int) (bool, error) {
	st, err := s.streaks.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return st.CurrentStreak >= value, nil
}

func (s *TrophyService) completedBeforeHour(ctx context.Context, userID int64, value int) (bool, error) {
	return s.anyCompletion(ctx, userID, func(hour int) bool { return hour < value })
}

func (s *TrophyService) completedFromHour(ctx context.Context, userID int64, value int) (bool, error) {
	return s.anyCompletion(ctx, userID, func(hour int) bool { return hour >= value })
}

// anyCompletion reports whether some completion happened at a local hour accepted by match.
func (s *TrophyService) anyCompletion(ctx context.Context, userID int64, match func(hour int) bool) (bool, error) {
	times, err := s.progress.CompletionTimes(ctx, userID, time.Time{})
	if err != nil {
		return false, err
	}
	for _, t := range times {
		if match(entities.HourOf(t, s.opts.Location)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *TrophyService) perfectCourses(ctx context.Context, userID int64, value int) (bool, error) {
	n, err := s.progress.CountPerfect(ctx, userID)
	if err != nil {
		return false, err
	}
	return n >= value, nil
}

// topOfFriends holds when the user has friends and strictly more trophies than each of them.
func (s *TrophyService) topOfFriends(ctx context.Context, userID int64, value int) (bool, error) {
	friends, err := s.friends.ListFriendIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(friends) == 0 {
		return false, nil
	}

	counts, err := s.trophies.CountByUsers(ctx, append([]int64{userID}, friends...))
	if err != nil {
		return false, err
	}

	mine := counts[userID]
	if mine < max(value, 1) {
		return false, nil
	}
	for _, id := range friends {
		if counts[id] >= mine {
			return false, nil
		}
	}
	return true, nil
}
