package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

const recentCoursesShown = 3

// TrophyReevaluator runs the trophy stage outside the answer flow.
type TrophyReevaluator interface {
	ReevaluateTrophies(ctx context.Context, userID int64) ([]entities.TrophyAwarded, error)
}

// FriendService manages friendships and friend profiles.
type FriendService struct {
	users       UserRepository
	friendships FriendshipRepository
	progress    ProgressRepository
	streaks     StreakRepository
	trophies    TrophyRepository
	evaluator   TrophyReevaluator
	logger      *zap.Logger
}

func NewFriendService(store Store, evaluator TrophyReevaluator, logger *zap.Logger) *FriendService {
	return &FriendService{
		users:       store.Users,
		friendships: store.Friendships,
		progress:    store.Progress,
		streaks:     store.Streaks,
		trophies:    store.Trophies,
		evaluator:   evaluator,
		logger:      logger,
	}
}

// AddByCode befriends the owner of a friend code. Both users are then
// re-evaluated for friend-relative trophies.
func (s *FriendService) AddByCode(ctx context.Context, userID int64, code string) (*entities.User, error) {
	const op = "add friend"

	code = entities.NormalizeFriendCode(code)
	if code == "" {
		return nil, apperr.InvalidState(op, "empty friend code")
	}

	friend, err := s.users.GetByFriendCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if friend.ID == userID {
		return nil, apperr.InvalidState(op, "cannot befriend yourself")
	}

	added, err := s.friendships.Add(ctx, userID, friend.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !added {
		return nil, apperr.InvalidState(op, "already friends with %s", friend.DisplayName())
	}

	for _, id := range []int64{userID, friend.ID} {
		if _, err := s.evaluator.ReevaluateTrophies(ctx, id); err != nil {
			s.logger.Warn("failed to re-evaluate trophies after new friendship",
				zap.Int64("user_id", id),
				zap.Error(err),
			)
		}
	}

	return friend, nil
}

// Remove ends a friendship. Trophies earned through it are kept.
func (s *FriendService) Remove(ctx context.Context, userID, friendID int64) error {
	removed, err := s.friendships.Remove(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}
	if !removed {
		return apperr.NotFound("friendship")
	}
	return nil
}

// RemoveByCode ends the friendship with the owner of a friend code.
func (s *FriendService) RemoveByCode(ctx context.Context, userID int64, code string) (*entities.User, error) {
	friend, err := s.users.GetByFriendCode(ctx, entities.NormalizeFriendCode(code))
	if err != nil {
		return nil, fmt.Errorf("remove friend: %w", err)
	}
	if err := s.Remove(ctx, userID, friend.ID); err != nil {
		return nil, err
	}
	return friend, nil
}

// List returns the profile of every friend of a user.
func (s *FriendService) List(ctx context.Context, userID int64) ([]entities.FriendStats, error) {
	const op = "list friends"

	ids, err := s.friendships.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	trophies, err := s.trophies.CountByUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := make([]entities.FriendStats, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetByID(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		stats := entities.FriendStats{User: *user, Trophies: trophies[id]}

		if stats.CoursesCompleted, err = s.progress.CountCompleted(ctx, id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if stats.RecentCourses, err = s.progress.RecentCompletions(ctx, id, recentCoursesShown); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		st, err := s.streaks.Get(ctx, id)
		switch {
		case err == nil:
			stats.CurrentStreak = st.CurrentStreak
			stats.MaxStreak = st.MaxStreak
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		res = append(res, stats)
	}
	return res, nil
}
