package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// TrophyService is the trophy evaluator.
type TrophyService struct {
	trophies TrophyRepository
	courses  CourseRepository
	progress ProgressRepository
	streaks  StreakRepository
	friends  FriendshipRepository
	rules    map[entities.CriteriaType]rule
	opts     Options
	logger   *zap.Logger
}

func NewTrophyService(store Store, opts Options) *TrophyService {
	opts = opts.withDefaults()
	s := &TrophyService{
		trophies: store.Trophies,
		courses:  store.Courses,
		progress: store.Progress,
		streaks:  store.Streaks,
		friends:  store.Friendships,
		opts:     opts,
		logger:   opts.Logger,
	}
	s.rules = s.ruleTable()
	return s
}

// Evaluate checks every trophy the user does not hold yet and awards the ones
// whose criteria are met. It returns only the awards inserted by this call, in
// catalog order. trigger is used for logging and may be nil.
//
// Evaluations for the same user may run concurrently: the store keeps one
// award per user and trophy, so each trophy is reported at most once.
func (s *TrophyService) Evaluate(ctx context.Context, userID int64, trigger entities.Event) ([]entities.TrophyAwarded, error) {
	catalog, err := s.trophies.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("evaluate trophies: %w", err)
	}

	earned, err := s.trophies.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("evaluate trophies: %w", err)
	}
	held := make(map[uuid.UUID]struct{}, len(earned))
	for _, e := range earned {
		held[e.TrophyID] = struct{}{}
	}

	var independent, dependent []entities.Trophy
	for _, t := range catalog {
		if _, ok := held[t.ID]; ok {
			continue
		}
		r, ok := s.rules[t.CriteriaType]
		if !ok {
			s.logger.Warn("no rule for trophy criteria",
				zap.String("trophy", t.Key),
				zap.String("criteria", string(t.CriteriaType)),
			)
			continue
		}
		if r.afterAwards {
			dependent = append(dependent, t)
		} else {
			independent = append(independent, t)
		}
	}

	fields := []zap.Field{zap.Int64("user_id", userID), zap.Int("candidates", len(independent)+len(dependent))}
	if trigger != nil {
		fields = append(fields, zap.String("trigger", string(trigger.Kind())))
	}
	s.logger.Debug("evaluating trophies", fields...)

	awards, err := s.grant(ctx, userID, independent)
	if err != nil {
		return awards, err
	}
	more, err := s.grant(ctx, userID, dependent)
	return append(awards, more...), err
}

// grant checks candidates concurrently and then inserts the eligible ones in order.
func (s *TrophyService) grant(ctx context.Context, userID int64, candidates []entities.Trophy) ([]entities.TrophyAwarded, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	eligible := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)
	for i, t := range candidates {
		check := s.rules[t.CriteriaType].check
		g.Go(func() error {
			ok, err := check(gctx, userID, t.CriteriaValue)
			if err != nil {
				return fmt.Errorf("check trophy %s: %w", t.Key, err)
			}
			eligible[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var awards []entities.TrophyAwarded
	for i, t := range candidates {
		if !eligible[i] {
			continue
		}

		now := s.opts.Now()
		inserted, err := s.trophies.Award(ctx, userID, t.ID, now)
		if err != nil {
			return awards, fmt.Errorf("award trophy %s: %w", t.Key, err)
		}
		if !inserted {
			continue
		}

		s.logger.Info("trophy awarded", zap.Int64("user_id", userID), zap.String("trophy", t.Key))
		awards = append(awards, entities.TrophyAwarded{UserID: userID, Trophy: t, EarnedAt: now})
	}
	return awards, nil
}

// Shelf splits the catalog into the user's earned and locked trophies.
func (s *TrophyService) Shelf(ctx context.Context, userID int64) (*entities.TrophyShelf, error) {
	catalog, err := s.trophies.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("trophy shelf: %w", err)
	}

	earned, err := s.trophies.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("trophy shelf: %w", err)
	}
	earnedAt := make(map[uuid.UUID]entities.UserTrophy, len(earned))
	for _, e := range earned {
		earnedAt[e.TrophyID] = e
	}

	var shelf entities.TrophyShelf
	for _, t := range catalog {
		if e, ok := earnedAt[t.ID]; ok {
			shelf.Earned = append(shelf.Earned, entities.EarnedTrophy{Trophy: t, EarnedAt: e.EarnedAt})
		} else {
			shelf.Locked = append(shelf.Locked, t)
		}
	}
	return &shelf, nil
}
