package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// Board selects the metric a leaderboard is ranked by.
type Board string

const (
	BoardStreak   Board = "streak"
	BoardTrophies Board = "trophies"
	BoardCourses  Board = "courses"
)

const DefaultLeaderboardSize = 10

type LeaderboardService struct {
	repo LeaderboardRepository
}

func NewLeaderboardService(repo LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{repo: repo}
}

func (s *LeaderboardService) Top(ctx context.Context, board Board, limit int) ([]entities.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	var (
		entries []entities.LeaderboardEntry
		err     error
	)
	switch board {
	case BoardStreak:
		entries, err = s.repo.TopByMaxStreak(ctx, limit)
	case BoardTrophies:
		entries, err = s.repo.TopByTrophies(ctx, limit)
	case BoardCourses:
		entries, err = s.repo.TopByCompletedCourses(ctx, limit)
	default:
		return nil, apperr.InvalidState("leaderboard", "unknown board %q", board)
	}
	if err != nil {
		return nil, fmt.Errorf("%s leaderboard: %w", board, err)
	}
	return entries, nil
}

func (s *LeaderboardService) Community(ctx context.Context) (*entities.CommunityStats, error) {
	stats, err := s.repo.CommunityStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("community stats: %w", err)
	}
	return stats, nil
}
