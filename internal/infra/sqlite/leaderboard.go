package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

type LeaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

type rankedRow struct {
	UserID    int64
	FirstName string
	Username  string
	Value     int
}

func (r *LeaderboardRepository) TopByMaxStreak(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	return r.rank(ctx, "top by streak", `
		SELECT s.user_id AS user_id, COALESCE(u.first_name, '') AS first_name,
		       COALESCE(u.username, '') AS username, s.max_streak AS value
		FROM user_streaks s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.max_streak > 0
		ORDER BY s.max_streak DESC, s.user_id
		LIMIT ?
	`, limit)
}

func (r *LeaderboardRepository) TopByTrophies(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	return r.rank(ctx, "top by trophies", `
		SELECT t.user_id AS user_id, COALESCE(u.first_name, '') AS first_name,
		       COALESCE(u.username, '') AS username, COUNT(*) AS value
		FROM user_trophies t
		LEFT JOIN users u ON u.id = t.user_id
		GROUP BY t.user_id, u.first_name, u.username
		ORDER BY value DESC, t.user_id
		LIMIT ?
	`, limit)
}

func (r *LeaderboardRepository) TopByCompletedCourses(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	return r.rank(ctx, "top by courses", `
		SELECT p.user_id AS user_id, COALESCE(u.first_name, '') AS first_name,
		       COALESCE(u.username, '') AS username, COUNT(*) AS value
		FROM user_course_progress p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.completed_at IS NOT NULL
		GROUP BY p.user_id, u.first_name, u.username
		ORDER BY value DESC, p.user_id
		LIMIT ?
	`, limit)
}

func (r *LeaderboardRepository) rank(ctx context.Context, op, query string, limit int) ([]entities.LeaderboardEntry, error) {
	var rows []rankedRow
	if err := r.db.WithContext(ctx).Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, apperr.StoreUnavailable(op, err)
	}

	res := make([]entities.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		u := entities.User{FirstName: row.FirstName, Username: row.Username}
		res = append(res, entities.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			DisplayName: u.DisplayName(),
			Value:       row.Value,
		})
	}
	return res, nil
}

func (r *LeaderboardRepository) CommunityStats(ctx context.Context) (*entities.CommunityStats, error) {
	var row struct {
		Learners        int
		Completions     int
		TrophiesAwarded int
		LongestStreak   int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM users) AS learners,
			(SELECT COUNT(*) FROM user_course_progress WHERE completed_at IS NOT NULL) AS completions,
			(SELECT COUNT(*) FROM user_trophies) AS trophies_awarded,
			(SELECT COALESCE(MAX(max_streak), 0) FROM user_streaks) AS longest_streak
	`).Scan(&row).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("community stats", err)
	}

	return &entities.CommunityStats{
		Learners:        row.Learners,
		Completions:     row.Completions,
		TrophiesAwarded: row.TrophiesAwarded,
		LongestStreak:   row.LongestStreak,
	}, nil
}
