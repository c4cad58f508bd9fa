package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

var ErrStreakNotFound = apperr.NotFound("streak")

// StreakRepository provides access to per-user streak rows.
type StreakRepository struct {
	db postgres.DBTX
}

func NewStreakRepository(db postgres.DBTX) *StreakRepository {
	return &StreakRepository{db: db}
}

const streakColumns = `user_id, current_streak, max_streak, last_activity_date, updated_at, revision`

func scanStreak(row pgx.Row) (*entities.Streak, error) {
	var s entities.Streak
	if err := row.Scan(
		&s.UserID,
		&s.CurrentStreak,
		&s.MaxStreak,
		&s.LastActivityDate,
		&s.UpdatedAt,
		&s.Revision,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get retrieves the streak of a user.
func (r *StreakRepository) Get(ctx context.Context, userID int64) (*entities.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM user_streaks WHERE user_id = $1`

	s, err := scanStreak(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStreakNotFound
		}
		return nil, apperr.StoreUnavailable("get streak", err)
	}
	return s, nil
}

// Create inserts a streak row. It reports false when the user already has one.
func (r *StreakRepository) Create(ctx context.Context, s *entities.Streak) (bool, error) {
	query := `
		INSERT INTO user_streaks (user_id, current_streak, max_streak, last_activity_date, updated_at, revision)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (user_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, s.UserID, s.CurrentStreak, s.MaxStreak, s.LastActivityDate, s.UpdatedAt)
	if err != nil {
		return false, apperr.StoreUnavailable("create streak", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update writes the streak if the row still has the revision s was read at.
func (r *StreakRepository) Update(ctx context.Context, s *entities.Streak) error {
	query := `
		UPDATE user_streaks SET
			current_streak = $2,
			max_streak = $3,
			last_activity_date = $4,
			updated_at = $5,
			revision = revision + 1
		WHERE user_id = $1 AND revision = $6
	`

	tag, err := r.db.Exec(ctx, query,
		s.UserID, s.CurrentStreak, s.MaxStreak, s.LastActivityDate, s.UpdatedAt, s.Revision)
	if err != nil {
		return apperr.StoreUnavailable("update streak", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("update streak")
	}

	s.Revision++
	return nil
}

// ListLastActiveOn returns live streaks whose last active day is day.
func (r *StreakRepository) ListLastActiveOn(ctx context.Context, day time.Time) ([]*entities.Streak, error) {
	query := `
		SELECT ` + streakColumns + ` FROM user_streaks
		WHERE last_activity_date = $1 AND current_streak > 0
		ORDER BY user_id
	`

	rows, err := r.db.Query(ctx, query, day)
	if err != nil {
		return nil, apperr.StoreUnavailable("list streaks by day", err)
	}
	defer rows.Close()

	var res []*entities.Streak
	for rows.Next() {
		s, err := scanStreak(rows)
		if err != nil {
			return nil, apperr.StoreUnavailable("scan streak", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list streaks by day", err)
	}
	return res, nil
}
