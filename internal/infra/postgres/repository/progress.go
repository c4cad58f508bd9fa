package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

var ErrProgressNotFound = apperr.NotFound("course progress")

// ProgressRepository provides access to course progress rows in the database.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository with the provided database handle.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `
	user_id, course_id, total_questions, questions_answered, first_attempt_correct,
	total_attempts, current_attempts, completed_at, started_at, last_accessed, revision
`

func scanProgress(row pgx.Row) (*entities.CourseProgress, error) {
	var p entities.CourseProgress
	err := row.Scan(
		&p.UserID,
		&p.CourseID,
		&p.TotalQuestions,
		&p.QuestionsAnswered,
		&p.FirstAttemptCorrect,
		&p.TotalAttempts,
		&p.CurrentAttempts,
		&p.CompletedAt,
		&p.StartedAt,
		&p.LastAccessed,
		&p.Revision,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves the progress of a user in a course.
func (r *ProgressRepository) Get(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_course_progress WHERE user_id = $1 AND course_id = $2`

	p, err := scanProgress(r.db.QueryRow(ctx, query, userID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, apperr.StoreUnavailable("get progress", err)
	}
	return p, nil
}

// Create inserts a fresh progress row. It reports false when the row already exists.
func (r *ProgressRepository) Create(ctx context.Context, p *entities.CourseProgress) (bool, error) {
	query := `
		INSERT INTO user_course_progress (
			user_id, course_id, total_questions, questions_answered, first_attempt_correct,
			total_attempts, current_attempts, completed_at, started_at, last_accessed, revision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		p.UserID,
		p.CourseID,
		p.TotalQuestions,
		p.QuestionsAnswered,
		p.FirstAttemptCorrect,
		p.TotalAttempts,
		p.CurrentAttempts,
		p.CompletedAt,
		p.StartedAt,
		p.LastAccessed,
	)
	if err != nil {
		return false, apperr.StoreUnavailable("create progress", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Update writes the counters if the row still has the revision p was read at.
func (r *ProgressRepository) Update(ctx context.Context, p *entities.CourseProgress) error {
	query := `
		UPDATE user_course_progress SET
			questions_answered = $3,
			first_attempt_correct = $4,
			total_attempts = $5,
			current_attempts = $6,
			completed_at = $7,
			last_accessed = $8,
			revision = revision + 1
		WHERE user_id = $1 AND course_id = $2 AND revision = $9
	`

	tag, err := r.db.Exec(ctx, query,
		p.UserID,
		p.CourseID,
		p.QuestionsAnswered,
		p.FirstAttemptCorrect,
		p.TotalAttempts,
		p.CurrentAttempts,
		p.CompletedAt,
		p.LastAccessed,
		p.Revision,
	)
	if err != nil {
		return apperr.StoreUnavailable("update progress", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("update progress")
	}

	p.Revision++
	return nil
}

// ListByUser returns every progress row of a user.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.CourseProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_course_progress WHERE user_id = $1 ORDER BY started_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.StoreUnavailable("list progress", err)
	}
	defer rows.Close()

	var res []*entities.CourseProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, apperr.StoreUnavailable("scan progress", err)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list progress", err)
	}
	return res, nil
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM user_course_progress WHERE user_id = $1 AND completed_at IS NOT NULL`

	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, apperr.StoreUnavailable("count completed courses", err)
	}
	return n, nil
}

// CountPerfect counts completed courses answered right on every first attempt.
func (r *ProgressRepository) CountPerfect(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM user_course_progress
		WHERE user_id = $1 AND completed_at IS NOT NULL AND first_attempt_correct = total_questions
	`

	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, apperr.StoreUnavailable("count perfect courses", err)
	}
	return n, nil
}

// CompletedByRole counts the completed courses of a user per role.
func (r *ProgressRepository) CompletedByRole(ctx context.Context, userID int64) (map[string]int, error) {
	query := `
		SELECT c.role, COUNT(*)
		FROM user_course_progress p
		JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = $1 AND p.completed_at IS NOT NULL
		GROUP BY c.role
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.StoreUnavailable("count completed by role", err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, apperr.StoreUnavailable("scan completed by role", err)
		}
		res[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("count completed by role", err)
	}
	return res, nil
}

// CompletionTimes returns completion timestamps at or after since, oldest first.
func (r *ProgressRepository) CompletionTimes(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	query := `
		SELECT completed_at FROM user_course_progress
		WHERE user_id = $1 AND completed_at IS NOT NULL AND completed_at >= $2
		ORDER BY completed_at
	`

	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, apperr.StoreUnavailable("list completion times", err)
	}
	defer rows.Close()

	var res []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, apperr.StoreUnavailable("scan completion time", err)
		}
		res = append(res, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list completion times", err)
	}
	return res, nil
}

// RecentCompletions returns the latest completed courses of a user, newest first.
func (r *ProgressRepository) RecentCompletions(ctx context.Context, userID int64, limit int) ([]entities.CompletedCourse, error) {
	query := `
		SELECT c.id, c.role, c.title, p.completed_at
		FROM user_course_progress p
		JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = $1 AND p.completed_at IS NOT NULL
		ORDER BY p.completed_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperr.StoreUnavailable("list recent completions", err)
	}
	defer rows.Close()

	var res []entities.CompletedCourse
	for rows.Next() {
		var c entities.CompletedCourse
		if err := rows.Scan(&c.CourseID, &c.Role, &c.Title, &c.CompletedAt); err != nil {
			return nil, apperr.StoreUnavailable("scan recent completion", err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list recent completions", err)
	}
	return res, nil
}

// UsersCompletedSince returns users with at least one completion at or after since.
func (r *ProgressRepository) UsersCompletedSince(ctx context.Context, since time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id FROM user_course_progress
		WHERE completed_at IS NOT NULL AND completed_at >= $1
		ORDER BY user_id
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, apperr.StoreUnavailable("list recently active users", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, apperr.StoreUnavailable("list recently active users", err)
	}
	return ids, nil
}
