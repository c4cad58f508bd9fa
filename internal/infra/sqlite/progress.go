package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var ErrProgressNotFound = apperr.NotFound("course progress")

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Get(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error) {
	var m progressModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID.String()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, apperr.StoreUnavailable("get progress", err)
	}

	p, err := m.toEntity()
	if err != nil {
		return nil, apperr.StoreUnavailable("decode progress", err)
	}
	return p, nil
}

func (r *ProgressRepository) Create(ctx context.Context, p *entities.CourseProgress) (bool, error) {
	m := newProgressModel(p)
	m.Revision = 0

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return false, apperr.StoreUnavailable("create progress", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Update writes the counters if the row still has the revision p was read at.
func (r *ProgressRepository) Update(ctx context.Context, p *entities.CourseProgress) error {
	res := r.db.WithContext(ctx).
		Model(&progressModel{}).
		Where("user_id = ? AND course_id = ? AND revision = ?", p.UserID, p.CourseID.String(), p.Revision).
		Updates(map[string]any{
			"questions_answered":    p.QuestionsAnswered,
			"first_attempt_correct": p.FirstAttemptCorrect,
			"total_attempts":        p.TotalAttempts,
			"current_attempts":      p.CurrentAttempts,
			"completed_at":          utcPtr(p.CompletedAt),
			"last_accessed":         p.LastAccessed.UTC(),
			"revision":              gorm.Expr("revision + 1"),
		})
	if res.Error != nil {
		return apperr.StoreUnavailable("update progress", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("update progress")
	}

	p.Revision++
	return nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.CourseProgress, error) {
	var rows []progressModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("started_at").Find(&rows).Error; err != nil {
		return nil, apperr.StoreUnavailable("list progress", err)
	}

	res := make([]*entities.CourseProgress, 0, len(rows))
	for _, m := range rows {
		p, err := m.toEntity()
		if err != nil {
			return nil, apperr.StoreUnavailable("decode progress", err)
		}
		res = append(res, p)
	}
	return res, nil
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&progressModel{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&n).Error
	if err != nil {
		return 0, apperr.StoreUnavailable("count completed courses", err)
	}
	return int(n), nil
}

func (r *ProgressRepository) CountPerfect(ctx context.Context, userID int64) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&progressModel{}).
		Where("user_id = ? AND completed_at IS NOT NULL AND first_attempt_correct = total_questions", userID).
		Count(&n).Error
	if err != nil {
		return 0, apperr.StoreUnavailable("count perfect courses", err)
	}
	return int(n), nil
}

func (r *ProgressRepository) CompletedByRole(ctx context.Context, userID int64) (map[string]int, error) {
	var rows []struct {
		Role string
		N    int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.role AS role, COUNT(*) AS n
		FROM user_course_progress p
		JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = ? AND p.completed_at IS NOT NULL
		GROUP BY c.role
	`, userID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("count completed by role", err)
	}

	res := make(map[string]int, len(rows))
	for _, row := range rows {
		res[row.Role] = row.N
	}
	return res, nil
}

func (r *ProgressRepository) CompletionTimes(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	var rows []progressModel
	err := r.db.WithContext(ctx).
		Select("completed_at").
		Where("user_id = ? AND completed_at IS NOT NULL AND completed_at >= ?", userID, since.UTC()).
		Order("completed_at").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("list completion times", err)
	}

	res := make([]time.Time, 0, len(rows))
	for _, m := range rows {
		res = append(res, *m.CompletedAt)
	}
	return res, nil
}

func (r *ProgressRepository) RecentCompletions(ctx context.Context, userID int64, limit int) ([]entities.CompletedCourse, error) {
	var rows []struct {
		CourseID    string
		Role        string
		Title       string
		CompletedAt time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS course_id, c.role AS role, c.title AS title, p.completed_at AS completed_at
		FROM user_course_progress p
		JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = ? AND p.completed_at IS NOT NULL
		ORDER BY p.completed_at DESC
		LIMIT ?
	`, userID, limit).Scan(&rows).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("list recent completions", err)
	}

	res := make([]entities.CompletedCourse, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.CourseID)
		if err != nil {
			return nil, apperr.StoreUnavailable("decode course id", err)
		}
		res = append(res, entities.CompletedCourse{
			CourseID:    id,
			Role:        row.Role,
			Title:       row.Title,
			CompletedAt: row.CompletedAt,
		})
	}
	return res, nil
}

func (r *ProgressRepository) UsersCompletedSince(ctx context.Context, since time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&progressModel{}).
		Distinct("user_id").
		Where("completed_at IS NOT NULL AND completed_at >= ?", since.UTC()).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("list recently active users", err)
	}
	return ids, nil
}
