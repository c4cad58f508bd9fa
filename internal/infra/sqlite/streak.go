package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var ErrStreakNotFound = apperr.NotFound("streak")

type StreakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

func (r *StreakRepository) Get(ctx context.Context, userID int64) (*entities.Streak, error) {
	var m streakModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStreakNotFound
		}
		return nil, apperr.StoreUnavailable("get streak", err)
	}

	s, err := m.toEntity()
	if err != nil {
		return nil, apperr.StoreUnavailable("decode streak", err)
	}
	return s, nil
}

func (r *StreakRepository) Create(ctx context.Context, s *entities.Streak) (bool, error) {
	m := newStreakModel(s)
	m.Revision = 0

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return false, apperr.StoreUnavailable("create streak", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *StreakRepository) Update(ctx context.Context, s *entities.Streak) error {
	m := newStreakModel(s)

	res := r.db.WithContext(ctx).
		Model(&streakModel{}).
		Where("user_id = ? AND revision = ?", s.UserID, s.Revision).
		Updates(map[string]any{
			"current_streak":     m.CurrentStreak,
			"max_streak":         m.MaxStreak,
			"last_activity_date": m.LastActivityDate,
			"updated_at":         m.UpdatedAt,
			"revision":           gorm.Expr("revision + 1"),
		})
	if res.Error != nil {
		return apperr.StoreUnavailable("update streak", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("update streak")
	}

	s.Revision++
	return nil
}

func (r *StreakRepository) ListLastActiveOn(ctx context.Context, day time.Time) ([]*entities.Streak, error) {
	var rows []streakModel
	err := r.db.WithContext(ctx).
		Where("last_activity_date = ? AND current_streak > 0", day.Format(dateLayout)).
		Order("user_id").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("list streaks by day", err)
	}

	res := make([]*entities.Streak, 0, len(rows))
	for _, m := range rows {
		s, err := m.toEntity()
		if err != nil {
			return nil, apperr.StoreUnavailable("decode streak", err)
		}
		res = append(res, s)
	}
	return res, nil
}
