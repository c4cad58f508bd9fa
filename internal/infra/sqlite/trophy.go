package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

type TrophyRepository struct {
	db *gorm.DB
}

func NewTrophyRepository(db *gorm.DB) *TrophyRepository {
	return &TrophyRepository{db: db}
}

func (r *TrophyRepository) ListCatalog(ctx context.Context) ([]entities.Trophy, error) {
	var rows []trophyModel
	if err := r.db.WithContext(ctx).Order("sort_order, key").Find(&rows).Error; err != nil {
		return nil, apperr.StoreUnavailable("list trophies", err)
	}

	res := make([]entities.Trophy, 0, len(rows))
	for _, m := range rows {
		t, err := m.toEntity()
		if err != nil {
			return nil, apperr.StoreUnavailable("decode trophy", err)
		}
		res = append(res, t)
	}
	return res, nil
}

func (r *TrophyRepository) ListEarned(ctx context.Context, userID int64) ([]entities.UserTrophy, error) {
	var rows []userTrophyModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at").Find(&rows).Error; err != nil {
		return nil, apperr.StoreUnavailable("list earned trophies", err)
	}

	res := make([]entities.UserTrophy, 0, len(rows))
	for _, m := range rows {
		id, err := uuid.Parse(m.TrophyID)
		if err != nil {
			return nil, apperr.StoreUnavailable("decode trophy id", err)
		}
		res = append(res, entities.UserTrophy{UserID: m.UserID, TrophyID: id, EarnedAt: m.EarnedAt})
	}
	return res, nil
}

// Award inserts the (user, trophy) pair and reports false when it already exists.
func (r *TrophyRepository) Award(ctx context.Context, userID int64, trophyID uuid.UUID, earnedAt time.Time) (bool, error) {
	m := userTrophyModel{UserID: userID, TrophyID: trophyID.String(), EarnedAt: earnedAt.UTC()}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return false, apperr.StoreUnavailable("award trophy", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *TrophyRepository) CountByUsers(ctx context.Context, userIDs []int64) (map[int64]int, error) {
	res := make(map[int64]int, len(userIDs))
	for _, id := range userIDs {
		res[id] = 0
	}
	if len(userIDs) == 0 {
		return res, nil
	}

	var rows []struct {
		UserID int64
		N      int
	}
	err := r.db.WithContext(ctx).Model(&userTrophyModel{}).
		Select("user_id, COUNT(*) AS n").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("count trophies", err)
	}

	for _, row := range rows {
		res[row.UserID] = row.N
	}
	return res, nil
}
