package sqlite

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var ErrPathMatchNotFound = apperr.NotFound("path match")

type AdviceRepository struct {
	db *gorm.DB
}

func NewAdviceRepository(db *gorm.DB) *AdviceRepository {
	return &AdviceRepository{db: db}
}

func (r *AdviceRepository) SaveBarrierAdvice(ctx context.Context, a *entities.BarrierAdvice) error {
	m := barrierAdviceModel{
		UserID:        a.UserID,
		Background:    a.Background,
		Barriers:      encodeList(a.Barriers),
		Strategies:    encodeList(a.Strategies),
		Resources:     encodeList(a.Resources),
		Encouragement: a.Encouragement,
		Raw:           a.Raw,
		CreatedAt:     a.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return apperr.StoreUnavailable("save barrier advice", err)
	}

	a.ID = m.ID
	return nil
}

func (r *AdviceRepository) SavePathMatch(ctx context.Context, pm *entities.PathMatch) error {
	m := pathMatchModel{
		UserID:             pm.UserID,
		Experience:         pm.Experience,
		Skills:             pm.Skills,
		TargetRole:         pm.TargetRole,
		TransferableSkills: encodeList(pm.TransferableSkills),
		SkillGaps:          encodeList(pm.SkillGaps),
		RecommendedPath:    encodeList(pm.RecommendedPath),
		MatchScore:         pm.MatchScore,
		Encouragement:      pm.Encouragement,
		Raw:                pm.Raw,
		CreatedAt:          pm.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return apperr.StoreUnavailable("save path match", err)
	}

	pm.ID = m.ID
	return nil
}

func (r *AdviceRepository) LatestPathMatch(ctx context.Context, userID int64) (*entities.PathMatch, error) {
	var m pathMatchModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPathMatchNotFound
		}
		return nil, apperr.StoreUnavailable("latest path match", err)
	}

	return &entities.PathMatch{
		ID:                 m.ID,
		UserID:             m.UserID,
		Experience:         m.Experience,
		Skills:             m.Skills,
		TargetRole:         m.TargetRole,
		TransferableSkills: decodeList(m.TransferableSkills),
		SkillGaps:          decodeList(m.SkillGaps),
		RecommendedPath:    decodeList(m.RecommendedPath),
		MatchScore:         m.MatchScore,
		Encouragement:      m.Encouragement,
		Raw:                m.Raw,
		CreatedAt:          m.CreatedAt,
	}, nil
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func decodeList(s string) []string {
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}
