package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

var ErrPathMatchNotFound = apperr.NotFound("path match")

// AdviceRepository stores generated career advice verbatim.
type AdviceRepository struct {
	db postgres.DBTX
}

func NewAdviceRepository(db postgres.DBTX) *AdviceRepository {
	return &AdviceRepository{db: db}
}

func (r *AdviceRepository) SaveBarrierAdvice(ctx context.Context, a *entities.BarrierAdvice) error {
	query := `
		INSERT INTO barrier_advice (user_id, background, barriers, strategies, resources, encouragement, raw, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		a.UserID, a.Background, nonNil(a.Barriers), nonNil(a.Strategies), nonNil(a.Resources),
		a.Encouragement, a.Raw, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return apperr.StoreUnavailable("save barrier advice", err)
	}
	return nil
}

func (r *AdviceRepository) SavePathMatch(ctx context.Context, m *entities.PathMatch) error {
	query := `
		INSERT INTO path_matches (
			user_id, experience, skills, target_role, transferable_skills, skill_gaps,
			recommended_path, match_score, encouragement, raw, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		m.UserID, m.Experience, m.Skills, m.TargetRole,
		nonNil(m.TransferableSkills), nonNil(m.SkillGaps), nonNil(m.RecommendedPath),
		m.MatchScore, m.Encouragement, m.Raw, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return apperr.StoreUnavailable("save path match", err)
	}
	return nil
}

func (r *AdviceRepository) LatestPathMatch(ctx context.Context, userID int64) (*entities.PathMatch, error) {
	query := `
		SELECT id, user_id, experience, skills, target_role, transferable_skills, skill_gaps,
		       recommended_path, match_score, encouragement, raw, created_at
		FROM path_matches
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var m entities.PathMatch
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.ID, &m.UserID, &m.Experience, &m.Skills, &m.TargetRole,
		&m.TransferableSkills, &m.SkillGaps, &m.RecommendedPath,
		&m.MatchScore, &m.Encouragement, &m.Raw, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPathMatchNotFound
		}
		return nil, apperr.StoreUnavailable("latest path match", err)
	}
	return &m, nil
}

// nonNil keeps JSONB columns as [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
