package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

// TrophyRepository provides access to the trophy catalog and user awards.
type TrophyRepository struct {
	db postgres.DBTX
}

func NewTrophyRepository(db postgres.DBTX) *TrophyRepository {
	return &TrophyRepository{db: db}
}

// Upsert inserts a trophy definition or refreshes it.
func (r *TrophyRepository) Upsert(ctx context.Context, t entities.Trophy) error {
	query := `
		INSERT INTO trophies (id, key, name, description, icon, criteria_type, criteria_value, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			criteria_type = EXCLUDED.criteria_type,
			criteria_value = EXCLUDED.criteria_value,
			sort_order = EXCLUDED.sort_order
	`

	_, err := r.db.Exec(ctx, query,
		t.ID, t.Key, t.Name, t.Description, t.Icon, string(t.CriteriaType), t.CriteriaValue, t.SortOrder)
	if err != nil {
		return apperr.StoreUnavailable("upsert trophy", err)
	}
	return nil
}

// ListCatalog returns every trophy in evaluation order.
func (r *TrophyRepository) ListCatalog(ctx context.Context) ([]entities.Trophy, error) {
	query := `
		SELECT id, key, name, description, icon, criteria_type, criteria_value, sort_order
		FROM trophies
		ORDER BY sort_order, key
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperr.StoreUnavailable("list trophies", err)
	}
	defer rows.Close()

	var res []entities.Trophy
	for rows.Next() {
		var (
			t            entities.Trophy
			criteriaType string
		)
		if err := rows.Scan(&t.ID, &t.Key, &t.Name, &t.Description, &t.Icon, &criteriaType, &t.CriteriaValue, &t.SortOrder); err != nil {
			return nil, apperr.StoreUnavailable("scan trophy", err)
		}
		t.CriteriaType = entities.CriteriaType(criteriaType)
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list trophies", err)
	}
	return res, nil
}

func (r *TrophyRepository) ListEarned(ctx context.Context, userID int64) ([]entities.UserTrophy, error) {
	query := `SELECT user_id, trophy_id, earned_at FROM user_trophies WHERE user_id = $1 ORDER BY earned_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.StoreUnavailable("list earned trophies", err)
	}
	defer rows.Close()

	var res []entities.UserTrophy
	for rows.Next() {
		var ut entities.UserTrophy
		if err := rows.Scan(&ut.UserID, &ut.TrophyID, &ut.EarnedAt); err != nil {
			return nil, apperr.StoreUnavailable("scan earned trophy", err)
		}
		res = append(res, ut)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list earned trophies", err)
	}
	return res, nil
}

// Award inserts the (user, trophy) pair. A concurrent or repeated award loses
// on the primary key and reports false.
func (r *TrophyRepository) Award(ctx context.Context, userID int64, trophyID uuid.UUID, earnedAt time.Time) (bool, error) {
	query := `
		INSERT INTO user_trophies (user_id, trophy_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, trophy_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, userID, trophyID, earnedAt)
	if err != nil {
		return false, apperr.StoreUnavailable("award trophy", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByUsers returns the trophy count of each given user. Users without
// trophies are present with zero.
func (r *TrophyRepository) CountByUsers(ctx context.Context, userIDs []int64) (map[int64]int, error) {
	res := make(map[int64]int, len(userIDs))
	for _, id := range userIDs {
		res[id] = 0
	}
	if len(userIDs) == 0 {
		return res, nil
	}

	query := `
		SELECT user_id, COUNT(*) FROM user_trophies
		WHERE user_id = ANY($1::bigint[])
		GROUP BY user_id
	`

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, apperr.StoreUnavailable("count trophies", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, apperr.StoreUnavailable("scan trophy count", err)
		}
		res[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("count trophies", err)
	}
	return res, nil
}
