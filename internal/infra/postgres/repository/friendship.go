package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

// FriendshipRepository stores each friendship as two directed rows.
type FriendshipRepository struct {
	db postgres.DBTX
}

func NewFriendshipRepository(db postgres.DBTX) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Add inserts both directions in one statement. It reports false when the
// friendship already existed.
func (r *FriendshipRepository) Add(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, userID, friendID)
	if err != nil {
		return false, apperr.StoreUnavailable("add friend", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes both directions.
func (r *FriendshipRepository) Remove(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`

	tag, err := r.db.Exec(ctx, query, userID, friendID)
	if err != nil {
		return false, apperr.StoreUnavailable("remove friend", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FriendshipRepository) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, friendID).Scan(&exists); err != nil {
		return false, apperr.StoreUnavailable("check friendship", err)
	}
	return exists, nil
}

func (r *FriendshipRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, apperr.StoreUnavailable("list friends", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, apperr.StoreUnavailable("list friends", err)
	}
	return ids, nil
}
