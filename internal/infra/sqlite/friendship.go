package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliskhannn/techquest/internal/apperr"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Add inserts both directions and reports false when the friendship existed.
func (r *FriendshipRepository) Add(ctx context.Context, userID, friendID int64) (bool, error) {
	now := time.Now().UTC()
	rows := []friendshipModel{
		{UserID: userID, FriendID: friendID, CreatedAt: now},
		{UserID: friendID, FriendID: userID, CreatedAt: now},
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return false, apperr.StoreUnavailable("add friend", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes both directions.
func (r *FriendshipRepository) Remove(ctx context.Context, userID, friendID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, friendID, friendID, userID).
		Delete(&friendshipModel{})
	if res.Error != nil {
		return false, apperr.StoreUnavailable("remove friend", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FriendshipRepository) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&friendshipModel{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&n).Error
	if err != nil {
		return false, apperr.StoreUnavailable("check friendship", err)
	}
	return n > 0, nil
}

func (r *FriendshipRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&friendshipModel{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("list friends", err)
	}
	return ids, nil
}
