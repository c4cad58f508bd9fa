package sqlite

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var ErrUserNotFound = apperr.NotFound("user")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or refreshes the profile of an existing one. The
// stored friend code and creation time are copied back into user.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	var created bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := userModel{
			ID:         user.ID,
			ChatID:     user.ChatID,
			FirstName:  user.FirstName,
			Username:   user.Username,
			FriendCode: user.FriendCode,
			CreatedAt:  user.CreatedAt,
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&m)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected == 1

		if !created {
			err := tx.Model(&userModel{}).Where("id = ?", user.ID).Updates(map[string]any{
				"chat_id":    user.ChatID,
				"first_name": user.FirstName,
				"username":   user.Username,
			}).Error
			if err != nil {
				return err
			}
		}

		var stored userModel
		if err := tx.Where("id = ?", user.ID).First(&stored).Error; err != nil {
			return err
		}
		user.FriendCode = stored.FriendCode
		user.CreatedAt = stored.CreatedAt
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, apperr.New(apperr.ErrConflict, "save user", err)
		}
		return false, apperr.StoreUnavailable("save user", err)
	}

	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByFriendCode(ctx context.Context, code string) (*entities.User, error) {
	return r.first(ctx, "friend_code = ?", code)
}

func (r *UserRepository) first(ctx context.Context, cond string, arg any) (*entities.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.StoreUnavailable("get user", err)
	}
	return m.toEntity(), nil
}

// isUniqueViolation matches SQLite's constraint error text; the pure-Go driver
// does not expose typed error codes through gorm.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
