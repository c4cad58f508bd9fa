package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

var ErrUserNotFound = apperr.NotFound("user")

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database handle.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or refreshes the profile of an existing one. The
// friend code of an existing user is kept and copied back into user.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	query := `
		INSERT INTO users (id, chat_id, first_name, username, friend_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			first_name = EXCLUDED.first_name,
			username = EXCLUDED.username
		RETURNING (xmax = 0) AS created, friend_code, created_at
	`

	var created bool
	err := r.db.QueryRow(ctx, query,
		user.ID, user.ChatID, user.FirstName, user.Username, user.FriendCode, user.CreatedAt,
	).Scan(&created, &user.FriendCode, &user.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return false, apperr.New(apperr.ErrConflict, "save user", err)
		}
		return false, apperr.StoreUnavailable("save user", err)
	}

	return created, nil
}

const userColumns = `id, chat_id, first_name, username, friend_code, created_at`

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var u entities.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.ChatID, &u.FirstName, &u.Username, &u.FriendCode, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.StoreUnavailable("get user", err)
	}
	return &u, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// GetByFriendCode retrieves a user by friend code.
func (r *UserRepository) GetByFriendCode(ctx context.Context, code string) (*entities.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE friend_code = $1`, code)
}
