package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

const friendCodeAttempts = 3

// UserService manages user registration.
type UserService struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserService(repo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Register creates the user on first contact and refreshes the profile
// otherwise. It reports whether the user is new.
func (s *UserService) Register(ctx context.Context, userID, chatID int64, firstName, username string) (*entities.User, bool, error) {
	for attempt := 0; attempt < friendCodeAttempts; attempt++ {
		user := entities.NewUser(userID, chatID, firstName, username)

		created, err := s.repo.Save(ctx, user)
		if errors.Is(err, apperr.ErrConflict) {
			// Friend code collision, draw another one.
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("register user: %w", err)
		}

		if created {
			s.logger.Info("user registered", zap.Int64("user_id", userID))
		}
		return user, created, nil
	}

	return nil, false, apperr.Conflict("register user")
}

func (s *UserService) Get(ctx context.Context, userID int64) (*entities.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
