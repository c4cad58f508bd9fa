package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// ErrAdvisorDisabled is returned when no advisor is configured.
var ErrAdvisorDisabled = errors.New("career advice is not configured")

// AdviceService requests career advice and keeps a history of it.
type AdviceService struct {
	advisor Advisor
	repo    AdviceRepository
	now     func() time.Time
	logger  *zap.Logger
}

// NewAdviceService creates the service. advisor may be nil, which disables it.
func NewAdviceService(advisor Advisor, repo AdviceRepository, now func() time.Time, logger *zap.Logger) *AdviceService {
	if now == nil {
		now = time.Now
	}
	return &AdviceService{advisor: advisor, repo: repo, now: now, logger: logger}
}

func (s *AdviceService) Enabled() bool {
	return s.advisor != nil
}

// AnalyzeBarriers asks the advisor about obstacles for a learner with the given background.
func (s *AdviceService) AnalyzeBarriers(ctx context.Context, userID int64, background string) (*entities.BarrierAdvice, error) {
	const op = "analyze barriers"

	background = strings.TrimSpace(background)
	if background == "" {
		return nil, apperr.InvalidState(op, "background is empty")
	}
	if s.advisor == nil {
		return nil, ErrAdvisorDisabled
	}

	advice, err := s.advisor.AnalyzeBarriers(ctx, background)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	advice.UserID = userID
	advice.Background = background
	advice.CreatedAt = s.now().UTC()

	if err := s.repo.SaveBarrierAdvice(ctx, advice); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("barrier advice generated", zap.Int64("user_id", userID))
	return advice, nil
}

// MatchPath asks the advisor how the user's experience maps onto a target role.
func (s *AdviceService) MatchPath(ctx context.Context, userID int64, experience, skills, targetRole string) (*entities.PathMatch, error) {
	const op = "match path"

	experience = strings.TrimSpace(experience)
	skills = strings.TrimSpace(skills)
	targetRole = strings.TrimSpace(targetRole)
	if experience == "" || targetRole == "" {
		return nil, apperr.InvalidState(op, "experience and target role are required")
	}
	if s.advisor == nil {
		return nil, ErrAdvisorDisabled
	}

	match, err := s.advisor.MatchPath(ctx, experience, skills, targetRole)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	match.UserID = userID
	match.Experience = experience
	match.Skills = skills
	match.TargetRole = targetRole
	match.CreatedAt = s.now().UTC()

	if err := s.repo.SavePathMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("path match generated",
		zap.Int64("user_id", userID),
		zap.String("target_role", targetRole),
		zap.Int("score", match.MatchScore),
	)
	return match, nil
}

func (s *AdviceService) LatestPathMatch(ctx context.Context, userID int64) (*entities.PathMatch, error) {
	match, err := s.repo.LatestPathMatch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest path match: %w", err)
	}
	return match, nil
}
