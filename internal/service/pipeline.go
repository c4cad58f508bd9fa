package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// Pipeline stages, as reported by StageError.
const (
	StageTracker = "tracker"
	StageStreak  = "streak"
	StageTrophy  = "trophy"
)

// StageError reports which stage of the pipeline failed. Work committed by
// earlier stages stays committed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// SubmitResult is everything one submission changed.
type SubmitResult struct {
	Answer *AnswerOutcome
	Streak *entities.Streak         // nil unless the course is completed
	Awards []entities.TrophyAwarded // inserted by this submission
	Events []entities.Event         // emitted by this submission, in order
}

// Pipeline runs an answer through the tracker, the streak evaluator and the
// trophy evaluator, in that order.
//
// Every stage is idempotent: a submission against a completed course still
// drives the streak and trophy stages, so a retried submission repairs work a
// failed earlier attempt left undone without emitting anything twice.
type Pipeline struct {
	tracker  *ProgressService
	streaks  *StreakService
	trophies *TrophyService
	notifier Notifier
	logger   *zap.Logger
}

func NewPipeline(
	tracker *ProgressService,
	streaks *StreakService,
	trophies *TrophyService,
	notifier Notifier,
	logger *zap.Logger,
) *Pipeline {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		tracker:  tracker,
		streaks:  streaks,
		trophies: trophies,
		notifier: notifier,
		logger:   logger,
	}
}

// SubmitAnswer processes one answer. A tracker failure returns no result. A
// streak or trophy failure returns the partial result along with a *StageError.
func (p *Pipeline) SubmitAnswer(ctx context.Context, ev entities.AnswerSubmitted) (*SubmitResult, error) {
	outcome, err := p.tracker.SubmitAnswer(ctx, ev)
	if err != nil {
		return nil, &StageError{Stage: StageTracker, Err: err}
	}

	res := &SubmitResult{Answer: outcome}
	if outcome.Result != entities.AnswerIgnored {
		res.Events = append(res.Events, ev)
	}
	if outcome.Completion == nil {
		return res, nil
	}

	completion := *outcome.Completion
	if outcome.NewlyCompleted() {
		p.logger.Info("course completed",
			zap.Int64("user_id", completion.UserID),
			zap.String("course", completion.Title),
			zap.Float64("accuracy", completion.Accuracy),
		)
		p.emit(ctx, res, completion)
	}

	if err := p.recordStreak(ctx, res, completion.UserID, completion.CompletedAt); err != nil {
		return res, err
	}

	var trigger entities.Event = completion
	if n := len(res.Events); n > 0 {
		trigger = res.Events[n-1]
	}
	if err := p.evaluate(ctx, res, completion.UserID, trigger); err != nil {
		return res, err
	}
	return res, nil
}

// ReevaluateTrophies runs the trophy stage alone, for triggers outside the
// answer flow such as a new friendship.
func (p *Pipeline) ReevaluateTrophies(ctx context.Context, userID int64) ([]entities.TrophyAwarded, error) {
	res := &SubmitResult{}
	err := p.evaluate(ctx, res, userID, nil)
	return res.Awards, err
}

// Reconcile replays the streak and trophy stages for completions at or after
// since. It repairs users whose pipeline failed after the tracker committed.
func (p *Pipeline) Reconcile(ctx context.Context, userID int64, since time.Time) (*SubmitResult, error) {
	times, err := p.tracker.CompletionTimes(ctx, userID, since)
	if err != nil {
		return nil, &StageError{Stage: StageTracker, Err: err}
	}

	res := &SubmitResult{}
	for _, ts := range times {
		if err := p.recordStreak(ctx, res, userID, ts); err != nil {
			return res, err
		}
	}
	if err := p.evaluate(ctx, res, userID, nil); err != nil {
		return res, err
	}
	return res, nil
}

func (p *Pipeline) recordStreak(ctx context.Context, res *SubmitResult, userID int64, completedAt time.Time) error {
	day := p.streaks.DayOf(completedAt)

	streak, changed, err := p.streaks.RecordActivity(ctx, userID, day)
	if err != nil {
		return &StageError{Stage: StageStreak, Err: err}
	}

	res.Streak = streak
	if changed {
		p.emit(ctx, res, entities.StreakUpdated{
			UserID:        userID,
			CurrentStreak: streak.CurrentStreak,
			MaxStreak:     streak.MaxStreak,
			Day:           day,
		})
	}
	return nil
}

func (p *Pipeline) evaluate(ctx context.Context, res *SubmitResult, userID int64, trigger entities.Event) error {
	awards, err := p.trophies.Evaluate(ctx, userID, trigger)
	// Awards inserted before a failure are real and are reported.
	for _, a := range awards {
		res.Awards = append(res.Awards, a)
		p.emit(ctx, res, a)
	}
	if err != nil {
		return &StageError{Stage: StageTrophy, Err: err}
	}
	return nil
}

func (p *Pipeline) emit(ctx context.Context, res *SubmitResult, ev entities.Event) {
	res.Events = append(res.Events, ev)
	p.notifier.Notify(ctx, ev)
}
