package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/service"
)

// screen is what a callback replaces the message with.
type screen struct {
	text string
	kb   *tgbotapi.InlineKeyboardMarkup
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock" whatever happens next.
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Debug("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil || cb.From == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	data := decodeCallback(cb.Data)

	var (
		scr *screen
		err error
	)
	switch data.Action {
	case actionRoles:
		scr, err = h.rolesCallback(ctx)
	case actionRole:
		scr, err = h.roleCallback(ctx, userID, data)
	case actionCourse:
		scr, err = h.courseCallback(ctx, userID, data)
	case actionAnswer:
		scr, err = h.answerCallback(ctx, userID, data)
	case actionRetry:
		scr, err = h.retryCallback(ctx, userID, data)
	case actionProgress:
		scr, err = h.progressCallback(ctx, userID)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		return
	}

	if err != nil {
		_ = h.withErrorHandling(func(context.Context, int64) error { return err })(ctx, chatID)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, scr.text)
	edit.ParseMode = tgbotapi.ModeHTML
	if scr.kb != nil {
		edit.ReplyMarkup = scr.kb
	}
	h.send(edit)
}

func (h *Handler) rolesCallback(ctx context.Context) (*screen, error) {
	text, kb, err := h.rolesScreen(ctx)
	if err != nil {
		return nil, err
	}
	return &screen{text: text, kb: kb}, nil
}

func (h *Handler) roleCallback(ctx context.Context, userID int64, data callbackData) (*screen, error) {
	if len(data.Params) == 0 {
		return nil, fmt.Errorf("invalid role callback: %q", data.Raw)
	}
	// Role names may contain the separator.
	role := data.Raw[len(actionRole)+1:]

	courses, err := h.services.Courses.ListCourses(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	kb := buildCoursesKeyboard(courses)
	return &screen{text: renderCourseList(role, courses), kb: &kb}, nil
}

// courseCallback opens a course at the first unanswered question.
func (h *Handler) courseCallback(ctx context.Context, userID int64, data callbackData) (*screen, error) {
	courseID, err := data.courseID()
	if err != nil {
		return nil, err
	}

	course, err := h.services.Courses.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	p, err := h.services.Courses.Visit(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if p.IsCompleted() {
		kb := buildCompletedKeyboard(course)
		return &screen{text: renderCompletion(course, p), kb: &kb}, nil
	}
	return h.questionScreen(course, p.QuestionsAnswered, p.CurrentAttempts, "")
}

// answerCallback runs a chosen option through the answer pipeline.
func (h *Handler) answerCallback(ctx context.Context, userID int64, data callbackData) (*screen, error) {
	params, err := data.answer()
	if err != nil {
		return nil, err
	}

	q, err := h.services.Questions.Question(params.CourseID, params.Index)
	if err != nil {
		return nil, err
	}
	correct := q.IsCorrect(params.Option)

	res, err := h.services.Pipeline.SubmitAnswer(ctx, entities.AnswerSubmitted{
		UserID:        userID,
		CourseID:      params.CourseID,
		QuestionIndex: params.Index,
		IsCorrect:     correct,
		FirstAttempt:  params.Attempt == 0,
	})
	if err != nil {
		var stageErr *service.StageError
		if res == nil || !errors.As(err, &stageErr) || stageErr.Stage == service.StageTracker {
			return nil, err
		}
		// The answer itself was recorded; the remaining stages are repaired by the sweep.
		h.logger.Error("answer pipeline stage failed",
			zap.Int64("user_id", userID),
			zap.String("stage", stageErr.Stage),
			zap.Error(stageErr.Err),
		)
	}

	outcome := res.Answer
	switch {
	case outcome.Progress.IsCompleted():
		kb := buildCompletedKeyboard(outcome.Course)
		text := renderFeedback(correct, q) + "\n\n" + renderCompletion(outcome.Course, outcome.Progress)
		return &screen{text: text, kb: &kb}, nil
	case correct:
		kb := buildNextKeyboard(params.CourseID)
		return &screen{text: renderFeedback(true, q), kb: &kb}, nil
	default:
		return h.questionScreen(outcome.Course, params.Index, params.Attempt+1, renderFeedback(false, q))
	}
}

func (h *Handler) retryCallback(ctx context.Context, userID int64, data callbackData) (*screen, error) {
	courseID, err := data.courseID()
	if err != nil {
		return nil, err
	}

	course, err := h.services.Courses.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := h.services.Courses.ResetCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}

	return h.questionScreen(course, 0, 0, msgCourseReset)
}

func (h *Handler) progressCallback(ctx context.Context, userID int64) (*screen, error) {
	text, err := h.progressText(ctx, userID)
	if err != nil {
		return nil, err
	}
	kb := buildProgressKeyboard()
	return &screen{text: text, kb: &kb}, nil
}

// questionScreen renders question index of course, prefixed with header when set.
func (h *Handler) questionScreen(course *entities.Course, index, attempt int, header string) (*screen, error) {
	q, err := h.services.Questions.Question(course.ID, index)
	if err != nil {
		return nil, err
	}

	text := renderQuestion(course, q, index)
	if header != "" {
		text = header + "\n\n" + text
	}
	kb := buildQuestionKeyboard(course.ID, index, q, attempt)
	return &screen{text: text, kb: &kb}, nil
}
