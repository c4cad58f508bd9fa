package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/clients/advisor"
	"github.com/aliskhannn/techquest/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		text := userMessage(err)
		if text == msgInternalError {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		} else {
			h.logger.Debug("request rejected",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}

		h.sendError(chatID, text)
		return nil
	}
}

// userMessage maps an error to the text shown in the chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrAdvisorDisabled):
		return msgAdviceDisabled
	case errors.Is(err, advisor.ErrRateLimited), errors.Is(err, advisor.ErrCreditsExhausted):
		return msgAdviceBusy
	case errors.Is(err, apperr.ErrNotFound):
		return msgNotFound
	case errors.Is(err, apperr.ErrInvalidState):
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Err != nil {
			return "⚠️ " + esc(ae.Err.Error())
		}
		return msgInternalError
	default:
		return msgInternalError
	}
}
