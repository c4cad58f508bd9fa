package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers pipeline events to the user's chat.
type Notifier struct {
	bot    sender
	users  UserService
	logger *zap.Logger
}

func NewNotifier(bot sender, users UserService, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, users: users, logger: logger}
}

// Notify sends the rendered event. Failures are logged and dropped.
func (n *Notifier) Notify(ctx context.Context, event entities.Event) {
	text, ok := renderEvent(event)
	if !ok {
		return
	}

	chatID := event.User()
	if user, err := n.users.Get(ctx, event.User()); err == nil && user.ChatID != 0 {
		chatID = user.ChatID
	}

	if _, err := n.bot.Send(newHTMLMessage(chatID, text)); err != nil {
		n.logger.Warn("failed to deliver event",
			zap.String("kind", string(event.Kind())),
			zap.Int64("user_id", event.User()),
			zap.Error(err),
		)
	}
}
