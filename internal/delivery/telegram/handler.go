package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// botAPI is the part of *tgbotapi.BotAPI the handler uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Handler struct {
	bot      botAPI
	logger   *zap.Logger
	services Services
}

func NewHandler(bot botAPI, logger *zap.Logger, services Services) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		services: services,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, created, err := h.services.Users.Register(ctx, from.ID, chatID, from.FirstName, from.UserName)
	if err != nil {
		h.logger.Error("failed to register user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	} else if created {
		h.logger.Info("new user", zap.Int64("user_id", from.ID))
	}

	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	args := update.Message.CommandArguments()

	switch update.Message.Command() {
	case "start":
		text := msgWelcome
		if user != nil {
			text += fmt.Sprintf(msgFriendCode, esc(user.FriendCode))
		}
		h.send(newHTMLMessage(chatID, text))

	case "help":
		h.send(newHTMLMessage(chatID, msgHelp))

	case "learn":
		_ = h.withErrorHandling(h.handleLearn())(ctx, chatID)

	case "progress":
		_ = h.withErrorHandling(h.handleProgress(from.ID))(ctx, chatID)

	case "streak":
		_ = h.withErrorHandling(h.handleStreak(from.ID))(ctx, chatID)

	case "trophies":
		_ = h.withErrorHandling(h.handleTrophies(from.ID))(ctx, chatID)

	case "friends":
		_ = h.withErrorHandling(h.handleFriends(from.ID))(ctx, chatID)

	case "addfriend":
		_ = h.withErrorHandling(h.handleAddFriend(from.ID, args))(ctx, chatID)

	case "removefriend":
		_ = h.withErrorHandling(h.handleRemoveFriend(from.ID, args))(ctx, chatID)

	case "leaderboard":
		_ = h.withErrorHandling(h.handleLeaderboard(args))(ctx, chatID)

	case "barriers":
		_ = h.withErrorHandling(h.handleBarriers(from.ID, args))(ctx, chatID)

	case "pathmatch":
		_ = h.withErrorHandling(h.handlePathMatch(from.ID, args))(ctx, chatID)

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
