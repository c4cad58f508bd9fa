package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type fakeUsers struct {
	users map[int64]*entities.User
}

func (f *fakeUsers) Register(context.Context, int64, int64, string, string) (*entities.User, bool, error) {
	return nil, false, errors.New("not implemented")
}

func (f *fakeUsers) Get(_ context.Context, userID int64) (*entities.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func TestNotifier(t *testing.T) {
	ctx := context.Background()
	bot := &fakeSender{}
	users := &fakeUsers{users: map[int64]*entities.User{1: {ID: 1, ChatID: 100}}}
	n := NewNotifier(bot, users, zap.NewNop())

	n.Notify(ctx, entities.StreakUpdated{UserID: 1, CurrentStreak: 3})
	n.Notify(ctx, entities.AnswerSubmitted{UserID: 1})
	n.Notify(ctx, entities.StreakAtRisk{UserID: 2, CurrentStreak: 4})

	require.Len(t, bot.sent, 2)
	assert.Equal(t, int64(100), bot.sent[0].ChatID)
	assert.Contains(t, bot.sent[0].Text, "3-day streak")
	assert.Equal(t, tgbotapi.ModeHTML, bot.sent[0].ParseMode)

	// Unknown users are addressed by their ID, which is their private chat.
	assert.Equal(t, int64(2), bot.sent[1].ChatID)
}

func TestNotifier_SendFailureIsSwallowed(t *testing.T) {
	bot := &fakeSender{err: errors.New("blocked by user")}
	n := NewNotifier(bot, &fakeUsers{}, zap.NewNop())

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), entities.StreakUpdated{UserID: 1, CurrentStreak: 1})
	})
}
