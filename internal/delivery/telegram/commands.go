package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/techquest/internal/service"
)

// handleLearn shows the roles to pick a course from.
func (h *Handler) handleLearn() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.rolesScreen(ctx)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleProgress(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.progressText(ctx, userID)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = buildProgressKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleStreak(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st, err := h.services.Streaks.Get(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderStreak(st, h.services.Streaks.Today())))
		return nil
	}
}

func (h *Handler) handleTrophies(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		shelf, err := h.services.Trophies.Shelf(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderShelf(shelf)))
		return nil
	}
}

func (h *Handler) handleFriends(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		user, err := h.services.Users.Get(ctx, userID)
		if err != nil {
			return err
		}
		friends, err := h.services.Friends.List(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderFriends(user, friends)))
		return nil
	}
}

func (h *Handler) handleAddFriend(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		code := strings.TrimSpace(args)
		if code == "" {
			h.send(newHTMLMessage(chatID, msgAddFriendUsage))
			return nil
		}

		friend, err := h.services.Friends.AddByCode(ctx, userID, code)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, "🤝 You and <b>"+esc(friend.DisplayName())+"</b> are now friends."))
		return nil
	}
}

func (h *Handler) handleRemoveFriend(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		code := strings.TrimSpace(args)
		if code == "" {
			h.send(newHTMLMessage(chatID, msgRemoveUsage))
			return nil
		}

		friend, err := h.services.Friends.RemoveByCode(ctx, userID, code)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, "👋 <b>"+esc(friend.DisplayName())+"</b> was removed from your friends."))
		return nil
	}
}

// handleLeaderboard shows one board, the streak board by default.
func (h *Handler) handleLeaderboard(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		board := service.BoardStreak
		if arg := strings.ToLower(strings.TrimSpace(args)); arg != "" {
			board = service.Board(arg)
		}

		entries, err := h.services.Leaderboard.Top(ctx, board, service.DefaultLeaderboardSize)
		if err != nil {
			return err
		}
		stats, err := h.services.Leaderboard.Community(ctx)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderLeaderboard(board, entries, stats)))
		return nil
	}
}

func (h *Handler) handleBarriers(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !h.services.Advice.Enabled() {
			h.send(newHTMLMessage(chatID, msgAdviceDisabled))
			return nil
		}

		background := strings.TrimSpace(args)
		if background == "" {
			h.send(newHTMLMessage(chatID, msgBarriersUsage))
			return nil
		}

		h.sendTyping(chatID)
		advice, err := h.services.Advice.AnalyzeBarriers(ctx, userID, background)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderBarrierAdvice(advice)))
		return nil
	}
}

// handlePathMatch expects "ROLE | EXPERIENCE | SKILLS", skills optional.
func (h *Handler) handlePathMatch(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !h.services.Advice.Enabled() {
			h.send(newHTMLMessage(chatID, msgAdviceDisabled))
			return nil
		}

		parts := splitArgs(args)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			h.send(newHTMLMessage(chatID, msgPathMatchUsage))
			return nil
		}
		var skills string
		if len(parts) > 2 {
			skills = strings.Join(parts[2:], ", ")
		}

		h.sendTyping(chatID)
		match, err := h.services.Advice.MatchPath(ctx, userID, parts[1], skills, parts[0])
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, renderPathMatch(match)))
		return nil
	}
}

func (h *Handler) sendTyping(chatID int64) {
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug("failed to send chat action")
	}
}

func (h *Handler) rolesScreen(ctx context.Context) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	roles, err := h.services.Courses.Roles(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(roles) == 0 {
		return msgNoRoles, nil, nil
	}

	kb := buildRolesKeyboard(roles)
	return msgChooseRole, &kb, nil
}

func (h *Handler) progressText(ctx context.Context, userID int64) (string, error) {
	sum, err := h.services.Courses.Summary(ctx, userID)
	if err != nil {
		return "", err
	}
	st, err := h.services.Streaks.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	shelf, err := h.services.Trophies.Shelf(ctx, userID)
	if err != nil {
		return "", err
	}

	earned := len(shelf.Earned)
	return renderProgress(sum, st, earned, earned+len(shelf.Locked)), nil
}
