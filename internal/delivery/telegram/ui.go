package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// buildRolesKeyboard builds one button per role.
func buildRolesKeyboard(roles []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(roles))
	for _, role := range roles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(role, buildRoleCallback(role)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildCoursesKeyboard builds the course list of a role.
func buildCoursesKeyboard(courses []entities.CourseStatus) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(courses)+1)
	for _, cs := range courses {
		label := courseStatusIcon(cs.Progress) + " " + cs.Course.Title
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildCourseCallback(cs.Course.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« All roles", buildRolesCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds the answer options of a question.
func buildQuestionKeyboard(courseID uuid.UUID, index int, q *entities.Question, attempt int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, o := range q.Options {
		data := buildAnswerCallback(courseID, index, o.ID, attempt)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strings.ToUpper(o.ID), data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildNextKeyboard offers to continue with the next question of a course.
func buildNextKeyboard(courseID uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildCourseCallback(courseID)),
		),
	)
}

// buildCompletedKeyboard builds the keyboard shown under a completed course.
func buildCompletedKeyboard(course *entities.Course) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Retry course", buildRetryCallback(course.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("« %s courses", course.Role), buildRoleCallback(course.Role)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Continue learning", buildRolesCallback()),
		),
	)
}
