package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/service"
)

func difficultyLabel(d entities.Difficulty) string {
	switch d {
	case entities.DifficultyEasy:
		return "🟢 easy"
	case entities.DifficultyMedium:
		return "🟡 medium"
	case entities.DifficultyHard:
		return "🔴 hard"
	default:
		return string(d)
	}
}

func courseStatusIcon(p *entities.CourseProgress) string {
	switch {
	case p == nil || p.TotalAttempts == 0:
		return "🆕"
	case p.IsCompleted():
		return "✅"
	default:
		return "▶️"
	}
}

func renderCourseList(role string, courses []entities.CourseStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 <b>%s</b>\n", esc(role))

	for _, cs := range courses {
		answered := 0
		if cs.Progress != nil {
			answered = cs.Progress.QuestionsAnswered
		}
		fmt.Fprintf(&b, "\n%s <b>%s</b> · %s · %d/%d",
			courseStatusIcon(cs.Progress),
			esc(cs.Course.Title),
			difficultyLabel(cs.Course.Difficulty),
			answered,
			cs.Course.TotalQuestions,
		)
	}
	return b.String()
}

func renderQuestion(course *entities.Course, q *entities.Question, index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📘 <b>%s</b> · question %d of %d\n\n", esc(course.Title), index+1, course.TotalQuestions)
	if q.Title != "" {
		fmt.Fprintf(&b, "<b>%s</b>\n", esc(q.Title))
	}
	if q.Description != "" {
		fmt.Fprintf(&b, "%s\n", esc(q.Description))
	}
	fmt.Fprintf(&b, "\n❓ %s\n", esc(q.Prompt))
	for _, o := range q.Options {
		fmt.Fprintf(&b, "\n<b>%s)</b> %s", strings.ToUpper(o.ID), esc(o.Text))
	}
	return b.String()
}

func renderFeedback(correct bool, q *entities.Question) string {
	if !correct {
		return msgAnswerWrong
	}
	if q.Explanation == "" {
		return msgAnswerCorrect
	}
	return msgAnswerCorrect + "\n\n💡 " + esc(q.Explanation)
}

func renderCompletion(course *entities.Course, p *entities.CourseProgress) string {
	return fmt.Sprintf(
		"🎉 <b>%s</b> completed!\n\n🎯 Accuracy: %.0f%%\n✍️ Attempts: %d\n⭐ First try: %d of %d",
		esc(course.Title),
		p.Accuracy(),
		p.TotalAttempts,
		p.FirstAttemptCorrect,
		p.TotalQuestions,
	)
}

func renderProgress(sum *entities.ProgressSummary, st *entities.Streak, earned, totalTrophies int) string {
	return fmt.Sprintf(
		"📊 <b>Your progress</b>\n\n✅ Completed courses: %d\n▶️ In progress: %d\n🎯 Accuracy: %.1f%%\n🔥 Streak: %d (best %d)\n🏆 Trophies: %d of %d\n%s",
		sum.Completed,
		sum.InProgress,
		sum.Accuracy(),
		st.CurrentStreak,
		st.MaxStreak,
		earned,
		totalTrophies,
		buildProgressBar(earned, totalTrophies, 12),
	)
}

func renderStreak(st *entities.Streak, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥 <b>Current streak:</b> %d\n🏅 <b>Best streak:</b> %d", st.CurrentStreak, st.MaxStreak)

	switch {
	case st.LastActivityDate == nil:
		b.WriteString("\n\nComplete a course to start your streak: /learn")
	case st.LastActivityDate.Equal(today):
		b.WriteString("\n\n✅ You've been active today.")
	case st.AtRisk(today):
		b.WriteString("\n\n⏰ Complete a course today to keep your streak!")
	default:
		b.WriteString("\n\nYour streak has ended. Start a new one today: /learn")
	}
	return b.String()
}

func renderShelf(shelf *entities.TrophyShelf) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>Trophies</b> %d of %d\n", len(shelf.Earned), len(shelf.Earned)+len(shelf.Locked))

	for _, e := range shelf.Earned {
		fmt.Fprintf(&b, "\n%s <b>%s</b> · %s", trophyIcon(e.Trophy), esc(e.Trophy.Name), e.EarnedAt.Format("2 Jan 2006"))
	}
	for _, t := range shelf.Locked {
		fmt.Fprintf(&b, "\n🔒 %s: <i>%s</i>", esc(t.Name), esc(t.Description))
	}
	return b.String()
}

func trophyIcon(t entities.Trophy) string {
	if t.Icon == "" {
		return "🏆"
	}
	return t.Icon
}

func renderFriends(user *entities.User, friends []entities.FriendStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 <b>Friends</b>\n\nYour friend code: <code>%s</code>\n", esc(user.FriendCode))

	if len(friends) == 0 {
		b.WriteString("\n" + msgNoFriends)
		return b.String()
	}

	for _, f := range friends {
		fmt.Fprintf(&b, "\n<b>%s</b> · ✅ %d · 🏆 %d · 🔥 %d",
			esc(f.User.DisplayName()), f.CoursesCompleted, f.Trophies, f.CurrentStreak)
		for _, c := range f.RecentCourses {
			fmt.Fprintf(&b, "\n    %s", esc(c.Title))
		}
	}
	return b.String()
}

func boardTitle(board service.Board) string {
	switch board {
	case service.BoardTrophies:
		return "trophies"
	case service.BoardCourses:
		return "completed courses"
	default:
		return "longest streak"
	}
}

func renderLeaderboard(board service.Board, entries []entities.LeaderboardEntry, stats *entities.CommunityStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, msgLeaderboardHead+"\n", boardTitle(board))

	if len(entries) == 0 {
		b.WriteString("\n" + msgNoLeaders)
	}
	for _, e := range entries {
		medal := fmt.Sprintf("%d.", e.Rank)
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "\n%s %s · %d", medal, esc(e.DisplayName), e.Value)
	}

	if stats != nil {
		fmt.Fprintf(&b, "\n\n🌍 %d learners · %d courses completed · %d trophies",
			stats.Learners, stats.Completions, stats.TrophiesAwarded)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n<b>%s</b>", title)
	for _, it := range items {
		fmt.Fprintf(b, "\n• %s", esc(it))
	}
}

func renderBarrierAdvice(a *entities.BarrierAdvice) string {
	var b strings.Builder
	b.WriteString("🧭 <b>Breaking barriers</b>")
	writeList(&b, "Barriers you may face", a.Barriers)
	writeList(&b, "Strategies", a.Strategies)
	writeList(&b, "Resources", a.Resources)
	if a.Encouragement != "" {
		fmt.Fprintf(&b, "\n\n💪 %s", esc(a.Encouragement))
	}
	return b.String()
}

func renderPathMatch(m *entities.PathMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 <b>%s</b> · match %d%%\n%s", esc(m.TargetRole), m.MatchScore, buildProgressBar(m.MatchScore, 100, 10))
	writeList(&b, "Transferable skills", m.TransferableSkills)
	writeList(&b, "Skill gaps", m.SkillGaps)
	writeList(&b, "Recommended path", m.RecommendedPath)
	if m.Encouragement != "" {
		fmt.Fprintf(&b, "\n\n💪 %s", esc(m.Encouragement))
	}
	return b.String()
}

// renderEvent formats a pipeline event for the user. It reports false for
// events that are not shown.
func renderEvent(ev entities.Event) (string, bool) {
	switch e := ev.(type) {
	case entities.CourseCompleted:
		return fmt.Sprintf("🎓 You completed <b>%s</b> (%s) with %.0f%% accuracy!",
			esc(e.Title), esc(e.Role), e.Accuracy), true
	case entities.StreakUpdated:
		if e.CurrentStreak < 2 {
			return "🔥 Your streak has started. Come back tomorrow to keep it going!", true
		}
		return fmt.Sprintf("🔥 %d-day streak! Keep it up.", e.CurrentStreak), true
	case entities.StreakAtRisk:
		return fmt.Sprintf(msgStreakReminder, e.CurrentStreak), true
	case entities.TrophyAwarded:
		return fmt.Sprintf("%s <b>New trophy: %s</b>\n%s",
			trophyIcon(e.Trophy), esc(e.Trophy.Name), esc(e.Trophy.Description)), true
	default:
		return "", false
	}
}
