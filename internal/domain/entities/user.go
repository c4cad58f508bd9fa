package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FriendCodeLength is the number of characters in a friend code.
const FriendCodeLength = 8

// User represents a bot user.
type User struct {
	ID         int64 // Telegram user ID
	ChatID     int64
	FirstName  string
	Username   string
	FriendCode string // upper-case code other users add as a friend
	CreatedAt  time.Time
}

func NewUser(id, chatID int64, firstName, username string) *User {
	return &User{
		ID:         id,
		ChatID:     chatID,
		FirstName:  firstName,
		Username:   username,
		FriendCode: NewFriendCode(),
	}
}

// DisplayName prefers the first name, then the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "Learner"
	}
}

// NewFriendCode returns a random upper-case code.
func NewFriendCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:FriendCodeLength])
}

// NormalizeFriendCode trims and upper-cases user input.
func NormalizeFriendCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FriendStats is what a user sees about each friend.
type FriendStats struct {
	User             User
	CoursesCompleted int
	Trophies         int
	CurrentStreak    int
	MaxStreak        int
	RecentCourses    []CompletedCourse
}

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank        int
	UserID      int64
	DisplayName string
	Value       int
}

// CommunityStats are totals across all users.
type CommunityStats struct {
	Learners        int
	Completions     int
	TrophiesAwarded int
	LongestStreak   int
}
