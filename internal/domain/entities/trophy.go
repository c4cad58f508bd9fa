package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CriteriaType identifies the rule that decides whether a trophy is earned.
type CriteriaType string

const (
	CriteriaCoursesCompleted    CriteriaType = "courses_completed"
	CriteriaRoleCompletion      CriteriaType = "role_completion_percent"
	CriteriaDistinctRoles       CriteriaType = "distinct_roles"
	CriteriaStreakDays          CriteriaType = "streak_days"
	CriteriaCompletedBeforeHour CriteriaType = "completed_before_hour"
	CriteriaCompletedFromHour   CriteriaType = "completed_from_hour"
	CriteriaPerfectCourses      CriteriaType = "perfect_courses"
	CriteriaTopOfFriends        CriteriaType = "top_of_friends"
)

var criteriaTypes = map[CriteriaType]struct{}{
	CriteriaCoursesCompleted:    {},
	CriteriaRoleCompletion:      {},
	CriteriaDistinctRoles:       {},
	CriteriaStreakDays:          {},
	CriteriaCompletedBeforeHour: {},
	CriteriaCompletedFromHour:   {},
	CriteriaPerfectCourses:      {},
	CriteriaTopOfFriends:        {},
}

func ParseCriteriaType(s string) (CriteriaType, error) {
	ct := CriteriaType(strings.TrimSpace(s))
	if _, ok := criteriaTypes[ct]; !ok {
		return "", fmt.Errorf("unknown criteria type %q", s)
	}
	return ct, nil
}

var trophyNamespace = uuid.MustParse("0b8d7c52-9e44-4f0a-8a63-1e2f3d4c5b6a")

// TrophyID derives a stable identifier from the trophy key.
func TrophyID(key string) uuid.UUID {
	return uuid.NewSHA1(trophyNamespace, []byte(strings.ToLower(key)))
}

// Trophy is a static achievement definition.
type Trophy struct {
	ID            uuid.UUID
	Key           string // stable identifier, independent of the display name
	Name          string // unique display name
	Description   string
	Icon          string
	CriteriaType  CriteriaType
	CriteriaValue int
	SortOrder     int // evaluation and display order
}

// UserTrophy records that a user earned a trophy. Never deleted.
type UserTrophy struct {
	UserID   int64
	TrophyID uuid.UUID
	EarnedAt time.Time
}

// TrophyShelf splits the catalog into earned and locked trophies for one user.
type TrophyShelf struct {
	Earned []EarnedTrophy
	Locked []Trophy
}

type EarnedTrophy struct {
	Trophy   Trophy
	EarnedAt time.Time
}
