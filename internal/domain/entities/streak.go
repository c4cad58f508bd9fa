package entities

import "time"

// Streak counts consecutive calendar days with at least one completed course.
type Streak struct {
	UserID           int64
	CurrentStreak    int        // >= 0
	MaxStreak        int        // >= CurrentStreak
	LastActivityDate *time.Time // calendar date at UTC midnight, nil before the first activity
	UpdatedAt        time.Time
	Revision         int64 // bumped by the store on every successful update
}

func NewStreak(userID int64, now time.Time) *Streak {
	return &Streak{UserID: userID, UpdatedAt: now}
}

// RecordActivity counts day as an active day and reports whether the streak changed.
//
// day must be a calendar date produced by DateOf. A day already counted, or
// older than the last counted one, leaves the streak untouched.
func (s *Streak) RecordActivity(day time.Time, now time.Time) bool {
	if s.LastActivityDate != nil {
		last := *s.LastActivityDate
		if !day.After(last) {
			return false
		}
		if day.Equal(last.AddDate(0, 0, 1)) {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 1
		}
	} else {
		s.CurrentStreak = 1
	}

	s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
	s.LastActivityDate = &day
	s.UpdatedAt = now
	return true
}

// AtRisk reports whether the streak ends unless the user is active today.
func (s *Streak) AtRisk(today time.Time) bool {
	return s.CurrentStreak > 0 &&
		s.LastActivityDate != nil &&
		s.LastActivityDate.Equal(today.AddDate(0, 0, -1))
}

// ActiveOn reports whether the streak is still alive on today: the last
// activity was today or yesterday.
func (s *Streak) ActiveOn(today time.Time) bool {
	if s.LastActivityDate == nil {
		return false
	}
	return s.LastActivityDate.Equal(today) || s.AtRisk(today)
}
