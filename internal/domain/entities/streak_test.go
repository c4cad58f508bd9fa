package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordActivity_Scenario(t *testing.T) {
	s := NewStreak(7, time.Now())
	d := day(2025, 5, 10)

	assert.True(t, s.RecordActivity(d, time.Now()))
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.MaxStreak)
	assert.Equal(t, d, *s.LastActivityDate)

	assert.False(t, s.RecordActivity(d, time.Now()), "same day collapses")
	assert.Equal(t, 1, s.CurrentStreak)

	assert.True(t, s.RecordActivity(d.AddDate(0, 0, 1), time.Now()))
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak)

	assert.True(t, s.RecordActivity(d.AddDate(0, 0, 4), time.Now()))
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.MaxStreak)
}

func TestRecordActivity_StaleDayIgnored(t *testing.T) {
	s := NewStreak(7, time.Now())
	s.RecordActivity(day(2025, 5, 10), time.Now())
	s.RecordActivity(day(2025, 5, 11), time.Now())

	assert.False(t, s.RecordActivity(day(2025, 5, 9), time.Now()))
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, day(2025, 5, 11), *s.LastActivityDate)
}

func TestRecordActivity_MaxNeverBelowCurrent(t *testing.T) {
	s := NewStreak(7, time.Now())
	start := day(2025, 1, 1)
	for i := 0; i < 40; i++ {
		offset := i
		if i > 20 {
			offset = i + 2 // gap after three weeks
		}
		s.RecordActivity(start.AddDate(0, 0, offset), time.Now())
		assert.GreaterOrEqual(t, s.MaxStreak, s.CurrentStreak)
	}
	assert.Equal(t, 21, s.MaxStreak)
	assert.Equal(t, 19, s.CurrentStreak)
}

func TestRecordActivity_MidnightBoundary(t *testing.T) {
	loc := time.FixedZone("UTC+03:00", 3*3600)
	late := time.Date(2025, 6, 1, 23, 59, 0, 0, loc)
	early := late.Add(2 * time.Minute)

	s := NewStreak(7, time.Now())
	assert.True(t, s.RecordActivity(DateOf(late, loc), time.Now()))
	assert.True(t, s.RecordActivity(DateOf(early, loc), time.Now()))
	assert.Equal(t, 2, s.CurrentStreak)
}

func TestAtRisk(t *testing.T) {
	s := NewStreak(7, time.Now())
	today := day(2025, 5, 12)
	assert.False(t, s.AtRisk(today))

	s.RecordActivity(today.AddDate(0, 0, -1), time.Now())
	assert.True(t, s.AtRisk(today))
	assert.True(t, s.ActiveOn(today))

	s.RecordActivity(today, time.Now())
	assert.False(t, s.AtRisk(today))
	assert.True(t, s.ActiveOn(today))
	assert.False(t, s.ActiveOn(today.AddDate(0, 0, 2)))
}
