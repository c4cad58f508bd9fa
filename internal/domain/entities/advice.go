package entities

import "time"

// BarrierAdvice is coaching generated for a learner's background.
type BarrierAdvice struct {
	ID            int64
	UserID        int64
	Background    string
	Barriers      []string
	Strategies    []string
	Resources     []string
	Encouragement string
	Raw           string // model output as received
	CreatedAt     time.Time
}

// PathMatch is a skills-gap analysis for a target role.
type PathMatch struct {
	ID                 int64
	UserID             int64
	Experience         string
	Skills             string
	TargetRole         string
	TransferableSkills []string
	SkillGaps          []string
	RecommendedPath    []string
	MatchScore         int // 0..100
	Encouragement      string
	Raw                string
	CreatedAt          time.Time
}
