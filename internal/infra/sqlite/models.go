package sqlite

import (
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

const dateLayout = "2006-01-02"

type userModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false"`
	ChatID     int64  `gorm:"not null"`
	FirstName  string `gorm:"not null;default:''"`
	Username   string `gorm:"not null;default:''"`
	FriendCode string `gorm:"not null;uniqueIndex"`
	CreatedAt  time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toEntity() *entities.User {
	return &entities.User{
		ID:         m.ID,
		ChatID:     m.ChatID,
		FirstName:  m.FirstName,
		Username:   m.Username,
		FriendCode: m.FriendCode,
		CreatedAt:  m.CreatedAt,
	}
}

type courseModel struct {
	ID             string `gorm:"primaryKey"`
	Role           string `gorm:"not null;index:idx_courses_role,priority:1"`
	Difficulty     string `gorm:"not null"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"not null;default:''"`
	OrderIndex     int    `gorm:"not null;default:0;index:idx_courses_role,priority:2"`
	TotalQuestions int    `gorm:"not null;check:total_questions >= 1"`
}

func (courseModel) TableName() string { return "courses" }

func newCourseModel(c *entities.Course) courseModel {
	return courseModel{
		ID:             c.ID.String(),
		Role:           c.Role,
		Difficulty:     string(c.Difficulty),
		Title:          c.Title,
		Description:    c.Description,
		OrderIndex:     c.OrderIndex,
		TotalQuestions: c.TotalQuestions,
	}
}

func (m courseModel) toEntity() (*entities.Course, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &entities.Course{
		ID:             id,
		Role:           m.Role,
		Difficulty:     entities.Difficulty(m.Difficulty),
		Title:          m.Title,
		Description:    m.Description,
		OrderIndex:     m.OrderIndex,
		TotalQuestions: m.TotalQuestions,
	}, nil
}

type progressModel struct {
	UserID              int64      `gorm:"primaryKey;autoIncrement:false"`
	CourseID            string     `gorm:"primaryKey"`
	TotalQuestions      int        `gorm:"not null"`
	QuestionsAnswered   int        `gorm:"not null;default:0"`
	FirstAttemptCorrect int        `gorm:"not null;default:0"`
	TotalAttempts       int        `gorm:"not null;default:0"`
	CurrentAttempts     int        `gorm:"not null;default:0"`
	CompletedAt         *time.Time `gorm:"index"`
	StartedAt           time.Time  `gorm:"not null"`
	LastAccessed        time.Time  `gorm:"not null"`
	Revision            int64      `gorm:"not null;default:0"`
}

func (progressModel) TableName() string { return "user_course_progress" }

func newProgressModel(p *entities.CourseProgress) progressModel {
	return progressModel{
		UserID:              p.UserID,
		CourseID:            p.CourseID.String(),
		TotalQuestions:      p.TotalQuestions,
		QuestionsAnswered:   p.QuestionsAnswered,
		FirstAttemptCorrect: p.FirstAttemptCorrect,
		TotalAttempts:       p.TotalAttempts,
		CurrentAttempts:     p.CurrentAttempts,
		CompletedAt:         utcPtr(p.CompletedAt),
		StartedAt:           p.StartedAt.UTC(),
		LastAccessed:        p.LastAccessed.UTC(),
		Revision:            p.Revision,
	}
}

func (m progressModel) toEntity() (*entities.CourseProgress, error) {
	id, err := uuid.Parse(m.CourseID)
	if err != nil {
		return nil, err
	}
	return &entities.CourseProgress{
		UserID:              m.UserID,
		CourseID:            id,
		TotalQuestions:      m.TotalQuestions,
		QuestionsAnswered:   m.QuestionsAnswered,
		FirstAttemptCorrect: m.FirstAttemptCorrect,
		TotalAttempts:       m.TotalAttempts,
		CurrentAttempts:     m.CurrentAttempts,
		CompletedAt:         m.CompletedAt,
		StartedAt:           m.StartedAt,
		LastAccessed:        m.LastAccessed,
		Revision:            m.Revision,
	}, nil
}

type streakModel struct {
	UserID           int64   `gorm:"primaryKey;autoIncrement:false"`
	CurrentStreak    int     `gorm:"not null;default:0"`
	MaxStreak        int     `gorm:"not null;default:0"`
	LastActivityDate *string `gorm:"index"` // YYYY-MM-DD
	UpdatedAt        time.Time
	Revision         int64 `gorm:"not null;default:0"`
}

func (streakModel) TableName() string { return "user_streaks" }

func newStreakModel(s *entities.Streak) streakModel {
	m := streakModel{
		UserID:        s.UserID,
		CurrentStreak: s.CurrentStreak,
		MaxStreak:     s.MaxStreak,
		UpdatedAt:     s.UpdatedAt.UTC(),
		Revision:      s.Revision,
	}
	if s.LastActivityDate != nil {
		d := s.LastActivityDate.Format(dateLayout)
		m.LastActivityDate = &d
	}
	return m
}

func (m streakModel) toEntity() (*entities.Streak, error) {
	s := &entities.Streak{
		UserID:        m.UserID,
		CurrentStreak: m.CurrentStreak,
		MaxStreak:     m.MaxStreak,
		UpdatedAt:     m.UpdatedAt,
		Revision:      m.Revision,
	}
	if m.LastActivityDate != nil {
		d, err := time.Parse(dateLayout, *m.LastActivityDate)
		if err != nil {
			return nil, err
		}
		s.LastActivityDate = &d
	}
	return s, nil
}

type trophyModel struct {
	ID            string `gorm:"primaryKey"`
	Key           string `gorm:"not null;uniqueIndex"`
	Name          string `gorm:"not null;uniqueIndex"`
	Description   string `gorm:"not null;default:''"`
	Icon          string `gorm:"not null;default:''"`
	CriteriaType  string `gorm:"not null"`
	CriteriaValue int    `gorm:"not null"`
	SortOrder     int    `gorm:"not null;default:0"`
}

func (trophyModel) TableName() string { return "trophies" }

func newTrophyModel(t entities.Trophy) trophyModel {
	return trophyModel{
		ID:            t.ID.String(),
		Key:           t.Key,
		Name:          t.Name,
		Description:   t.Description,
		Icon:          t.Icon,
		CriteriaType:  string(t.CriteriaType),
		CriteriaValue: t.CriteriaValue,
		SortOrder:     t.SortOrder,
	}
}

func (m trophyModel) toEntity() (entities.Trophy, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return entities.Trophy{}, err
	}
	return entities.Trophy{
		ID:            id,
		Key:           m.Key,
		Name:          m.Name,
		Description:   m.Description,
		Icon:          m.Icon,
		CriteriaType:  entities.CriteriaType(m.CriteriaType),
		CriteriaValue: m.CriteriaValue,
		SortOrder:     m.SortOrder,
	}, nil
}

// userTrophyModel's composite primary key is the at-most-once guarantee for awards.
type userTrophyModel struct {
	UserID   int64     `gorm:"primaryKey;autoIncrement:false"`
	TrophyID string    `gorm:"primaryKey"`
	EarnedAt time.Time `gorm:"not null"`
}

func (userTrophyModel) TableName() string { return "user_trophies" }

type friendshipModel struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	FriendID  int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

func (friendshipModel) TableName() string { return "friendships" }

type barrierAdviceModel struct {
	ID            int64  `gorm:"primaryKey"`
	UserID        int64  `gorm:"not null;index"`
	Background    string `gorm:"not null"`
	Barriers      string `gorm:"not null"` // JSON array
	Strategies    string `gorm:"not null"`
	Resources     string `gorm:"not null"`
	Encouragement string `gorm:"not null"`
	Raw           string `gorm:"not null"`
	CreatedAt     time.Time
}

func (barrierAdviceModel) TableName() string { return "barrier_advice" }

type pathMatchModel struct {
	ID                 int64  `gorm:"primaryKey"`
	UserID             int64  `gorm:"not null;index"`
	Experience         string `gorm:"not null"`
	Skills             string `gorm:"not null"`
	TargetRole         string `gorm:"not null"`
	TransferableSkills string `gorm:"not null"` // JSON array
	SkillGaps          string `gorm:"not null"`
	RecommendedPath    string `gorm:"not null"`
	MatchScore         int    `gorm:"not null"`
	Encouragement      string `gorm:"not null"`
	Raw                string `gorm:"not null"`
	CreatedAt          time.Time
}

func (pathMatchModel) TableName() string { return "path_matches" }

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
