package content

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Role names and option IDs are carried in Telegram callback data, which is
// capped at 64 bytes ("role:<name>" and "ans:<course>:<idx>:<option>:<attempt>").
const (
	maxRoleNameBytes = 59
	maxOptionIDBytes = 8
)

// catalogFile mirrors assets/catalog.yaml.
type catalogFile struct {
	Roles    []roleFile   `yaml:"roles"`
	Trophies []trophyFile `yaml:"trophies"`
}

type roleFile struct {
	Name    string       `yaml:"name"`
	Courses []courseFile `yaml:"courses"`
}

type courseFile struct {
	Title       string         `yaml:"title"`
	Difficulty  string         `yaml:"difficulty"`
	Description string         `yaml:"description"`
	Questions   []questionFile `yaml:"questions"`
}

type questionFile struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Prompt      string       `yaml:"prompt"`
	Options     []optionFile `yaml:"options"`
	Answer      string       `yaml:"answer"`
	Explanation string       `yaml:"explanation"`
	Points      int          `yaml:"points"`
}

type optionFile struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type trophyFile struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Criteria    string `yaml:"criteria"`
	Value       int    `yaml:"value"`
}

// Catalog is the parsed and validated content of a catalog file.
type Catalog struct {
	Courses   []*entities.Course
	Trophies  []entities.Trophy
	Questions map[string][]entities.Question // keyed by course ID string
}

// LoadCatalog reads and validates a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{Questions: make(map[string][]entities.Question)}

	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("%w: no roles", ErrInvalidCatalog)
	}

	seenRoles := make(map[string]bool)
	for _, rf := range f.Roles {
		role := strings.TrimSpace(rf.Name)
		if role == "" {
			return nil, fmt.Errorf("%w: role without name", ErrInvalidCatalog)
		}
		if len(role) > maxRoleNameBytes {
			return nil, fmt.Errorf("%w: role %q is longer than %d bytes", ErrInvalidCatalog, role, maxRoleNameBytes)
		}
		if seenRoles[strings.ToLower(role)] {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, role)
		}
		seenRoles[strings.ToLower(role)] = true

		if len(rf.Courses) == 0 {
			return nil, fmt.Errorf("%w: role %q has no courses", ErrInvalidCatalog, role)
		}

		for i, cf := range rf.Courses {
			course, questions, err := buildCourse(role, i, cf)
			if err != nil {
				return nil, err
			}
			key := course.ID.String()
			if _, dup := c.Questions[key]; dup {
				return nil, fmt.Errorf("%w: duplicate course %q in role %q", ErrInvalidCatalog, course.Title, role)
			}
			c.Courses = append(c.Courses, course)
			c.Questions[key] = questions
		}
	}

	trophies, err := buildTrophies(f.Trophies)
	if err != nil {
		return nil, err
	}
	c.Trophies = trophies

	return c, nil
}

func buildCourse(role string, order int, cf courseFile) (*entities.Course, []entities.Question, error) {
	title := strings.TrimSpace(cf.Title)
	if title == "" {
		return nil, nil, fmt.Errorf("%w: course %d of role %q has no title", ErrInvalidCatalog, order+1, role)
	}

	difficulty, err := entities.ParseDifficulty(cf.Difficulty)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: course %q: %v", ErrInvalidCatalog, title, err)
	}

	if len(cf.Questions) == 0 {
		return nil, nil, fmt.Errorf("%w: course %q has no questions", ErrInvalidCatalog, title)
	}

	questions := make([]entities.Question, 0, len(cf.Questions))
	for i, qf := range cf.Questions {
		q, err := buildQuestion(qf)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: course %q question %d: %v", ErrInvalidCatalog, title, i+1, err)
		}
		questions = append(questions, q)
	}

	course := &entities.Course{
		ID:             entities.CourseID(role, title),
		Role:           role,
		Difficulty:     difficulty,
		Title:          title,
		Description:    strings.TrimSpace(cf.Description),
		OrderIndex:     order,
		TotalQuestions: len(questions),
	}
	return course, questions, nil
}

func buildQuestion(qf questionFile) (entities.Question, error) {
	if strings.TrimSpace(qf.Prompt) == "" {
		return entities.Question{}, errors.New("empty prompt")
	}
	if len(qf.Options) < 2 {
		return entities.Question{}, fmt.Errorf("need at least 2 options, got %d", len(qf.Options))
	}

	q := entities.Question{
		Title:       strings.TrimSpace(qf.Title),
		Description: strings.TrimSpace(qf.Description),
		Prompt:      strings.TrimSpace(qf.Prompt),
		Correct:     strings.ToLower(strings.TrimSpace(qf.Answer)),
		Explanation: strings.TrimSpace(qf.Explanation),
		Points:      qf.Points,
	}

	seen := make(map[string]bool, len(qf.Options))
	for _, of := range qf.Options {
		id := strings.ToLower(strings.TrimSpace(of.ID))
		if id == "" || strings.TrimSpace(of.Text) == "" {
			return entities.Question{}, errors.New("option without id or text")
		}
		if strings.Contains(id, ":") || len(id) > maxOptionIDBytes {
			return entities.Question{}, fmt.Errorf("option id %q must be at most %d bytes without ':'", id, maxOptionIDBytes)
		}
		if seen[id] {
			return entities.Question{}, fmt.Errorf("duplicate option %q", id)
		}
		seen[id] = true
		q.Options = append(q.Options, entities.Option{ID: id, Text: strings.TrimSpace(of.Text)})
	}

	if !seen[q.Correct] {
		return entities.Question{}, fmt.Errorf("answer %q is not one of the options", qf.Answer)
	}

	return q, nil
}

func buildTrophies(files []trophyFile) ([]entities.Trophy, error) {
	keys := make(map[string]bool, len(files))
	names := make(map[string]bool, len(files))

	trophies := make([]entities.Trophy, 0, len(files))
	for i, tf := range files {
		key := strings.TrimSpace(tf.Key)
		name := strings.TrimSpace(tf.Name)
		if key == "" || name == "" {
			return nil, fmt.Errorf("%w: trophy %d needs a key and a name", ErrInvalidCatalog, i+1)
		}
		if keys[strings.ToLower(key)] {
			return nil, fmt.Errorf("%w: duplicate trophy key %q", ErrInvalidCatalog, key)
		}
		if names[strings.ToLower(name)] {
			return nil, fmt.Errorf("%w: duplicate trophy name %q", ErrInvalidCatalog, name)
		}
		keys[strings.ToLower(key)] = true
		names[strings.ToLower(name)] = true

		criteria, err := entities.ParseCriteriaType(tf.Criteria)
		if err != nil {
			return nil, fmt.Errorf("%w: trophy %q: %v", ErrInvalidCatalog, key, err)
		}
		if tf.Value < 0 {
			return nil, fmt.Errorf("%w: trophy %q has a negative value", ErrInvalidCatalog, key)
		}

		trophies = append(trophies, entities.Trophy{
			ID:            entities.TrophyID(key),
			Key:           key,
			Name:          name,
			Description:   strings.TrimSpace(tf.Description),
			Icon:          strings.TrimSpace(tf.Icon),
			CriteriaType:  criteria,
			CriteriaValue: tf.Value,
			SortOrder:     i,
		})
	}

	return trophies, nil
}
