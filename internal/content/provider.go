package content

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var (
	ErrCourseNotFound   = apperr.NotFound("course content")
	ErrQuestionNotFound = apperr.NotFound("question")
)

// Provider serves questions from an in-memory catalog. The catalog can be
// swapped at runtime with Replace.
type Provider struct {
	mu      sync.RWMutex
	catalog *Catalog
}

// NewProvider creates a Provider for an already loaded catalog.
func NewProvider(c *Catalog) *Provider {
	return &Provider{catalog: c}
}

// NewProviderFromFile loads the catalog at path.
func NewProviderFromFile(path string) (*Provider, error) {
	c, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return NewProvider(c), nil
}

// Replace swaps the catalog.
func (p *Provider) Replace(c *Catalog) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog = c
}

func (p *Provider) Courses() []*entities.Course {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog.Courses
}

func (p *Provider) Trophies() []entities.Trophy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog.Trophies
}

// Questions returns the ordered questions of a course.
func (p *Provider) Questions(courseID uuid.UUID) ([]entities.Question, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	qs, ok := p.catalog.Questions[courseID.String()]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return qs, nil
}

// Question returns the question at a zero-based index.
func (p *Provider) Question(courseID uuid.UUID, index int) (*entities.Question, error) {
	qs, err := p.Questions(courseID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(qs) {
		return nil, ErrQuestionNotFound
	}

	q := qs[index]
	return &q, nil
}
