package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

var ErrCourseNotFound = apperr.NotFound("course")

// CourseRepository provides access to the course catalog.
type CourseRepository struct {
	db postgres.DBTX
}

func NewCourseRepository(db postgres.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, role, difficulty, title, description, order_index, total_questions`

func scanCourse(row pgx.Row) (*entities.Course, error) {
	var (
		c          entities.Course
		difficulty string
	)
	if err := row.Scan(&c.ID, &c.Role, &difficulty, &c.Title, &c.Description, &c.OrderIndex, &c.TotalQuestions); err != nil {
		return nil, err
	}
	c.Difficulty = entities.Difficulty(difficulty)
	return &c, nil
}

// Upsert inserts a course or refreshes its catalog fields.
func (r *CourseRepository) Upsert(ctx context.Context, c *entities.Course) error {
	query := `
		INSERT INTO courses (id, role, difficulty, title, description, order_index, total_questions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			role = EXCLUDED.role,
			difficulty = EXCLUDED.difficulty,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			order_index = EXCLUDED.order_index,
			total_questions = EXCLUDED.total_questions
	`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Role, string(c.Difficulty), c.Title, c.Description, c.OrderIndex, c.TotalQuestions)
	if err != nil {
		return apperr.StoreUnavailable("upsert course", err)
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, apperr.StoreUnavailable("get course", err)
	}
	return c, nil
}

// ListByRole returns the courses of a role in catalog order.
func (r *CourseRepository) ListByRole(ctx context.Context, role string) ([]*entities.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE role = $1 ORDER BY order_index, title`

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, apperr.StoreUnavailable("list courses", err)
	}
	defer rows.Close()

	var res []*entities.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, apperr.StoreUnavailable("scan course", err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("list courses", err)
	}
	return res, nil
}

func (r *CourseRepository) ListRoles(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT role FROM courses ORDER BY role`)
	if err != nil {
		return nil, apperr.StoreUnavailable("list roles", err)
	}

	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperr.StoreUnavailable("list roles", err)
	}
	return roles, nil
}

// CountByRole returns the number of catalog courses per role.
func (r *CourseRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM courses GROUP BY role`)
	if err != nil {
		return nil, apperr.StoreUnavailable("count courses by role", err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, apperr.StoreUnavailable("scan course count", err)
		}
		res[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable("count courses by role", err)
	}
	return res, nil
}
