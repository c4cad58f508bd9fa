package sqlite

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

var ErrCourseNotFound = apperr.NotFound("course")

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	var m courseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, apperr.StoreUnavailable("get course", err)
	}

	c, err := m.toEntity()
	if err != nil {
		return nil, apperr.StoreUnavailable("decode course", err)
	}
	return c, nil
}

func (r *CourseRepository) ListByRole(ctx context.Context, role string) ([]*entities.Course, error) {
	var rows []courseModel
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("order_index, title").Find(&rows).Error; err != nil {
		return nil, apperr.StoreUnavailable("list courses", err)
	}

	res := make([]*entities.Course, 0, len(rows))
	for _, m := range rows {
		c, err := m.toEntity()
		if err != nil {
			return nil, apperr.StoreUnavailable("decode course", err)
		}
		res = append(res, c)
	}
	return res, nil
}

func (r *CourseRepository) ListRoles(ctx context.Context) ([]string, error) {
	var roles []string
	if err := r.db.WithContext(ctx).Model(&courseModel{}).Distinct("role").Order("role").Pluck("role", &roles).Error; err != nil {
		return nil, apperr.StoreUnavailable("list roles", err)
	}
	return roles, nil
}

func (r *CourseRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Role string
		N    int
	}
	err := r.db.WithContext(ctx).Model(&courseModel{}).
		Select("role, COUNT(*) AS n").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.StoreUnavailable("count courses by role", err)
	}

	res := make(map[string]int, len(rows))
	for _, row := range rows {
		res[row.Role] = row.N
	}
	return res, nil
}
