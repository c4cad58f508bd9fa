package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SyncCatalog upserts courses and trophies in one transaction.
func (r *CatalogRepository) SyncCatalog(ctx context.Context, courses []*entities.Course, trophies []entities.Trophy) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range courses {
			m := newCourseModel(c)
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"role",
					"difficulty",
					"title",
					"description",
					"order_index",
					"total_questions",
				}),
			}).Create(&m).Error
			if err != nil {
				return fmt.Errorf("sync course %q: %w", c.Title, err)
			}
		}

		for _, t := range trophies {
			m := newTrophyModel(t)
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name",
					"description",
					"icon",
					"criteria_type",
					"criteria_value",
					"sort_order",
				}),
			}).Create(&m).Error
			if err != nil {
				return fmt.Errorf("sync trophy %q: %w", t.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return apperr.StoreUnavailable("sync catalog", err)
	}
	return nil
}
