package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

// CatalogRepository seeds courses and trophies in one transaction.
type CatalogRepository struct {
	tr *postgres.Transactor
}

func NewCatalogRepository(tr *postgres.Transactor) *CatalogRepository {
	return &CatalogRepository{tr: tr}
}

func (r *CatalogRepository) SyncCatalog(ctx context.Context, courses []*entities.Course, trophies []entities.Trophy) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		courseRepo := NewCourseRepository(tx)
		trophyRepo := NewTrophyRepository(tx)

		for _, c := range courses {
			if err := courseRepo.Upsert(ctx, c); err != nil {
				return fmt.Errorf("sync course %q: %w", c.Title, err)
			}
		}
		for _, t := range trophies {
			if err := trophyRepo.Upsert(ctx, t); err != nil {
				return fmt.Errorf("sync trophy %q: %w", t.Key, err)
			}
		}
		return nil
	})
}
