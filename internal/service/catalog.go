package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CatalogService seeds the store from the content provider.
type CatalogService struct {
	content ContentProvider
	catalog CatalogRepository
	logger  *zap.Logger
}

func NewCatalogService(content ContentProvider, catalog CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{content: content, catalog: catalog, logger: logger}
}

// Sync upserts every course and trophy of the provider. Running it again with
// the same content changes nothing.
func (s *CatalogService) Sync(ctx context.Context) error {
	courses := s.content.Courses()
	trophies := s.content.Trophies()

	if err := s.catalog.SyncCatalog(ctx, courses, trophies); err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}

	s.logger.Info("catalog synced",
		zap.Int("courses", len(courses)),
		zap.Int("trophies", len(trophies)),
	)
	return nil
}
