package pg

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"datapulse.api/internal/core/domain"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository opens dsn and migrates the scraper run table.
func NewRepository(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.ScraperRun{}); err != nil {
		return nil, fmt.Errorf("migrate scraper runs: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Create(ctx context.Context, run *domain.ScraperRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *Repository) Update(ctx context.Context, run *domain.ScraperRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *Repository) ListByScraper(ctx context.Context, scraperID string, limit int) ([]*domain.ScraperRun, error) {
	runs := []*domain.ScraperRun{}
	if err := r.db.WithContext(ctx).
		Where("scraper_id = ?", scraperID).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// DB returns the underlying gorm DB instance
func (r *Repository) DB() *gorm.DB {
	return r.db
}
