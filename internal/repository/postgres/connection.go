package postgres

import (
	"time"

	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Bounded connection pool; the store is the only shared mutable resource.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(20 * time.Second)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.BlogPost{},
		&domain.Tag{},
		&domain.BlogTag{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User: NewUserRepository(db),
		Blog: NewBlogRepository(db),
		Tag:  NewTagRepository(db),
	}
}
