// Package gormstore implements the storage facade on a relational database
// through GORM. Referential cascades run inside transactions so a partial
// cascade can never become visible, and denormalized counters are updated
// in the same transaction as the records they count.
package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trove/internal/cache"
	"trove/internal/models"
	"trove/internal/observability"
	"trove/internal/seed"
	"trove/internal/storage"
)

var _ storage.Storage = (*GormStore)(nil)

// GormStore is the relational backend. The optional cache accelerates hot
// user reads; it is never required for correctness.
type GormStore struct {
	db    *gorm.DB
	cache *cache.Cache
	log   *observability.StoreLogger
}

// userCacheTTL bounds staleness of cached user records.
const userCacheTTL = 5 * time.Minute

// Open connects to PostgreSQL at dsn, migrates the schema and seeds the
// built-in catalog on an empty database.
func Open(dsn string, c *cache.Cache) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return New(db, c)
}

// New wraps an already-open GORM handle. Tests use this with SQLite.
func New(db *gorm.DB, c *cache.Cache) (*GormStore, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.Find{},
		&models.FindComment{},
		&models.FindLike{},
		&models.Location{},
		&models.Event{},
		&models.Story{},
		&models.Group{},
		&models.GroupMembership{},
		&models.UserConnection{},
		&models.Activity{},
		&models.Message{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Route{},
		&models.Preference{},
		&models.ImageMetadata{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	s := &GormStore{
		db:    db,
		cache: c,
		log:   observability.NewStoreLogger("gormstore"),
	}
	if err := s.seedCatalog(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedCatalog inserts the built-in categories and achievements when their
// tables are empty, mirroring the embedded store's first-run behavior.
func (s *GormStore) seedCatalog() error {
	catalog, err := seed.LoadCatalog()
	if err != nil {
		return err
	}

	var categories int64
	if err := s.db.Model(&models.Category{}).Count(&categories).Error; err != nil {
		return models.NewInternalError(err)
	}
	if categories == 0 {
		for i := range catalog.Categories {
			if err := s.db.Create(&catalog.Categories[i]).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		s.log.Info("seeded category catalog")
	}

	var achievements int64
	if err := s.db.Model(&models.Achievement{}).Count(&achievements).Error; err != nil {
		return models.NewInternalError(err)
	}
	if achievements == 0 {
		for i := range catalog.Achievements {
			if err := s.db.Create(&catalog.Achievements[i]).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		s.log.Info("seeded achievement catalog")
	}
	return nil
}

// reconcileStatements recompute each denormalized counter from its source
// table. Each statement only touches rows whose counter drifted, so
// RowsAffected is the number of corrections. Plain correlated subqueries,
// valid on both PostgreSQL and SQLite.
var reconcileStatements = []string{
	`UPDATE categories SET count = (SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id)
	 WHERE count <> (SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id)`,
	`UPDATE posts SET comments = (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)
	 WHERE comments <> (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`,
	`UPDATE posts SET likes = (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id)
	 WHERE likes <> (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id)`,
	`UPDATE finds SET comment_count = (SELECT COUNT(*) FROM find_comments WHERE find_comments.find_id = finds.id)
	 WHERE comment_count <> (SELECT COUNT(*) FROM find_comments WHERE find_comments.find_id = finds.id)`,
	`UPDATE finds SET likes = (SELECT COUNT(*) FROM find_likes WHERE find_likes.find_id = finds.id)
	 WHERE likes <> (SELECT COUNT(*) FROM find_likes WHERE find_likes.find_id = finds.id)`,
	`UPDATE "groups" SET member_count = (SELECT COUNT(*) FROM group_memberships WHERE group_memberships.group_id = groups.id)
	 WHERE member_count <> (SELECT COUNT(*) FROM group_memberships WHERE group_memberships.group_id = groups.id)`,
}

// ReconcileAllCounters recomputes every denormalized counter from its
// source table and reports how many rows were corrected. Event attendee
// counts have no source table and are left alone.
func (s *GormStore) ReconcileAllCounters(ctx context.Context) (int, error) {
	fixes := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range reconcileStatements {
			res := tx.Exec(stmt)
			if res.Error != nil {
				return models.NewIntegrityError("counter reconciliation failed", res.Error)
			}
			fixes += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if fixes > 0 {
		observability.ReconcileCorrections.Add(float64(fixes))
		s.log.Warn("counter drift corrected", "corrections", fixes)
	}
	return fixes, nil
}

// Ping reports database liveness.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database connection pool and the cache.
func (s *GormStore) Close() error {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
