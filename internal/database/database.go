package database

import (
	"context"
	"fmt"
	"time"

	"recgames/backend/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options tunes the connection pool and query logging.
type Options struct {
	MaxOpenConns  int
	MaxIdleConns  int
	SlowThreshold time.Duration
	Logger        zerolog.Logger
}

// Connect opens a PostgreSQL connection pool.
func Connect(dsn string, opts Options) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn), opts)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	opts.Logger.Info().Msg("Database connection established.")
	return db, nil
}

// Open opens a database with the given dialector and the zerolog-backed GORM logger.
func Open(dialector gorm.Dialector, opts Options) (*gorm.DB, error) {
	slow := opts.SlowThreshold
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(opts.Logger, slow),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.UserProfile{},
		&models.Tag{},
		&models.Game{},
		&models.Collection{},
		&models.GameCollection{},
		&models.Favorite{},
		&models.CollectionLike{},
		&models.Recommendation{},
		&models.Feedback{},
	}
}

// Migrate creates or updates the schema and the composite indexes used by listing queries.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	additionalIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_game_collections_collection_position ON game_collections(collection_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_games_rating_id ON games(rating DESC, id)",
		"CREATE INDEX IF NOT EXISTS idx_collections_public_created ON collections(is_public, created_at)",
	}
	for _, stmt := range additionalIndexes {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Ping verifies that the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
