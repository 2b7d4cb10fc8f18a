package persistence

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bloglytics/internal/config"
)

type DB struct {
	db     *gorm.DB
	Config *config.Config
}

func (db *DB) Init(_ context.Context) error {
	gormDB, err := gorm.Open(postgres.Open(db.Config.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	db.db = gormDB

	return nil
}

func (db *DB) Model(a any) *gorm.DB {
	return db.db.Model(a)
}

func (db *DB) Raw(sql string, values ...any) *gorm.DB {
	return db.db.Raw(sql, values...)
}

func (db *DB) Exec(sql string, values ...any) *gorm.DB {
	return db.db.Exec(sql, values...)
}

func (db *DB) WithContext(ctx context.Context) *gorm.DB {
	return db.db.WithContext(ctx)
}

func (db *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.db.WithContext(ctx).Transaction(fn)
}

func (db *DB) EstimatedCount(tableName string) (int64, error) {
	var count int64
	return count, db.db.Raw(
		`SELECT reltuples::bigint AS count
				FROM pg_class
				WHERE relname = ?`, tableName,
	).Scan(&count).Error
}

func (db *DB) DB() (*sql.DB, error) {
	return db.db.DB()
}

func (db *DB) HealthCheck(_ context.Context) error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) Shutdown(_ context.Context) error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
