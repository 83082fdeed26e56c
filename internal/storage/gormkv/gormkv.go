// Package gormkv implements storage.Store on a single key-value table,
// backed by SQLite for local single-device use or Postgres when the
// store is shared between clients.
package gormkv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/savora-app/savora/internal/storage"
)

type record struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (record) TableName() string {
	return "kv_records"
}

type Store struct {
	db *gorm.DB
}

// Open connects to the database identified by driver ("sqlite" or
// "postgres") and DSN, and migrates the key-value table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return New(db)
}

// New wraps an existing gorm connection and migrates the table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate kv_records: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var rec record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	rec := record{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&record{}, "key = ?", key).Error
}

func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&record{}).
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
