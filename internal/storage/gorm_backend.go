package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

// GormBackend keeps every key as one row of kv_entries.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

var _ Backend = (*GormBackend)(nil)

func (g *GormBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := g.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (g *GormBackend) Set(ctx context.Context, key string, raw []byte) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     string(raw),
		UpdatedAt: time.Now().UTC(),
	}

	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (g *GormBackend) Remove(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&models.KVEntry{}).Error
}

func (g *GormBackend) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := g.db.WithContext(ctx).
		Model(&models.KVEntry{}).
		Order("key").
		Pluck("key", &keys).Error
	return keys, err
}
