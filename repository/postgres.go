package repository

import (
	"context"
	"errors"
	"fmt"

	"mystery-tiles/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresBackend keeps the document as one JSONB row keyed by the event.
type PostgresBackend struct {
	db  *gorm.DB
	key string
}

// OpenPostgres connects and migrates the snapshot table.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.DocumentSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func NewPostgresBackend(db *gorm.DB, eventName string) *PostgresBackend {
	return &PostgresBackend{db: db, key: SnapshotKey(eventName)}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var snap models.DocumentSnapshot
	err := b.db.WithContext(ctx).Where("id = ?", b.key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data, nil
}

func (b *PostgresBackend) Save(ctx context.Context, data []byte) error {
	snap := models.DocumentSnapshot{ID: b.key, Data: data}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
}
