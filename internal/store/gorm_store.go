package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Document is one persisted collection row.
type Document struct {
	Name      string `gorm:"primaryKey;type:varchar(64)"`
	Body      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// GORMStore keeps collections as rows of a documents table.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore migrates the documents table on db.
func NewGORMStore(db *gorm.DB) (*GORMStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, ioError("migrate", "documents", err)
	}
	return &GORMStore{db: db}, nil
}

// OpenGORM opens a sqlite or postgres connection.
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, ioError("connect", driver, err)
	}
	return db, nil
}

func (s *GORMStore) Load(ctx context.Context, name string) ([]byte, error) {
	var doc Document
	if err := s.db.WithContext(ctx).First(&doc, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, ioError("select", name, err)
	}
	return []byte(doc.Body), nil
}

func (s *GORMStore) Save(ctx context.Context, name string, doc []byte) error {
	row := Document{Name: name, Body: string(doc), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return ioError("upsert", name, err)
	}
	return nil
}

func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
