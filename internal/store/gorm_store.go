package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// record is one row of the documents table.
type record struct {
	Key       string `gorm:"column:doc_key;primaryKey;type:varchar(191)"`
	Value     string `gorm:"column:value;type:text;not null"`
	Revision  int64  `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (record) TableName() string {
	return "documents"
}

// Models returns the gorm models backing GormStore, for AutoMigrate.
func Models() []any {
	return []any{&record{}}
}

// GormStore keeps documents in a relational table through gorm.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormStore creates a GormStore. The documents table must already exist.
func NewGormStore(db *gorm.DB, logger *slog.Logger) *GormStore {
	return &GormStore{
		db:     db,
		logger: logger.With("store", "gorm"),
	}
}

// Get returns the document stored under key.
func (s *GormStore) Get(ctx context.Context, key string) (Document, int64, error) {
	var rec record
	if err := s.db.WithContext(ctx).Where("doc_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		s.logger.Warn("failed to read document", "key", key, "error", err)
		return nil, 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return Document(rec.Value), rec.Revision, nil
}

// Set upserts the document and bumps its revision.
func (s *GormStore) Set(ctx context.Context, key string, doc Document) error {
	rec := record{Key: key, Value: string(doc), Revision: 1}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      string(doc),
				"revision":   gorm.Expr("documents.revision + 1"),
				"updated_at": time.Now(),
			}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.logger.Debug("document written", "key", key)
	return nil
}

// SetIfRevision writes the document when the stored revision matches.
func (s *GormStore) SetIfRevision(ctx context.Context, key string, doc Document, revision int64) error {
	db := s.db.WithContext(ctx)

	if revision == 0 {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&record{Key: key, Value: string(doc), Revision: 1})
		if res.Error != nil {
			return fmt.Errorf("failed to write %s: %w", key, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	}

	res := db.Model(&record{}).
		Where("doc_key = ? AND revision = ?", key, revision).
		Updates(map[string]interface{}{
			"value":      string(doc),
			"revision":   revision + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to write %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Debug("revision mismatch", "key", key, "revision", revision)
		return ErrConflict
	}
	return nil
}

// Delete removes the document.
func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&record{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Transaction runs fn inside a database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, logger: s.logger})
	})
}
