package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"haushaltsbuch/internal/models"
)

// DefaultDocumentName is the row holding the dataset in the documents table.
const DefaultDocumentName = "dataset"

// SQLBackend keeps the dataset as a single row of the documents table.
// Each write replaces the row inside a transaction.
type SQLBackend struct {
	db   *gorm.DB
	name string
}

// NewSQLBackend returns a backend storing the document under name.
func NewSQLBackend(db *gorm.DB, name string) *SQLBackend {
	if name == "" {
		name = DefaultDocumentName
	}
	return &SQLBackend{db: db, name: name}
}

// Location returns the dialect and document name.
func (b *SQLBackend) Location() string {
	return fmt.Sprintf("%s:documents/%s", b.db.Dialector.Name(), b.name)
}

// Read returns the stored document body.
func (b *SQLBackend) Read(ctx context.Context) ([]byte, error) {
	var doc models.Document
	err := b.db.WithContext(ctx).Where("name = ?", b.name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Body), nil
}

// Write upserts the document row.
func (b *SQLBackend) Write(ctx context.Context, body []byte) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc := models.Document{Name: b.name, Body: string(body)}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).Create(&doc).Error
	})
}

// Backup copies the document row to "<name>.<suffix>".
func (b *SQLBackend) Backup(ctx context.Context, suffix string) (string, error) {
	body, err := b.Read(ctx)
	if err != nil {
		return "", err
	}
	backup := models.Document{Name: b.name + "." + suffix, Body: string(body)}
	if err := b.db.WithContext(ctx).Save(&backup).Error; err != nil {
		return "", err
	}
	return backup.Name, nil
}
