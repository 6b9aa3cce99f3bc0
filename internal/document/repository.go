package document

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Repository defines the interface for document data access
type Repository interface {
	Create(ctx context.Context, document *Document) error
	ListByOwner(ctx context.Context, userID uint64) ([]Document, error)
	FindOwned(ctx context.Context, documentID, userID uint64) (*Document, error)
	CountVersions(ctx context.Context, documentID uint64) (int64, error)
	AppendVersion(ctx context.Context, documentID uint64, version *Version, currentVersionName string) error
	SetCurrentVersion(ctx context.Context, documentID uint64, versionName string) error
	Delete(ctx context.Context, documentID uint64) error
	CountByOwner(ctx context.Context, userID uint64) (int64, error)
	LastUpdatedByOwner(ctx context.Context, userID uint64) (*time.Time, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new document repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// Create persists a document together with its initial version rows.
func (r *RepositoryImpl) Create(ctx context.Context, document *Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *RepositoryImpl) ListByOwner(ctx context.Context, userID uint64) ([]Document, error) {
	var documents []Document
	err := r.db.WithContext(ctx).
		Preload("Versions").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&documents).Error
	return documents, err
}

// FindOwned looks a document up by id and owner in one query, so a miss
// never reveals whether the document exists under another account.
func (r *RepositoryImpl) FindOwned(ctx context.Context, documentID, userID uint64) (*Document, error) {
	var document Document
	err := r.db.WithContext(ctx).
		Preload("Versions").
		Where("id = ? AND user_id = ?", documentID, userID).
		First(&document).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *RepositoryImpl) CountVersions(ctx context.Context, documentID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Version{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

// AppendVersion inserts the version row and moves the document's current
// pointer in one transaction.
func (r *RepositoryImpl) AppendVersion(ctx context.Context, documentID uint64, version *Version, currentVersionName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version.DocumentID = documentID
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		return tx.Model(&Document{}).
			Where("id = ?", documentID).
			Update("current_version_name", currentVersionName).Error
	})
}

func (r *RepositoryImpl) SetCurrentVersion(ctx context.Context, documentID uint64, versionName string) error {
	return r.db.WithContext(ctx).
		Model(&Document{}).
		Where("id = ?", documentID).
		Update("current_version_name", versionName).Error
}

// Delete removes the document record and its version rows. Blob cleanup is
// the service's responsibility and happens before this.
func (r *RepositoryImpl) Delete(ctx context.Context, documentID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&Version{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Document{}, documentID).Error
	})
}

func (r *RepositoryImpl) CountByOwner(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Document{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *RepositoryImpl) LastUpdatedByOwner(ctx context.Context, userID uint64) (*time.Time, error) {
	var last sql.NullTime
	err := r.db.WithContext(ctx).
		Model(&Document{}).
		Where("user_id = ?", userID).
		Select("MAX(updated_at)").
		Scan(&last).Error
	if err != nil || !last.Valid {
		return nil, err
	}
	t := last.Time
	return &t, nil
}
