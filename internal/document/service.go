package document

import (
	"context"
	defError "errors"
	"fmt"
	"sort"
	"time"

	"docuvault/internal/cache"
	"docuvault/internal/errors"
	"docuvault/internal/notification"
	"docuvault/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier records one event per document mutation. Implemented by the
// notification service.
type Notifier interface {
	Notify(ctx context.Context, userID uint64, documentID *uint64, notifType, message string) error
}

// BlobCleanup is the per-version outcome of best-effort blob deletion
// during document delete. A non-nil Err does not abort the delete.
type BlobCleanup struct {
	VersionID string
	BlobID    string
	Err       error
}

// VersionListing is the versions view of one document, newest first.
type VersionListing struct {
	DocumentName       string    `json:"documentName"`
	CurrentVersionName string    `json:"currentVersionName"`
	Versions           []Version `json:"versions"`
}

// Service defines the interface for document business logic
type Service interface {
	ListForOwner(ctx context.Context, userID uint64) ([]Document, error)
	Create(ctx context.Context, userID uint64, name string, file []byte, versionName string) (*Document, error)
	GetByID(ctx context.Context, documentID, userID uint64) (*Document, error)
	AppendVersion(ctx context.Context, documentID, userID uint64, file []byte, versionName string) (*Document, error)
	Revert(ctx context.Context, documentID, userID uint64, versionID string) (*Version, error)
	Delete(ctx context.Context, documentID, userID uint64) ([]BlobCleanup, error)
	ListVersions(ctx context.Context, documentID, userID uint64) (*VersionListing, error)
	FileStats(ctx context.Context, ownerID uint64) (int64, *time.Time, error)
}

// DefaultService implements Service
type DefaultService struct {
	repository   Repository
	uploader     storage.Uploader
	notifier     Notifier
	cache        *cache.Cache
	log          *zap.SugaredLogger
	uploadFolder string
}

func NewService(
	repository Repository,
	uploader storage.Uploader,
	notifier Notifier,
	listCache *cache.Cache,
	log *zap.SugaredLogger,
	uploadFolder string,
) Service {
	return &DefaultService{
		repository:   repository,
		uploader:     uploader,
		notifier:     notifier,
		cache:        listCache,
		log:          log,
		uploadFolder: uploadFolder,
	}
}

// ListForOwner returns the account's documents, newest-updated first.
// Results are cached per user under a data version bumped by every
// mutation.
func (s *DefaultService) ListForOwner(ctx context.Context, userID uint64) ([]Document, error) {
	versionKey := fmt.Sprintf("user:%d:docs:version", userID)
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("docs:u:%d:v:%d", userID, v)

	var documents []Document
	found, _ := s.cache.Get(ctx, cacheKey, &documents)
	if found {
		return documents, nil
	}

	documents, err := s.repository.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	go s.cache.Set(context.Background(), cacheKey, documents, 24*time.Hour)

	return documents, nil
}

// Create uploads the file and stores a document with exactly one version.
// The first version's name is the given version name, or the document name
// when none was provided.
func (s *DefaultService) Create(ctx context.Context, userID uint64, name string, file []byte, versionName string) (*Document, error) {
	if name == "" {
		return nil, errors.Validation("Document name is required", nil)
	}
	if len(file) == 0 {
		return nil, errors.Validation("File is required", nil)
	}

	uploaded, err := s.uploader.Upload(ctx, file, fmt.Sprintf("%s/%d", s.uploadFolder, userID))
	if err != nil {
		return nil, errors.Upstream("Failed to store file", err)
	}

	finalVersionName := versionName
	if finalVersionName == "" {
		finalVersionName = name
	}

	document := &Document{
		Name:               name,
		UserID:             userID,
		CurrentVersionName: finalVersionName,
		Versions: []Version{
			{
				VersionID:   NewVersionID(),
				VersionName: finalVersionName,
				BlobID:      uploaded.ID,
				BlobURL:     uploaded.URL,
				Format:      uploaded.Format,
				Size:        uploaded.Size,
			},
		},
	}
	if err := s.repository.Create(ctx, document); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Successfully uploaded document %q", name)
	if err := s.notifier.Notify(ctx, userID, &document.ID, notification.TypeUpload, message); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, userID)
	return document, nil
}

func (s *DefaultService) GetByID(ctx context.Context, documentID, userID uint64) (*Document, error) {
	document, err := s.repository.FindOwned(ctx, documentID, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, err
	}
	return document, nil
}

// AppendVersion uploads the file and appends version v{n}, where n is the
// current version count plus one, then moves the current pointer to it.
// Version numbers are never reused, even after a revert.
func (s *DefaultService) AppendVersion(ctx context.Context, documentID, userID uint64, file []byte, versionName string) (*Document, error) {
	if len(file) == 0 {
		return nil, errors.Validation("File is required", nil)
	}

	document, err := s.GetByID(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repository.CountVersions(ctx, documentID)
	if err != nil {
		return nil, err
	}
	number := count + 1

	uploaded, err := s.uploader.Upload(ctx, file, fmt.Sprintf("%s/%d", s.uploadFolder, userID))
	if err != nil {
		return nil, errors.Upstream("Failed to store file", err)
	}

	label := versionName
	if label == "" {
		label = fmt.Sprintf("Version %d", number)
	}
	version := &Version{
		VersionID:    NewVersionID(),
		VersionName:  fmt.Sprintf("v%d", number),
		VersionLabel: label,
		BlobID:       uploaded.ID,
		BlobURL:      uploaded.URL,
		Format:       uploaded.Format,
		Size:         uploaded.Size,
	}
	if err := s.repository.AppendVersion(ctx, documentID, version, version.VersionName); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New version v%d added to %q", number, document.Name)
	if err := s.notifier.Notify(ctx, userID, &document.ID, notification.TypeVersion, message); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, userID)
	return s.GetByID(ctx, documentID, userID)
}

// Revert moves the document's current pointer to the version with the
// given version id. It never adds or removes version rows.
func (s *DefaultService) Revert(ctx context.Context, documentID, userID uint64, versionID string) (*Version, error) {
	document, err := s.GetByID(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	var target *Version
	for i := range document.Versions {
		if document.Versions[i].VersionID == versionID {
			target = &document.Versions[i]
			break
		}
	}
	if target == nil {
		return nil, errors.NotFound("Version not found", nil)
	}

	if err := s.repository.SetCurrentVersion(ctx, documentID, target.VersionName); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Reverted %q to version %q", document.Name, target.VersionName)
	if err := s.notifier.Notify(ctx, userID, &document.ID, notification.TypeRevert, message); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, userID)
	return target, nil
}

// Delete attempts to remove every version's blob, then removes the record.
// Blob failures are logged per version and never abort the delete.
func (s *DefaultService) Delete(ctx context.Context, documentID, userID uint64) ([]BlobCleanup, error) {
	document, err := s.GetByID(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	cleanup := make([]BlobCleanup, 0, len(document.Versions))
	for _, version := range document.Versions {
		err := s.uploader.Delete(ctx, version.BlobID)
		if err != nil {
			s.log.Warnw("blob cleanup failed",
				"document_id", documentID,
				"version_id", version.VersionID,
				"blob_id", version.BlobID,
				"error", err,
			)
		}
		cleanup = append(cleanup, BlobCleanup{
			VersionID: version.VersionID,
			BlobID:    version.BlobID,
			Err:       err,
		})
	}

	if err := s.repository.Delete(ctx, documentID); err != nil {
		return cleanup, err
	}

	message := fmt.Sprintf("Document %q was deleted", document.Name)
	if err := s.notifier.Notify(ctx, userID, nil, notification.TypeDelete, message); err != nil {
		return cleanup, err
	}

	s.invalidateList(ctx, userID)
	return cleanup, nil
}

// ListVersions returns the document's history, newest first.
func (s *DefaultService) ListVersions(ctx context.Context, documentID, userID uint64) (*VersionListing, error) {
	document, err := s.GetByID(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	versions := make([]Version, len(document.Versions))
	copy(versions, document.Versions)
	sort.Slice(versions, func(i, j int) bool {
		if versions[i].CreatedAt.Equal(versions[j].CreatedAt) {
			return versions[i].ID > versions[j].ID
		}
		return versions[i].CreatedAt.After(versions[j].CreatedAt)
	})

	return &VersionListing{
		DocumentName:       document.Name,
		CurrentVersionName: document.CurrentVersionName,
		Versions:           versions,
	}, nil
}

// FileStats reports the document count and most recent update for one
// account. Used by the admin directory.
func (s *DefaultService) FileStats(ctx context.Context, ownerID uint64) (int64, *time.Time, error) {
	count, err := s.repository.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}
	last, err := s.repository.LastUpdatedByOwner(ctx, ownerID)
	if err != nil {
		return 0, nil, err
	}
	return count, last, nil
}

func (s *DefaultService) invalidateList(ctx context.Context, userID uint64) {
	s.cache.IncrementVersion(ctx, fmt.Sprintf("user:%d:docs:version", userID))
}
