package document

import (
	"context"
	"fmt"
	"testing"
	"time"

	apiError "docuvault/internal/errors"
	"docuvault/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeUploader records every call so tests can assert on blob interactions.
type fakeUploader struct {
	uploads    int
	deleted    []string
	failDelete map[string]error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, folder string) (*storage.UploadResult, error) {
	f.uploads++
	id := fmt.Sprintf("%s/blob-%d", folder, f.uploads)
	return &storage.UploadResult{
		ID:     id,
		URL:    "https://blobs.test/" + id,
		Format: "pdf",
		Size:   int64(len(data)),
	}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, blobID string) error {
	f.deleted = append(f.deleted, blobID)
	if err, ok := f.failDelete[blobID]; ok {
		return err
	}
	return nil
}

type notifEvent struct {
	userID     uint64
	documentID *uint64
	notifType  string
	message    string
}

type recordingNotifier struct {
	events []notifEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uint64, documentID *uint64, notifType, message string) error {
	n.events = append(n.events, notifEvent{userID, documentID, notifType, message})
	return nil
}

func (n *recordingNotifier) ofType(notifType string) []notifEvent {
	var out []notifEvent
	for _, e := range n.events {
		if e.notifType == notifType {
			out = append(out, e)
		}
	}
	return out
}

func setupService(t *testing.T) (Service, *fakeUploader, *recordingNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Document{}, &Version{}))

	uploader := &fakeUploader{failDelete: map[string]error{}}
	notifier := &recordingNotifier{}
	service := NewService(NewRepository(db), uploader, notifier, nil, zap.NewNop().Sugar(), "docuvault")

	return service, uploader, notifier
}

func TestCreate_FirstVersionUsesDocumentName(t *testing.T) {
	service, uploader, notifier := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("first draft"), "")
	require.NoError(t, err)

	require.Len(t, doc.Versions, 1)
	assert.Equal(t, "Report.pdf", doc.Versions[0].VersionName)
	assert.Equal(t, "Report.pdf", doc.CurrentVersionName)
	assert.Equal(t, int64(len("first draft")), doc.Versions[0].Size)
	assert.NotEmpty(t, doc.Versions[0].VersionID)
	assert.Equal(t, 1, uploader.uploads)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "upload", notifier.events[0].notifType)
	assert.Equal(t, uint64(1), notifier.events[0].userID)
	require.NotNil(t, notifier.events[0].documentID)
	assert.Equal(t, doc.ID, *notifier.events[0].documentID)
}

func TestCreate_FirstVersionUsesProvidedName(t *testing.T) {
	service, _, _ := setupService(t)

	doc, err := service.Create(context.Background(), 1, "Report.pdf", []byte("x"), "Initial draft")
	require.NoError(t, err)

	assert.Equal(t, "Initial draft", doc.Versions[0].VersionName)
	assert.Equal(t, "Initial draft", doc.CurrentVersionName)
}

func TestCreate_MissingInput(t *testing.T) {
	service, uploader, notifier := setupService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, 1, "", []byte("x"), "")
	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	_, err = service.Create(ctx, 1, "Report.pdf", nil, "")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	assert.Zero(t, uploader.uploads)
	assert.Empty(t, notifier.events)
}

func TestAppendVersion_SequentialNumbering(t *testing.T) {
	service, _, notifier := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1 content"), "")
	require.NoError(t, err)

	updated, err := service.AppendVersion(ctx, doc.ID, 1, []byte("v2 content"), "")
	require.NoError(t, err)

	require.Len(t, updated.Versions, 2)
	assert.Equal(t, "v2", updated.CurrentVersionName)

	var v2 *Version
	for i := range updated.Versions {
		if updated.Versions[i].VersionName == "v2" {
			v2 = &updated.Versions[i]
		}
	}
	require.NotNil(t, v2)
	assert.Equal(t, "Version 2", v2.VersionLabel)

	updated, err = service.AppendVersion(ctx, doc.ID, 1, []byte("v3 content"), "Final")
	require.NoError(t, err)
	require.Len(t, updated.Versions, 3)
	assert.Equal(t, "v3", updated.CurrentVersionName)

	versionEvents := notifier.ofType("version")
	require.Len(t, versionEvents, 2)
	assert.Contains(t, versionEvents[0].message, `New version v2 added to "Report.pdf"`)
}

func TestAppendVersion_NotOwned(t *testing.T) {
	service, uploader, _ := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("x"), "")
	require.NoError(t, err)
	uploadsBefore := uploader.uploads

	_, err = service.AppendVersion(ctx, doc.ID, 2, []byte("y"), "")
	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, uploadsBefore, uploader.uploads)
}

func TestRevert_MovesPointerOnly(t *testing.T) {
	service, _, notifier := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1"), "")
	require.NoError(t, err)
	firstVersion := doc.Versions[0]

	updated, err := service.AppendVersion(ctx, doc.ID, 1, []byte("v2"), "")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.CurrentVersionName)

	reverted, err := service.Revert(ctx, doc.ID, 1, firstVersion.VersionID)
	require.NoError(t, err)
	assert.Equal(t, firstVersion.VersionName, reverted.VersionName)

	after, err := service.GetByID(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, firstVersion.VersionName, after.CurrentVersionName)
	assert.Len(t, after.Versions, 2, "revert must not add or remove versions")

	require.Len(t, notifier.ofType("revert"), 1)
}

func TestRevert_UnknownVersionLeavesDocumentUnchanged(t *testing.T) {
	service, _, notifier := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1"), "")
	require.NoError(t, err)

	_, err = service.Revert(ctx, doc.ID, 1, "v-0-nosuch")
	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	after, err := service.GetByID(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, doc.CurrentVersionName, after.CurrentVersionName)
	assert.Len(t, after.Versions, 1)
	assert.Empty(t, notifier.ofType("revert"))
}

func TestDelete_BestEffortBlobCleanup(t *testing.T) {
	service, uploader, notifier := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1"), "")
	require.NoError(t, err)
	updated, err := service.AppendVersion(ctx, doc.ID, 1, []byte("v2"), "")
	require.NoError(t, err)
	require.Len(t, updated.Versions, 2)

	// One blob deletion fails; the delete must still go through
	uploader.failDelete[updated.Versions[0].BlobID] = fmt.Errorf("provider unavailable")

	cleanup, err := service.Delete(ctx, doc.ID, 1)
	require.NoError(t, err)

	require.Len(t, cleanup, 2)
	var failed int
	for _, result := range cleanup {
		if result.Err != nil {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Len(t, uploader.deleted, 2, "every version's blob must be attempted")

	_, err = service.GetByID(ctx, doc.ID, 1)
	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	deleteEvents := notifier.ofType("delete")
	require.Len(t, deleteEvents, 1)
	assert.Nil(t, deleteEvents[0].documentID)
}

func TestDelete_NotOwned(t *testing.T) {
	service, uploader, _ := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1"), "")
	require.NoError(t, err)

	_, err = service.Delete(ctx, doc.ID, 2)
	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Empty(t, uploader.deleted)
}

func TestEveryMutationWritesOneNotification(t *testing.T) {
	service, _, notifier := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1"), "")
	require.NoError(t, err)
	_, err = service.AppendVersion(ctx, doc.ID, 1, []byte("v2"), "")
	require.NoError(t, err)

	after, err := service.GetByID(ctx, doc.ID, 1)
	require.NoError(t, err)
	_, err = service.Revert(ctx, doc.ID, 1, after.Versions[0].VersionID)
	require.NoError(t, err)
	_, err = service.Delete(ctx, doc.ID, 1)
	require.NoError(t, err)

	assert.Len(t, notifier.ofType("upload"), 1)
	assert.Len(t, notifier.ofType("version"), 1)
	assert.Len(t, notifier.ofType("revert"), 1)
	assert.Len(t, notifier.ofType("delete"), 1)
	assert.Len(t, notifier.events, 4)
}

func TestListVersions_NewestFirst(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	doc, err := service.Create(ctx, 1, "Report.pdf", []byte("v1"), "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = service.AppendVersion(ctx, doc.ID, 1, []byte("v2"), "")
	require.NoError(t, err)

	listing, err := service.ListVersions(ctx, doc.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, "Report.pdf", listing.DocumentName)
	assert.Equal(t, "v2", listing.CurrentVersionName)
	require.Len(t, listing.Versions, 2)
	assert.Equal(t, "v2", listing.Versions[0].VersionName)
}

func TestListForOwner_NewestUpdatedFirst(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, 1, "Older.pdf", []byte("a"), "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = service.Create(ctx, 1, "Newer.pdf", []byte("b"), "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// Appending a version bumps the older document to the top
	_, err = service.AppendVersion(ctx, first.ID, 1, []byte("c"), "")
	require.NoError(t, err)

	documents, err := service.ListForOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "Older.pdf", documents[0].Name)

	// Another owner sees nothing
	other, err := service.ListForOwner(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFileStats(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	total, last, err := service.FileStats(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Nil(t, last)

	_, err = service.Create(ctx, 1, "A.pdf", []byte("a"), "")
	require.NoError(t, err)
	_, err = service.Create(ctx, 1, "B.pdf", []byte("b"), "")
	require.NoError(t, err)

	total, last, err = service.FileStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.NotNil(t, last)
}
