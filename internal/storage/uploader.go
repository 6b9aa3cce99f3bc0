package storage

import "context"

// UploadResult describes a stored blob.
type UploadResult struct {
	ID     string
	URL    string
	Format string
	Size   int64
}

// Uploader is the blob-storage contract the document store depends on.
// Upload stores a byte buffer under a folder and returns the stored-object
// identifier, a retrieval URL, a format tag and the byte size. Delete
// removes a stored object by identifier.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (*UploadResult, error)
	Delete(ctx context.Context, blobID string) error
}
