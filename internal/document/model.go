package document

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Document is one named file with an append-only version history.
// CurrentVersionName points at the version entry considered active; it is a
// denormalized name, not an enforced foreign reference.
type Document struct {
	ID                 uint64    `gorm:"primaryKey" json:"id"`
	Name               string    `json:"name"`
	UserID             uint64    `gorm:"index" json:"user_id"`
	CurrentVersionName string    `json:"current_version_name"`
	Versions           []Version `gorm:"foreignKey:DocumentID" json:"versions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Version is one immutable snapshot in a document's history. Rows are only
// ever appended; revert moves the document's pointer, it never touches
// these rows.
type Version struct {
	ID           uint64    `gorm:"primaryKey" json:"-"`
	DocumentID   uint64    `gorm:"index" json:"-"`
	VersionID    string    `gorm:"index" json:"version_id"`
	VersionName  string    `json:"version_name"`
	VersionLabel string    `json:"version_label,omitempty"`
	BlobID       string    `json:"blob_id"`
	BlobURL      string    `json:"blob_url"`
	Format       string    `json:"format,omitempty"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Version) TableName() string {
	return "document_versions"
}

// NewVersionID generates an opaque version identifier,
// "v-<unix ms>-<6 base36 chars>". Uniqueness is probabilistic; collisions
// are accepted.
func NewVersionID() string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		suffix[i] = charset[n.Int64()]
	}
	return fmt.Sprintf("v-%d-%s", time.Now().UnixMilli(), suffix)
}
