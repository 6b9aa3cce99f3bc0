package notification

import "time"

// Notification types, one per document mutation.
const (
	TypeUpload  = "upload"
	TypeVersion = "version"
	TypeRevert  = "revert"
	TypeDelete  = "delete"
)

// Notification is one append-only event record owned by an account.
// DocumentID is nil for delete events, which outlive their document.
type Notification struct {
	ID         uint64  `gorm:"primaryKey" json:"id"`
	UserID     uint64  `gorm:"index" json:"user_id"`
	Message    string  `json:"message"`
	Type       string  `json:"type"`
	DocumentID *uint64 `json:"document_id,omitempty"`
	Read       bool    `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}
