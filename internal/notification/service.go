package notification

import "context"

// recentLimit caps how many notifications a listing returns.
const recentLimit = 50

// Service defines the interface for the notification log
type Service interface {
	Notify(ctx context.Context, userID uint64, documentID *uint64, notifType, message string) error
	ListRecent(ctx context.Context, userID uint64) ([]Notification, error)
	MarkAllRead(ctx context.Context, userID uint64) error
}

// DefaultService implements Service
type DefaultService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &DefaultService{repository: repository}
}

// Notify appends one event record for the account.
func (s *DefaultService) Notify(ctx context.Context, userID uint64, documentID *uint64, notifType, message string) error {
	return s.repository.Create(ctx, &Notification{
		UserID:     userID,
		Message:    message,
		Type:       notifType,
		DocumentID: documentID,
	})
}

// ListRecent returns the newest 50 notifications, newest first.
func (s *DefaultService) ListRecent(ctx context.Context, userID uint64) ([]Notification, error) {
	return s.repository.ListRecent(ctx, userID, recentLimit)
}

// MarkAllRead flags every unread notification as read. Idempotent.
func (s *DefaultService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.repository.MarkAllRead(ctx, userID)
}
