package notification

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))

	return NewService(NewRepository(db))
}

func TestNotifyAndListRecent(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	docID := uint64(3)
	require.NoError(t, service.Notify(ctx, 1, &docID, TypeUpload, `Successfully uploaded document "Report.pdf"`))
	require.NoError(t, service.Notify(ctx, 1, nil, TypeDelete, `Document "Report.pdf" was deleted`))
	require.NoError(t, service.Notify(ctx, 2, &docID, TypeUpload, "someone else's event"))

	notifications, err := service.ListRecent(ctx, 1)
	require.NoError(t, err)

	require.Len(t, notifications, 2)
	assert.Equal(t, TypeDelete, notifications[0].Type)
	assert.Nil(t, notifications[0].DocumentID)
	assert.Equal(t, TypeUpload, notifications[1].Type)
	require.NotNil(t, notifications[1].DocumentID)
	assert.Equal(t, docID, *notifications[1].DocumentID)
	assert.False(t, notifications[0].Read)
}

func TestListRecent_CapsAtFifty(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	for i := 0; i < 55; i++ {
		require.NoError(t, service.Notify(ctx, 1, nil, TypeUpload, fmt.Sprintf("event %d", i)))
	}

	notifications, err := service.ListRecent(ctx, 1)
	require.NoError(t, err)

	require.Len(t, notifications, 50)
	// Newest first; the oldest five fall off
	assert.Equal(t, "event 54", notifications[0].Message)
	assert.Equal(t, "event 5", notifications[49].Message)
}

func TestMarkAllRead_Idempotent(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	require.NoError(t, service.Notify(ctx, 1, nil, TypeUpload, "a"))
	require.NoError(t, service.Notify(ctx, 1, nil, TypeVersion, "b"))
	require.NoError(t, service.Notify(ctx, 2, nil, TypeUpload, "other account"))

	require.NoError(t, service.MarkAllRead(ctx, 1))
	require.NoError(t, service.MarkAllRead(ctx, 1))

	notifications, err := service.ListRecent(ctx, 1)
	require.NoError(t, err)
	for _, n := range notifications {
		assert.True(t, n.Read)
	}

	others, err := service.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].Read)
}

func TestListRecent_Empty(t *testing.T) {
	service := setupService(t)

	notifications, err := service.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
