package db

import (
	"docuvault/internal/document"
	"docuvault/internal/notification"
	"docuvault/internal/user"

	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&user.User{},
		&document.Document{},
		&document.Version{},
		&notification.Notification{},
	)
}
