package user

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	FullName     string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Phone        string
	CommunityID  string `gorm:"uniqueIndex"`
	Role         string `gorm:"default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID          uint64    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CommunityID string    `json:"communityId"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSafeUser converts a User to a SafeUser
func (u *User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		CommunityID: u.CommunityID,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewCommunityID generates the shareable account code assigned once at
// creation, e.g. "DV-4K7Q2Z". Uniqueness is probabilistic; the column's
// unique index catches the unlucky case.
func NewCommunityID() string {
	const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	code := make([]byte, 6)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		code[i] = charset[n.Int64()]
	}
	return "DV-" + string(code)
}
