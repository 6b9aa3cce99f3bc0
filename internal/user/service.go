package user

import (
	"context"
	defError "errors"
	"math"
	"regexp"
	"strings"
	"time"

	"docuvault/internal/config"
	"docuvault/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Distinct credential failures, kept apart for logging. Both surface to the
// client as the same message to avoid account enumeration.
var (
	ErrNoSuchUser      = defError.New("no user found with this email")
	ErrInvalidPassword = defError.New("invalid password")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const bcryptCost = 12

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
}

// DirectoryEntry is one row of the admin user directory: the account plus
// file stats computed at read time.
type DirectoryEntry struct {
	SafeUser
	TotalFiles       int64      `json:"totalFiles"`
	LastModifiedFile *time.Time `json:"lastModifiedFile,omitempty"`
}

// Pagination describes a directory page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// FileStatsProvider computes an account's document count and most recent
// document update. Implemented by the document service.
type FileStatsProvider interface {
	FileStats(ctx context.Context, ownerID uint64) (total int64, lastModified *time.Time, err error)
}

// Service defines the interface for account business logic
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id uint64) (*User, error)
	UpdateProfile(ctx context.Context, id uint64, fullName, phone string) (*User, error)
	ListDirectory(ctx context.Context, page, limit int) ([]DirectoryEntry, Pagination, error)
	SeedAdmin(ctx context.Context) (*User, bool, error)
	AdminExists(ctx context.Context) (bool, error)
}

// DefaultService implements Service
type DefaultService struct {
	repository    Repository
	fileStats     FileStatsProvider
	adminEmail    string
	adminPassword string
}

// NewService creates a new account service
func NewService(repository Repository, fileStats FileStatsProvider, cfg *config.Config) Service {
	return &DefaultService{
		repository:    repository,
		fileStats:     fileStats,
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
	}
}

// Register creates a new account with a hashed password and a generated
// community id.
func (s *DefaultService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.FullName == "" || input.Email == "" || input.Password == "" || input.Phone == "" {
		return nil, errors.Validation("All fields are required", nil)
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, errors.Validation("Invalid email format", nil)
	}
	if len(input.Password) < 6 {
		return nil, errors.Validation("Password must be at least 6 characters", nil)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := s.repository.FindByEmail(ctx, email)
	if err == nil {
		return nil, errors.Conflict("User with this email already exists", nil)
	}
	if !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, errors.Internal(err)
	}

	account := &User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(input.Phone),
		CommunityID:  NewCommunityID(),
		Role:         RoleUser,
	}
	if err := s.repository.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Authenticate checks an email/password pair and returns the account.
func (s *DefaultService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	account, err := s.repository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Unauthorized("Invalid email or password", ErrNoSuchUser)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid email or password", ErrInvalidPassword)
	}

	return account, nil
}

func (s *DefaultService) GetByID(ctx context.Context, id uint64) (*User, error) {
	account, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("User not found", err)
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile changes the mutable profile fields. Email, role and
// community id never change here.
func (s *DefaultService) UpdateProfile(ctx context.Context, id uint64, fullName, phone string) (*User, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		account.FullName = fullName
	}
	if phone != "" {
		account.Phone = phone
	}
	if err := s.repository.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// ListDirectory returns a page of accounts annotated with file stats.
// Stats are recomputed on every call, not stored.
func (s *DefaultService) ListDirectory(ctx context.Context, page, limit int) ([]DirectoryEntry, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := s.repository.Count(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}

	accounts, err := s.repository.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	entries := make([]DirectoryEntry, 0, len(accounts))
	for _, account := range accounts {
		files, lastModified, err := s.fileStats.FileStats(ctx, account.ID)
		if err != nil {
			return nil, Pagination{}, err
		}
		entries = append(entries, DirectoryEntry{
			SafeUser:         account.ToSafeUser(),
			TotalFiles:       files,
			LastModifiedFile: lastModified,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return entries, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalUsers:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// SeedAdmin creates the admin account from the configured secrets. Returns
// the account and whether it was created by this call.
func (s *DefaultService) SeedAdmin(ctx context.Context) (*User, bool, error) {
	if s.adminEmail == "" || s.adminPassword == "" {
		return nil, false, errors.Validation("Admin credentials not configured in environment", nil)
	}

	email := strings.ToLower(s.adminEmail)
	existing, err := s.repository.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), bcryptCost)
	if err != nil {
		return nil, false, errors.Internal(err)
	}

	admin := &User{
		FullName:     "System Admin",
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        "+1234567890",
		CommunityID:  NewCommunityID(),
		Role:         RoleAdmin,
	}
	if err := s.repository.Create(ctx, admin); err != nil {
		return nil, false, err
	}

	return admin, true, nil
}

// AdminExists reports whether the configured admin account is present.
func (s *DefaultService) AdminExists(ctx context.Context) (bool, error) {
	if s.adminEmail == "" {
		return false, nil
	}

	account, err := s.repository.FindByEmail(ctx, strings.ToLower(s.adminEmail))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.Role == RoleAdmin, nil
}
