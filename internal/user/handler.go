package user

import (
	"net/http"
	"strconv"

	"docuvault/internal/auth"
	"docuvault/internal/errors"
	"docuvault/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for accounts
type Handler struct {
	service Service
	tokens  *auth.Manager
}

// NewHandler creates a new account handler
func NewHandler(service Service, tokens *auth.Manager) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// FormRegister represents registration form data
type FormRegister struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// FormLogin represents login form data
type FormLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FormProfileUpdate represents the editable profile fields
type FormProfileUpdate struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Register handles account registration
func (h *Handler) Register(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("All fields are required", err))
		return
	}

	account, err := h.service.Register(c.Request.Context(), RegisterInput{
		FullName: form.FullName,
		Email:    form.Email,
		Password: form.Password,
		Phone:    form.Phone,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user": gin.H{
			"id":          account.ID,
			"fullName":    account.FullName,
			"email":       account.Email,
			"communityId": account.CommunityID,
		},
	})
}

// Login verifies credentials and issues the session token.
func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Email and password are required", err))
		return
	}

	account, err := h.service.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.tokens.Issue(account.ID, account.CommunityID, account.Role)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  account.ToSafeUser(),
	})
}

// GetProfile handles getting the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	account, err := h.service.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account.ToSafeUser()})
}

// UpdateProfile handles updating full name and phone
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var form FormProfileUpdate
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid input", err))
		return
	}

	account, err := h.service.UpdateProfile(c.Request.Context(), claims.UserID, form.FullName, form.Phone)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    account.ToSafeUser(),
	})
}

// ListUsers returns the paginated admin directory. The admin gate runs in
// middleware before this handler.
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, pagination, err := h.service.ListDirectory(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      entries,
		"pagination": pagination,
	})
}

// SeedAdmin creates the admin account from the configured secrets.
func (h *Handler) SeedAdmin(c *gin.Context) {
	admin, created, err := h.service.SeedAdmin(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"message": "Admin user already exists",
			"email":   admin.Email,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Admin user created successfully",
		"email":       admin.Email,
		"communityId": admin.CommunityID,
	})
}

// CheckAdmin reports whether the configured admin account exists.
func (h *Handler) CheckAdmin(c *gin.Context) {
	exists, err := h.service.AdminExists(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
