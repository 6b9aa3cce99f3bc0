package document

import (
	"io"
	"net/http"
	"strconv"

	"docuvault/internal/errors"
	"docuvault/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for documents
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List returns every document owned by the caller, newest-updated first.
func (h *Handler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	documents, err := h.service.ListForOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// Create uploads a new document from a multipart form: file, name and an
// optional versionName.
func (h *Handler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	file, err := readFormFile(c)
	if err != nil {
		c.Error(err)
		return
	}
	name := c.PostForm("name")
	versionName := c.PostForm("versionName")

	document, err := h.service.Create(c.Request.Context(), claims.UserID, name, file, versionName)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document uploaded successfully",
		"document": document,
	})
}

// Show returns a single owned document.
func (h *Handler) Show(c *gin.Context) {
	claims := middleware.GetClaims(c)
	documentID, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	document, err := h.service.GetByID(c.Request.Context(), documentID, claims.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": document})
}

// Update appends a new version from a multipart form: file and an optional
// versionName used as the human label.
func (h *Handler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	documentID, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := readFormFile(c)
	if err != nil {
		c.Error(err)
		return
	}
	versionName := c.PostForm("versionName")

	document, err := h.service.AppendVersion(c.Request.Context(), documentID, claims.UserID, file, versionName)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document updated successfully",
		"document": document,
	})
}

// RevertRequest names the version to make current.
type RevertRequest struct {
	VersionID string `json:"versionId" binding:"required"`
}

// Revert moves the document's current pointer to an existing version.
func (h *Handler) Revert(c *gin.Context) {
	claims := middleware.GetClaims(c)
	documentID, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.Validation("Version ID is required", err))
		return
	}

	version, err := h.service.Revert(c.Request.Context(), documentID, claims.UserID, req.VersionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Document reverted successfully",
		"currentVersion": version,
	})
}

// Delete removes the document after a best-effort blob cleanup.
func (h *Handler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	documentID, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if _, err := h.service.Delete(c.Request.Context(), documentID, claims.UserID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// ListVersions returns the document's version history, newest first.
func (h *Handler) ListVersions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	documentID, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	listing, err := h.service.ListVersions(c.Request.Context(), documentID, claims.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func parseID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.Validation("Invalid document id", err)
	}
	return id, nil
}

func readFormFile(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.Validation("File is required", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Validation("File is required", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return data, nil
}
