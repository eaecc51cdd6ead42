package Controllers

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Chidinma123456/AvaBuddie/Storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadController serves chat image uploads against the object store. Keys
// follow {profileID}/{sessionID}/{filename}; the leading segment is the
// owner and every read or delete matches it against the caller.
type UploadController struct {
	Store Storage.Service
}

func NewUploadController(store Storage.Service) *UploadController {
	return &UploadController{Store: store}
}

func (ctrl *UploadController) UploadChatImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(Storage.MaxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to parse form"})
		return
	}

	sessionIDValue := c.PostForm("session_id")
	sessionID, err := strconv.ParseUint(sessionIDValue, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	session, err := sessionForCaller(c, uint(sessionID))
	if err != nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to retrieve file from form data"})
		return
	}

	// Content type is captured here at upload time and threaded through as
	// metadata, nothing downstream has to guess it.
	contentType := fileHeader.Header.Get("Content-Type")
	if err := Storage.ValidateImage(contentType, fileHeader.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open the file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, Storage.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read the file"})
		return
	}
	if int64(len(data)) > Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": Storage.ErrTooLarge.Error()})
		return
	}

	key := fmt.Sprintf("%d/%d/%s%s", session.PatientID, session.ID,
		uuid.NewString(), filepath.Ext(fileHeader.Filename))

	url, err := ctrl.Store.Put(c.Request.Context(), key, contentType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save the file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "File uploaded successfully",
		"key":          key,
		"url":          url,
		"content_type": contentType,
	})
}

func (ctrl *UploadController) FetchChatImages(c *gin.Context) {
	var input struct {
		SessionID uint `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := sessionForCaller(c, input.SessionID)
	if err != nil {
		return
	}

	objects, err := ctrl.Store.List(c.Request.Context(), fmt.Sprintf("%d/%d/", session.PatientID, session.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, objects)
}

func (ctrl *UploadController) DeleteChatImage(c *gin.Context) {
	var input struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	profile, err := currentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	// Keys are stored in canonical form; anything that cleans differently
	// (.., ./, leading slash) is not a key we ever issued.
	if input.Key != path.Clean(input.Key) || strings.HasPrefix(input.Key, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key"})
		return
	}

	// The first path segment is the owning profile.
	owner := strings.SplitN(input.Key, "/", 2)[0]
	if owner != strconv.FormatUint(uint64(profile.ID), 10) {
		c.JSON(http.StatusForbidden, gin.H{"error": "File belongs to another user"})
		return
	}

	if err := ctrl.Store.Delete(c.Request.Context(), input.Key); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to delete file: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
