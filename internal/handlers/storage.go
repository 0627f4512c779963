package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/blob"
	"github.com/Debanjan110d/DevQnA/internal/models"
)

// defaultMaxFileSize applies to buckets without their own limit.
const defaultMaxFileSize = 10 << 20

// ObjectStore holds file contents. File metadata lives in the Store.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type StorageHandler struct {
	store   Store
	objects ObjectStore
	logger  *zap.Logger
}

func NewStorageHandler(s Store, objects ObjectStore, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{store: s, objects: objects, logger: logger}
}

// UploadFile handles POST /api/storage/buckets/:bucketId/files (PROTECTED).
// The multipart field is "file".
func (h *StorageHandler) UploadFile(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	ctx := c.Request.Context()
	bucket, err := h.store.GetBucket(ctx, c.Param("bucketId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to upload file")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	maxSize := bucket.MaximumFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	if header.Size > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", maxSize)})
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !bucket.Allows(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file extension %q is not allowed", ext)})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	if int64(len(data)) > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", maxSize)})
		return
	}

	mime := mimetype.Detect(data)
	if bucket.ID == models.QuestionAttachmentBucket && !strings.HasPrefix(mime.String(), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attachment must be an image"})
		return
	}

	file := &models.File{
		ID:           uuid.NewString(),
		BucketID:     bucket.ID,
		Name:         filepath.Base(header.Filename),
		MimeType:     mime.String(),
		SizeOriginal: int64(len(data)),
	}

	key := blob.Key(bucket.ID, file.ID)
	if err := h.objects.Put(ctx, key, data, file.MimeType); err != nil {
		respondError(c, h.logger, err, "Failed to store file")
		return
	}

	if err := h.store.CreateFile(ctx, file); err != nil {
		if delErr := h.objects.Delete(ctx, key); delErr != nil {
			h.logger.Warn("Failed to remove orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		respondError(c, h.logger, err, "Failed to store file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"file": file,
		"url":  h.store.FileURL(bucket.ID, file.ID),
	})
}

// ViewFile handles GET /api/storage/buckets/:bucketId/files/:fileId/view
func (h *StorageHandler) ViewFile(c *gin.Context) {
	ctx := c.Request.Context()
	file, err := h.store.GetFile(ctx, c.Param("bucketId"), c.Param("fileId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch file")
		return
	}

	key := blob.Key(file.BucketID, file.ID)
	data, err := h.objects.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		h.logger.Error("File content missing", zap.String("key", key))
		c.JSON(http.StatusNotFound, gin.H{"error": "file content not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch file")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, file.MimeType, data)
}
