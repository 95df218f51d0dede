package handlers

import (
	"net/http"

	"pilateshub/middleware"
	"pilateshub/models"
	"pilateshub/services/account"
	"pilateshub/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// StorageHandler accepts certification documents and studio images.
type StorageHandler struct {
	StorageSvc storage.StorageService
	Accounts   account.AccountService
	Logger     *zap.Logger
}

func NewStorageHandler(svc storage.StorageService, accounts account.AccountService, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{StorageSvc: svc, Accounts: accounts, Logger: logger}
}

// UploadFileHandler handles POST /api/uploads/:bucket with a multipart "file" field.
// Certification uploads are attached to the instructor's account.
func (h *StorageHandler) UploadFileHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	if !storage.ValidBucket(bucket) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'certifications' and 'studio-images'"})
		return
	}
	role := middleware.CurrentRole(c)
	if (bucket == storage.BucketCertifications && role != models.RoleInstructor) ||
		(bucket == storage.BucketStudioImages && role != models.RoleStudio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed for this account type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds 10MB"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file", "detail": err.Error()})
		return
	}
	defer file.Close()

	ownerID := middleware.CurrentAccountID(c)
	stored, err := h.StorageSvc.UploadFile(c.Request.Context(), bucket, ownerID, file)
	if err != nil {
		respondError(c, h.Logger, err, "Failed to upload file")
		return
	}
	if bucket == storage.BucketCertifications {
		if err := h.Accounts.AddCertification(c.Request.Context(), ownerID, stored.URL); err != nil {
			if derr := h.StorageSvc.DeleteFile(c.Request.Context(), stored.PublicID); derr != nil {
				h.Logger.Warn("failed to remove orphaned certification upload",
					zap.String("publicID", stored.PublicID), zap.Error(derr))
			}
			respondError(c, h.Logger, err, "Failed to attach certification")
			return
		}
	}
	c.JSON(http.StatusCreated, stored)
}
