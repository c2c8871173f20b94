package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cloudvault/backend/internal/auth"
	"github.com/cloudvault/backend/internal/models"
	"github.com/cloudvault/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrUploadFailed = errors.New("file upload failed")
)

type FileService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewFileService(db *gorm.DB, blobs storage.BlobStore) *FileService {
	return &FileService{db: db, blobs: blobs}
}

// Upload writes the blob first, persists the record, then patches the
// public URL in a follow-up update so the save path has no side effects.
// A blob-write failure leaves no partial record behind.
func (s *FileService) Upload(ctx context.Context, userID uuid.UUID, filename, declaredType string, reader io.Reader, size int64, contentType string) (*models.UploadedFile, error) {
	fileType := declaredType
	if !models.ValidFileType(fileType) {
		fileType = models.InferFileType(filename)
	}

	key := BuildStorageKey(userID, filename)

	if err := s.blobs.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, err)
	}

	file := models.UploadedFile{
		ID:         uuid.New(),
		UserID:     userID,
		StorageKey: key,
		Filename:   filepath.Base(filename),
		FileType:   fileType,
		FileSize:   size,
		UploadDate: time.Now().UTC(),
	}

	if err := s.db.Create(&file).Error; err != nil {
		// The blob is already durable; try not to leak it.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			slog.Error("failed to clean up blob after record create failure",
				"key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	url := s.blobs.PublicURL(key)
	if err := s.db.Model(&models.UploadedFile{}).Where("id = ?", file.ID).
		Update("file_url", url).Error; err != nil {
		slog.Error("failed to patch file URL", "file_id", file.ID, "error", err)
	} else {
		file.FileURL = url
	}

	return &file, nil
}

func (s *FileService) List(userID uuid.UUID) ([]models.UploadedFile, error) {
	var files []models.UploadedFile
	if err := s.db.Scopes(auth.OwnedBy(userID)).
		Order("upload_date DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func (s *FileService) Get(userID, fileID uuid.UUID) (*models.UploadedFile, error) {
	var file models.UploadedFile
	if err := s.db.Scopes(auth.OwnedBy(userID)).First(&file, "id = ?", fileID).Error; err != nil {
		return nil, ErrFileNotFound
	}
	return &file, nil
}

// Delete removes the blob best-effort and the row unconditionally. A failed
// blob delete is logged as a leak, never a reason to keep the record.
func (s *FileService) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	var file models.UploadedFile
	if err := s.db.Scopes(auth.OwnedBy(userID)).First(&file, "id = ?", fileID).Error; err != nil {
		return ErrFileNotFound
	}

	if err := s.blobs.Delete(ctx, file.StorageKey); err != nil {
		slog.Error("failed to delete blob, leaking object",
			"key", file.StorageKey, "file_id", file.ID, "error", err)
	}

	if err := s.db.Delete(&file).Error; err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}

// BuildStorageKey generates a collision-resistant object key under the
// user's namespace. The caller-supplied name contributes only its
// extension; the display name is never part of the key.
func BuildStorageKey(userID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("user_%s/%s%s", userID, uuid.New(), ext)
}
