package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// File type categories stored on UploadedFile.FileType.
const (
	FileTypePDF   = "pdf"
	FileTypeExcel = "excel"
	FileTypeTxt   = "txt"
	FileTypeDocx  = "docx"
	FileTypeOther = "other"
)

var fileTypes = []string{FileTypePDF, FileTypeExcel, FileTypeTxt, FileTypeDocx, FileTypeOther}

// UploadedFile records a blob stored in object storage. StorageKey is the
// generated object key; Filename is the caller-supplied display name only.
// Rows are hard-deleted together with their blob.
type UploadedFile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StorageKey string    `gorm:"size:512;not null;uniqueIndex" json:"-"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	FileType   string    `gorm:"size:10;default:'other'" json:"file_type"`
	FileSize   int64     `gorm:"default:0" json:"file_size"`
	FileURL    string    `gorm:"size:1000" json:"file_url"`
	UploadDate time.Time `gorm:"index" json:"upload_date"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
}

// ValidFileType reports whether t is one of the known categories.
func ValidFileType(t string) bool {
	for _, ft := range fileTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// InferFileType maps a filename extension to a file type category.
func InferFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FileTypePDF
	case ".xlsx", ".xls":
		return FileTypeExcel
	case ".txt":
		return FileTypeTxt
	case ".doc", ".docx":
		return FileTypeDocx
	default:
		return FileTypeOther
	}
}
