package dto

import (
	"time"

	"github.com/google/uuid"
)

type FileResponse struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	FileURL    string    `json:"file_url"`
	UploadDate time.Time `json:"upload_date"`
}

type DashboardStatsResponse struct {
	TotalFiles   int64            `json:"total_files"`
	TotalSize    int64            `json:"total_size"`
	RecentFiles  int64            `json:"recent_files"`
	FileTypes    map[string]int64 `json:"file_types"`
	FilesPerUser map[string]int64 `json:"files_per_user"`
}
