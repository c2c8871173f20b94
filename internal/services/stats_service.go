package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudvault/backend/internal/auth"
	"github.com/cloudvault/backend/internal/dto"
	"github.com/cloudvault/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// DashboardStats computes on-demand statistics over one user's files.
// Bounded by a single user's file set; nothing is cached.
func (s *StatsService) DashboardStats(userID uuid.UUID) (*dto.DashboardStatsResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var totalFiles int64
	if err := s.db.Model(&models.UploadedFile{}).
		Scopes(auth.OwnedBy(userID)).Count(&totalFiles).Error; err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	var totalSize int64
	if err := s.db.Model(&models.UploadedFile{}).
		Scopes(auth.OwnedBy(userID)).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&totalSize).Error; err != nil {
		return nil, fmt.Errorf("failed to sum file sizes: %w", err)
	}

	thirtyDaysAgo := time.Now().UTC().AddDate(0, 0, -30)
	var recentFiles int64
	if err := s.db.Model(&models.UploadedFile{}).
		Scopes(auth.OwnedBy(userID)).
		Where("upload_date >= ?", thirtyDaysAgo).
		Count(&recentFiles).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent files: %w", err)
	}

	var filenames []string
	if err := s.db.Model(&models.UploadedFile{}).
		Scopes(auth.OwnedBy(userID)).
		Pluck("filename", &filenames).Error; err != nil {
		return nil, fmt.Errorf("failed to load filenames: %w", err)
	}

	fileTypes := make(map[string]int64)
	for _, name := range filenames {
		fileTypes[extensionOf(name)]++
	}

	return &dto.DashboardStatsResponse{
		TotalFiles:   totalFiles,
		TotalSize:    totalSize,
		RecentFiles:  recentFiles,
		FileTypes:    fileTypes,
		FilesPerUser: map[string]int64{user.Username: totalFiles},
	}, nil
}

// extensionOf returns the lower-cased extension without the dot, or
// "unknown" for names with no dot.
func extensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "unknown"
	}
	return strings.ToLower(filename[idx+1:])
}
