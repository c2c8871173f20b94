package services

import (
	"testing"
	"time"

	"github.com/cloudvault/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestFile(t *testing.T, db *gorm.DB, userID uuid.UUID, filename string, size int64, uploaded time.Time) {
	t.Helper()
	file := models.UploadedFile{
		ID:         uuid.New(),
		UserID:     userID,
		StorageKey: "user_" + userID.String() + "/" + uuid.NewString(),
		Filename:   filename,
		FileType:   models.InferFileType(filename),
		FileSize:   size,
		UploadDate: uploaded,
	}
	require.NoError(t, db.Create(&file).Error)
}

func TestDashboardStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db, "alice", "alice@example.com")

	stats, err := svc.DashboardStats(user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 0, stats.TotalFiles)
	assert.EqualValues(t, 0, stats.TotalSize)
	assert.EqualValues(t, 0, stats.RecentFiles)
	assert.Empty(t, stats.FileTypes)
	assert.Equal(t, map[string]int64{"alice": 0}, stats.FilesPerUser)
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	other := createTestUser(t, db, "bob", "bob@example.com")

	now := time.Now().UTC()
	createTestFile(t, db, user.ID, "report.pdf", 100, now)
	createTestFile(t, db, user.ID, "Summary.PDF", 50, now.AddDate(0, 0, -10))
	createTestFile(t, db, user.ID, "data.xlsx", 200, now.AddDate(0, 0, -45))
	createTestFile(t, db, user.ID, "README", 10, now)
	createTestFile(t, db, other.ID, "other.txt", 999, now)

	stats, err := svc.DashboardStats(user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalFiles)
	assert.EqualValues(t, 360, stats.TotalSize)
	assert.EqualValues(t, 3, stats.RecentFiles, "files older than 30 days are excluded")
	assert.Equal(t, map[string]int64{
		"pdf":     2,
		"xlsx":    1,
		"unknown": 1,
	}, stats.FileTypes)
	assert.Equal(t, map[string]int64{"alice": 4}, stats.FilesPerUser)
}

func TestDashboardStatsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)

	_, err := svc.DashboardStats(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
