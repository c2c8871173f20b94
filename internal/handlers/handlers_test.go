package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudvault/backend/internal/dto"
	"github.com/cloudvault/backend/internal/handlers"
	"github.com/cloudvault/backend/internal/models"
	"github.com/cloudvault/backend/internal/routes"
	"github.com/cloudvault/backend/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubVerifier struct {
	claims *services.IdentityClaims
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*services.IdentityClaims, error) {
	if s.claims == nil {
		return nil, errors.New("invalid token")
	}
	return s.claims, nil
}

type memBlobStore struct {
	objects map[string][]byte
}

func (m *memBlobStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) PublicURL(key string) string {
	return "https://cdn.example.com/media/" + key
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.APIToken{},
		&models.Address{},
		&models.UploadedFile{},
	))

	authService := services.NewAuthService(db, &stubVerifier{})
	fileService := services.NewFileService(db, &memBlobStore{objects: make(map[string][]byte)})
	addressService := services.NewAddressService(db)
	statsService := services.NewStatsService(db)

	app := fiber.New()
	routes.Setup(app,
		authService,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(authService),
		handlers.NewFileHandler(fileService),
		handlers.NewAddressHandler(addressService),
		handlers.NewStatsHandler(statsService),
		handlers.NewHealthHandler(),
	)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path, token string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerUser(t *testing.T, app *fiber.App, username, email string) string {
	t.Helper()

	resp := postJSON(t, app, "/api/register", "", map[string]string{
		"username":  username,
		"email":     email,
		"password":  "hunter2hunter2",
		"password2": "hunter2hunter2",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.AuthResponse](t, resp).Token
}

func TestRegisterPasswordMismatch(t *testing.T) {
	app, db := newTestApp(t)

	resp := postJSON(t, app, "/api/register", "", map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "hunter2hunter2",
		"password2": "different-password",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, body.Fields, "password2")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 0, count, "no user row on validation failure")
}

func TestRegisterThenLoginSameToken(t *testing.T) {
	app, _ := newTestApp(t)

	token := registerUser(t, app, "alice", "alice@example.com")
	require.NotEmpty(t, token)

	resp := postJSON(t, app, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "hunter2hunter2",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, token, decode[dto.AuthResponse](t, resp).Token)
}

func TestLoginBadCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "alice", "alice@example.com")

	resp := postJSON(t, app, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/files", "/api/addresses", "/api/dashboard-stats", "/api/profile"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestFileUploadLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "alice", "alice@example.com")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	uploaded := decode[dto.FileResponse](t, resp)
	assert.Equal(t, "report.pdf", uploaded.Filename)
	assert.Equal(t, models.FileTypePDF, uploaded.FileType)
	assert.NotEmpty(t, uploaded.FileURL)

	listReq := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	listReq.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	listResp, err := app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)
	assert.Len(t, decode[[]dto.FileResponse](t, listResp), 1)

	statsReq := httptest.NewRequest(http.MethodGet, "/api/dashboard-stats", nil)
	statsReq.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	statsResp, err := app.Test(statsReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, statsResp.StatusCode)

	stats := decode[dto.DashboardStatsResponse](t, statsResp)
	assert.EqualValues(t, 1, stats.TotalFiles)
	assert.EqualValues(t, 1, stats.FileTypes["pdf"])

	delReq := httptest.NewRequest(http.MethodDelete, "/api/files/"+uploaded.ID.String(), nil)
	delReq.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	delResp, err := app.Test(delReq)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, delResp.StatusCode)
}

func TestUploadMissingFileField(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "alice", "alice@example.com")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("file_type", "pdf"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddressCrossUserIsNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	aliceToken := registerUser(t, app, "alice", "alice@example.com")
	malloryToken := registerUser(t, app, "mallory", "mallory@example.com")

	resp := postJSON(t, app, "/api/addresses", aliceToken, map[string]any{
		"street": "1 Main St", "city": "Springfield", "state": "IL",
		"postal_code": "62701", "is_default": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.AddressResponse](t, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/addresses/"+created.ID.String(), nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+malloryToken)
	crossResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, crossResp.StatusCode, "ownership mismatch surfaces as 404")
}

func TestProfileUpdateKeepsEmail(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "alice", "alice@example.com")

	body, err := json.Marshal(map[string]string{"first_name": "Alice", "phone_number": "5551234"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/users/me", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	user := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "5551234", user.PhoneNumber)
	assert.Equal(t, "alice@example.com", user.Email)
}
