package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudvault/backend/internal/dto"
	"github.com/cloudvault/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already registered")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidIdentityToken = errors.New("invalid or expired identity token")
	ErrUserNotFound         = errors.New("user not found")
)

type AuthService struct {
	db       *gorm.DB
	verifier IdentityVerifier
}

func NewAuthService(db *gorm.DB, verifier IdentityVerifier) *AuthService {
	return &AuthService{db: db, verifier: verifier}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var existing models.User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		AuthProvider: "local",
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(&user)
}

// Login checks local credentials first and falls back to the identity
// provider when a token was supplied. Both paths failing yields
// ErrInvalidCredentials, never a raw verifier error.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Username != "" && req.Password != "" {
		resp, err := s.loginWithPassword(req.Username, req.Password)
		if err == nil {
			return resp, nil
		}
		if req.IdentityToken == "" {
			return nil, err
		}
	}

	if req.IdentityToken != "" {
		return s.LoginWithIdentityToken(ctx, req.IdentityToken)
	}

	return nil, ErrInvalidCredentials
}

func (s *AuthService) loginWithPassword(username, password string) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.HasUsablePassword() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(&user)
}

// LoginWithIdentityToken verifies the token with the identity provider and
// maps it to a local user, creating one on first sight.
func (s *AuthService) LoginWithIdentityToken(ctx context.Context, identityToken string) (*dto.AuthResponse, error) {
	claims, err := s.verifier.Verify(ctx, identityToken)
	if err != nil {
		slog.Error("identity token verification failed", "error", err)
		return nil, ErrInvalidIdentityToken
	}

	if claims.Email == "" {
		return nil, ErrInvalidIdentityToken
	}

	user, err := s.getOrCreateIdentityUser(claims)
	if err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

func (s *AuthService) getOrCreateIdentityUser(claims *IdentityClaims) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", claims.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	firstName, lastName := splitDisplayName(claims.Name)

	user = models.User{
		ID:           uuid.New(),
		Username:     s.uniqueUsername(claims.Email),
		Email:        claims.Email,
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  claims.PhoneNumber,
		PasswordHash: "", // identity provider is the sole authentication factor
		AuthProvider: "firebase",
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create identity user: %w", err)
	}

	return &user, nil
}

// uniqueUsername derives a username from the email local part, appending a
// numeric suffix until no collision remains (bob, bob1, bob2, ...).
func (s *AuthService) uniqueUsername(email string) string {
	base := strings.Split(email, "@")[0]
	candidate := base
	for i := 1; s.usernameExists(candidate); i++ {
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return candidate
}

func (s *AuthService) usernameExists(username string) bool {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

// IssueToken returns the user's opaque bearer token, creating it on first
// call. Idempotent; rotation is not implemented.
func (s *AuthService) IssueToken(userID uuid.UUID) (string, error) {
	var token models.APIToken
	err := s.db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}

	token = models.APIToken{
		ID:     uuid.New(),
		UserID: userID,
		Key:    key,
	}
	if err := s.db.Create(&token).Error; err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return key, nil
}

// AuthenticateToken resolves an opaque bearer key to its user.
func (s *AuthService) AuthenticateToken(key string) (*models.User, error) {
	var token models.APIToken
	if err := s.db.Where("key = ?", key).First(&token).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", token.UserID).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update. Email is immutable.
func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if req.Username != nil && *req.Username != user.Username {
		if s.usernameExists(*req.Username) {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	key, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: key,
		User:  UserToResponse(user),
	}, nil
}

// UserToResponse maps a user record to its API representation.
func UserToResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
	}
}

func splitDisplayName(name string) (string, string) {
	if name == "" {
		return "", ""
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// generateTokenKey returns a 40-char hex key from 20 random bytes.
func generateTokenKey() (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
