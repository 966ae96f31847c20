package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"netvault/internal/config"
	"netvault/internal/models"
	"netvault/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *AuditService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, audit *AuditService) *AuthService {
	return &AuthService{db: db, cfg: cfg, audit: audit}
}

// HashPassword hashes a password using bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash.
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Register creates a new account. Field failures are collected into a single
// ValidationErrors batch; duplicate username wins over duplicate email when
// both collide.
func (s *AuthService) Register(username, email, password string, meta RequestMeta) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	fieldErrors := ValidationErrors{}
	if ok, msg := validation.ValidateUsername(username); !ok {
		fieldErrors["username"] = msg
	}
	if ok, msg := validation.ValidateEmail(email); !ok {
		fieldErrors["email"] = msg
	}
	if ok, msg := validation.ValidatePassword(password); !ok {
		fieldErrors["password"] = msg
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		if existing.Username == username {
			return nil, ErrUsernameExists
		}
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	s.audit.Log(user.ID, "register", "user", &user.ID, nil, meta)

	return user, nil
}

// Login matches the identifier against username or lower-cased email and
// verifies the password. A wrong password on an existing account leaves a
// login_failed audit fact, but the caller still gets the generic
// invalid-credentials error.
func (s *AuthService) Login(identifier, password string, meta RequestMeta) (*models.User, string, string, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.db.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		s.audit.Log(user.ID, "login_failed", "user", &user.ID,
			map[string]any{"reason": "invalid_password"}, meta)
		return nil, "", "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", "", ErrAccountInactive
	}

	accessToken, err := s.GenerateToken(user.ID, TokenTypeAccess)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := s.GenerateToken(user.ID, TokenTypeRefresh)
	if err != nil {
		return nil, "", "", err
	}

	s.audit.Log(user.ID, "login", "user", &user.ID, nil, meta)

	return &user, accessToken, refreshToken, nil
}

// Refresh verifies a refresh-class token, re-derives the user and issues a
// new access token. Missing or inactive users are rejected.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	userID, err := s.VerifyToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrInvalidToken
	}

	return s.GenerateToken(user.ID, TokenTypeAccess)
}

// GenerateToken issues a signed token of the given class. The identity claim
// is the user id serialized as a string.
func (s *AuthService) GenerateToken(userID uint, tokenType string) (string, error) {
	expiresIn := s.tokenLifetime(tokenType)
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"type": tokenType,
		"exp":  now.Add(expiresIn).Unix(),
		"iat":  now.Unix(),
		"iss":  s.cfg.JWT.Issuer,
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

// VerifyToken checks signature, expiry and token class, and extracts the
// embedded user id.
func (s *AuthService) VerifyToken(tokenString, wantType string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return 0, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}

	return uint(userID), nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IsAdmin loads the user and checks the admin flag.
func (s *AuthService) IsAdmin(userID uint) (bool, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// LogLogout records a logout audit fact. There is no server-side token
// invalidation; clients discard their tokens.
func (s *AuthService) LogLogout(userID uint, meta RequestMeta) {
	s.audit.Log(userID, "logout", "user", &userID, nil, meta)
}

func (s *AuthService) tokenLifetime(tokenType string) time.Duration {
	if tokenType == TokenTypeRefresh {
		if d, err := time.ParseDuration(s.cfg.JWT.RefreshExpiresIn); err == nil {
			return d
		}
		return 30 * 24 * time.Hour
	}
	if d, err := time.ParseDuration(s.cfg.JWT.AccessExpiresIn); err == nil {
		return d
	}
	return time.Hour
}
