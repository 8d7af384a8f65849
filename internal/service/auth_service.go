package service

import (
	"errors"
	"fmt"
	"time"

	"shopapi/internal/model"
	"shopapi/pkg/jwtutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService registers and authenticates users and manages the access /
// refresh token pair. Refresh tokens are stored server-side and rotated on
// every use.
type AuthService struct {
	db         *gorm.DB
	jwt        *jwtutil.JWTUtil
	refreshTTL time.Duration
	log        *zap.Logger
}

// NewAuthService creates an auth service on top of the given store
func NewAuthService(db *gorm.DB, jwt *jwtutil.JWTUtil, refreshTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{db: db, jwt: jwt, refreshTTL: refreshTTL, log: log}
}

// TokenPair is an issued access token plus its revocable refresh token
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RegisterInput is the request to create a user account
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a user with a hashed password and issues a token pair
func (s *AuthService) Register(in RegisterInput) (*model.User, *TokenPair, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	var existing model.User
	err := s.db.Where("username = ? OR email = ?", in.Username, in.Email).First(&existing).Error
	if err == nil {
		return nil, nil, ErrDuplicateUser
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         "User",
		IsActive:     true,
	}
	// The uniqueness pre-check races with concurrent registrations; the
	// unique indexes on username and email backstop it.
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrDuplicateUser
		}
		return nil, nil, err
	}

	pair, err := s.issueTokens(s.db, &user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("User registered", zap.String("username", user.Username), zap.String("email", user.Email))
	return &user, pair, nil
}

// Login authenticates by username or email and issues a token pair
func (s *AuthService) Login(usernameOrEmail, password string) (*model.User, *TokenPair, error) {
	var user model.User
	err := s.db.Where("(username = ? OR email = ?) AND is_active = ?",
		usernameOrEmail, usernameOrEmail, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(s.db, &user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("User logged in", zap.String("username", user.Username))
	return &user, pair, nil
}

// Refresh rotates the refresh token: the presented token is deactivated and a
// new pair is issued in the same transaction, so a stolen token cannot be
// replayed after its first legitimate use.
func (s *AuthService) Refresh(refreshToken string) (*model.User, *TokenPair, error) {
	var user model.User
	var pair *TokenPair

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored model.RefreshToken
		err := tx.Preload("User").Where("token = ? AND is_active = ?", refreshToken, true).
			First(&stored).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return err
		}
		if stored.IsExpired() || stored.User == nil || !stored.User.IsActive {
			return ErrInvalidOrExpiredToken
		}

		now := time.Now()
		if err := tx.Model(&stored).Updates(map[string]interface{}{
			"is_active":  false,
			"revoked_at": now,
		}).Error; err != nil {
			return err
		}

		user = *stored.User
		pair, err = s.issueTokens(tx, &user)
		return err
	})
	if err != nil {
		return nil, nil, wrapTxErr(err)
	}

	s.log.Info("Refresh token rotated", zap.Uint("user_id", user.ID))
	return &user, pair, nil
}

// Logout deactivates the matching refresh token. It is idempotent: a missing
// or already inactive token is still a successful logout. The returned flag
// reports whether an active token was actually revoked by this call.
func (s *AuthService) Logout(refreshToken string) (bool, error) {
	result := s.db.Model(&model.RefreshToken{}).
		Where("token = ? AND is_active = ?", refreshToken, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"revoked_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetUserByID returns the active user with the given ID
func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	err := s.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &user, nil
}

// issueTokens signs an access token and stores a new refresh token through
// the given store handle
func (s *AuthService) issueTokens(tx *gorm.DB, user *model.User) (*TokenPair, error) {
	access, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	stored := model.RefreshToken{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
		IsActive:  true,
	}
	if err := tx.Create(&stored).Error; err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: stored.Token,
		ExpiresAt:    expiresAt,
	}, nil
}
