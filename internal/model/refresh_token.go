package model

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken is a stored, revocable refresh token. Tokens are rotated on
// every use; a revoked token is never reactivated.
type RefreshToken struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Token     string     `json:"-" gorm:"type:varchar(100);uniqueIndex;not null"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	User      *User      `json:"-" gorm:"foreignKey:UserID"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate hook will be called before creating a new RefreshToken record
func (t *RefreshToken) BeforeCreate(tx *gorm.DB) (err error) {
	if t.Token == "" {
		t.Token = generateSecureToken()
	}
	return nil
}

// IsExpired checks if the token is expired
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsValid checks if the token is valid (not expired and not revoked)
func (t *RefreshToken) IsValid() bool {
	return t.IsActive && !t.IsExpired()
}
