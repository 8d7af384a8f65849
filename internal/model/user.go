package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that can authenticate against the API
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName    string         `json:"first_name" gorm:"type:varchar(50)"`
	LastName     string         `json:"last_name" gorm:"type:varchar(50)"`
	Role         string         `json:"role" gorm:"type:varchar(50);default:'User'"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
