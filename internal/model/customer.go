package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a storefront customer
type Customer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	FirstName  string         `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName   string         `json:"last_name" gorm:"type:varchar(50)"`
	Email      string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone      string         `json:"phone" gorm:"type:varchar(20)"`
	Address    string         `json:"address" gorm:"type:varchar(500)"`
	City       string         `json:"city" gorm:"type:varchar(100)"`
	PostalCode string         `json:"postal_code" gorm:"type:varchar(20)"`
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	Orders     []Order        `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
