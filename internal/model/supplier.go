package model

import (
	"time"

	"gorm.io/gorm"
)

// Supplier represents the supplier model stored in the database
type Supplier struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CompanyName   string         `json:"company_name" gorm:"type:varchar(200);index;not null"`
	ContactPerson string         `json:"contact_person" gorm:"type:varchar(100)"`
	Email         string         `json:"email" gorm:"type:varchar(200)"`
	Phone         string         `json:"phone" gorm:"type:varchar(20)"`
	Address       string         `json:"address" gorm:"type:varchar(500)"`
	City          string         `json:"city" gorm:"type:varchar(100)"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	Products      []Product      `json:"products,omitempty" gorm:"foreignKey:SupplierID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
