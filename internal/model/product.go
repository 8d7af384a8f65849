package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product master data
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	Stock       int            `json:"stock" gorm:"default:0"`
	ImageURL    string         `json:"image_url" gorm:"type:varchar(500)"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	SupplierID  uint           `json:"supplier_id" gorm:"index"`
	Supplier    *Supplier      `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Categories  []Category     `json:"categories,omitempty" gorm:"many2many:product_categories"`
	Reviews     []Review       `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
