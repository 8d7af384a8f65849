package model

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a product category. Products and categories are linked
// through the product_categories join table.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string         `json:"description" gorm:"type:varchar(500)"`
	Products    []Product      `json:"products,omitempty" gorm:"many2many:product_categories"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
