package model

import (
	"time"
)

// Review is a customer rating for a product. A customer may review a product
// at most once; unapproved reviews are excluded from public averages.
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_product_customer"`
	CustomerID uint      `json:"customer_id" gorm:"not null;uniqueIndex:idx_product_customer"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Customer   *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	IsApproved bool      `json:"is_approved" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
