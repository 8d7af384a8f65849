package model

import "time"

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// IsValid reports whether s is one of the known order statuses
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether an order in this status can no longer change
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order represents a customer order. OrderNumber, CustomerID and the line
// items are immutable after creation.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	OrderNumber     string      `json:"order_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerID      uint        `json:"customer_id" gorm:"index;not null"`
	Customer        *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	OrderDate       time.Time   `json:"order_date"`
	TotalAmount     float64     `json:"total_amount"`
	TaxAmount       float64     `json:"tax_amount"`
	ShippingCost    float64     `json:"shipping_cost"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	ShippingAddress string      `json:"shipping_address" gorm:"type:varchar(500)"`
	Notes           string      `json:"notes" gorm:"type:varchar(1000)"`
	Items           []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a single order line. UnitPrice is snapshotted from the product
// at order creation and never recomputed.
type OrderItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"index;not null"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	UnitPrice  float64   `json:"unit_price" gorm:"not null"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}
