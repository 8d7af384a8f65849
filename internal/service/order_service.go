package service

import (
	"errors"
	"fmt"
	"time"

	"shopapi/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService coordinates order creation, cancellation and updates. Every
// multi-row mutation runs inside a single transaction: the handle passed to
// the transaction callback is threaded through all store calls and committed
// or rolled back exactly once at the boundary.
type OrderService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewOrderService creates an order service on top of the given store
func NewOrderService(db *gorm.DB, log *zap.Logger) *OrderService {
	return &OrderService{db: db, log: log}
}

// CreateOrderInput is the request to create an order
type CreateOrderInput struct {
	CustomerID      uint             `json:"customer_id"`
	ShippingCost    float64          `json:"shipping_cost"`
	ShippingAddress string           `json:"shipping_address"`
	Notes           string           `json:"notes"`
	Items           []OrderItemInput `json:"items"`
}

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrder creates an order with its items atomically. Unit prices are
// snapshotted from the products' current prices, stock is decremented per
// line, and totals are computed by the pricing calculator. Any failure rolls
// back every write.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", ErrInvalidInput, item.ProductID)
		}
	}
	if in.ShippingCost < 0 {
		return nil, fmt.Errorf("%w: shipping cost must not be negative", ErrInvalidInput)
	}

	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer model.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		now := time.Now()
		orderNumber, err := allocateOrderNumber(tx, now)
		if err != nil {
			return err
		}

		order = model.Order{
			OrderNumber:     orderNumber,
			CustomerID:      customer.ID,
			OrderDate:       now,
			ShippingCost:    in.ShippingCost,
			ShippingAddress: in.ShippingAddress,
			Notes:           in.Notes,
			Status:          model.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		lines := make([]PriceLine, 0, len(in.Items))
		for _, item := range in.Items {
			var product model.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
				}
				return err
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: product %d has %d in stock, %d requested",
					ErrInsufficientStock, product.ID, product.Stock, item.Quantity)
			}

			line := PriceLine{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			}
			orderItem := model.OrderItem{
				OrderID:    order.ID,
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: line.LineTotal(),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			if err := tx.Model(&product).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}

			lines = append(lines, line)
			order.Items = append(order.Items, orderItem)
		}

		totals, err := ComputeTotals(lines, in.ShippingCost)
		if err != nil {
			return err
		}
		order.TaxAmount = totals.Tax
		order.TotalAmount = totals.Total
		return tx.Model(&order).Updates(map[string]interface{}{
			"tax_amount":   totals.Tax,
			"total_amount": totals.Total,
		}).Error
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	s.log.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("customer_id", order.CustomerID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total_amount", order.TotalAmount))
	return &order, nil
}

// CancelOrder cancels a non-terminal order, restoring each line's quantity to
// the referenced product's stock in the same transaction.
func (s *OrderService) CancelOrder(id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status.IsTerminal() {
			return ErrAlreadyTerminal
		}

		for _, item := range order.Items {
			if err := tx.Model(&model.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		order.Status = model.OrderStatusCancelled
		return tx.Model(&order).Update("status", model.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	s.log.Info("Order cancelled", zap.Uint("order_id", order.ID), zap.String("order_number", order.OrderNumber))
	return &order, nil
}

// UpdateOrderStatus moves the order to the given status
func (s *OrderService) UpdateOrderStatus(id uint, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}

	var order model.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

// UpdateOrderInput carries the mutable order fields. Order number, customer
// and line items are immutable after creation.
type UpdateOrderInput struct {
	ShippingAddress *string `json:"shipping_address"`
	Notes           *string `json:"notes"`
}

// UpdateOrder mutates the order's shipping address and notes
func (s *OrderService) UpdateOrder(id uint, in UpdateOrderInput) (*model.Order, error) {
	var order model.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.ShippingAddress != nil {
		updates["shipping_address"] = *in.ShippingAddress
		order.ShippingAddress = *in.ShippingAddress
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
		order.Notes = *in.Notes
	}
	if len(updates) == 0 {
		return &order, nil
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns the order with its customer and line items
func (s *OrderService) GetOrder(id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns all orders, most recent first
func (s *OrderService) ListOrders() ([]model.Order, error) {
	var orders []model.Order
	err := s.db.Preload("Customer").Preload("Items").
		Order("order_date DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
