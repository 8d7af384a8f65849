package service

import (
	"strings"
	"testing"

	"shopapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Supplier{},
		&model.Category{},
		&model.Product{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newOrderFixture(t *testing.T) (*OrderService, *gorm.DB, *model.Customer, *model.Product) {
	t.Helper()
	db := setupTestDB(t)

	customer := &model.Customer{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		IsActive:  true,
	}
	require.NoError(t, db.Create(customer).Error)

	product := &model.Product{
		Name:     "Keyboard",
		Price:    50,
		Stock:    20,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)

	return NewOrderService(db, zap.NewNop()), db, customer, product
}

func TestCreateOrder(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID:      customer.ID,
		ShippingCost:    10,
		ShippingAddress: "1 Main St",
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 10.0, order.TaxAmount)
	assert.Equal(t, 120.0, order.TotalAmount)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))

	// Exactly one order row and one item row persisted
	var orderCount, itemCount int64
	db.Model(&model.Order{}).Count(&orderCount)
	db.Model(&model.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), orderCount)
	assert.Equal(t, int64(1), itemCount)

	// Unit price snapshotted, line total computed
	var item model.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, 50.0, item.UnitPrice)
	assert.Equal(t, 100.0, item.TotalPrice)
	assert.Equal(t, 2, item.Quantity)

	// Stock decremented inside the same transaction
	var updated model.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.Equal(t, 18, updated.Stock)
}

func TestCreateOrderItemTotalsMatchSubtotal(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	second := &model.Product{Name: "Mouse", Price: 19.99, Stock: 5, IsActive: true}
	require.NoError(t, db.Create(second).Error)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID:   customer.ID,
		ShippingCost: 4.25,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: second.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	var items []model.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 2)

	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	totals, err := ComputeTotals([]PriceLine{
		{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
		{ProductID: second.ID, Quantity: 3, UnitPrice: second.Price},
	}, 4.25)
	require.NoError(t, err)
	assert.Equal(t, totals.Subtotal, subtotal)
	assert.Equal(t, totals.Total, order.TotalAmount)
	assert.Equal(t, totals.Tax, order.TaxAmount)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, _, customer, _ := newOrderFixture(t)

	_, err := svc.CreateOrder(CreateOrderInput{CustomerID: customer.ID})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	svc, _, customer, product := newOrderFixture(t)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrderCustomerNotFound(t *testing.T) {
	svc, _, _, product := newOrderFixture(t)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: 9999,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateOrderProductNotFoundRollsBack(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	// Nothing persisted, stock untouched
	var orderCount, itemCount int64
	db.Model(&model.Order{}).Count(&orderCount)
	db.Model(&model.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)

	var unchanged model.Product
	require.NoError(t, db.First(&unchanged, product.ID).Error)
	assert.Equal(t, 20, unchanged.Stock)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 21}},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var orderCount int64
	db.Model(&model.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
}

func TestOrderNumbersAreUnique(t *testing.T) {
	svc, _, customer, product := newOrderFixture(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		order, err := svc.CreateOrder(CreateOrderInput{
			CustomerID: customer.ID,
			Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.False(t, seen[order.OrderNumber], "duplicate order number %s", order.OrderNumber)
		seen[order.OrderNumber] = true
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	var afterCreate model.Product
	require.NoError(t, db.First(&afterCreate, product.ID).Error)
	require.Equal(t, 15, afterCreate.Stock)

	cancelled, err := svc.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	var afterCancel model.Product
	require.NoError(t, db.First(&afterCancel, product.ID).Error)
	assert.Equal(t, 20, afterCancel.Stock)
}

func TestCancelOrderNotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	_, err := svc.CancelOrder(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelTerminalOrderFails(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, model.OrderStatusDelivered)
	require.NoError(t, err)

	_, err = svc.CancelOrder(order.ID)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	// Rows unchanged: status stays Delivered, stock stays decremented
	var stored model.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, model.OrderStatusDelivered, stored.Status)

	var unchanged model.Product
	require.NoError(t, db.First(&unchanged, product.ID).Error)
	assert.Equal(t, 18, unchanged.Stock)

	// Cancelling an already cancelled order fails the same way
	other, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.CancelOrder(other.ID)
	require.NoError(t, err)
	_, err = svc.CancelOrder(other.ID)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestUpdateOrderStatusUnknownValue(t *testing.T) {
	svc, _, customer, product := newOrderFixture(t)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, model.OrderStatus("Lost"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateOrderMutableFieldsOnly(t *testing.T) {
	svc, db, customer, product := newOrderFixture(t)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID:      customer.ID,
		ShippingAddress: "1 Main St",
		Items:           []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	address := "2 Oak Ave"
	notes := "leave at the door"
	updated, err := svc.UpdateOrder(order.ID, UpdateOrderInput{
		ShippingAddress: &address,
		Notes:           &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "2 Oak Ave", updated.ShippingAddress)
	assert.Equal(t, "leave at the door", updated.Notes)

	// Immutable fields untouched
	var stored model.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
	assert.Equal(t, customer.ID, stored.CustomerID)
}

func TestGetOrderWithDetails(t *testing.T) {
	svc, _, customer, product := newOrderFixture(t)

	created, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	order, err := svc.GetOrder(created.ID)
	require.NoError(t, err)
	require.NotNil(t, order.Customer)
	assert.Equal(t, customer.Email, order.Customer.Email)
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, product.Name, order.Items[0].Product.Name)

	_, err = svc.GetOrder(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
