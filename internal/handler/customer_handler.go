package handler

import (
	"net/http"

	"shopapi/internal/model"
	"shopapi/pkg/database"
	"shopapi/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	IsActive   bool   `json:"is_active"`
}

// customerSummary augments a customer with order statistics
type customerSummary struct {
	model.Customer
	TotalOrders int64   `json:"total_orders"`
	TotalSpent  float64 `json:"total_spent"`
}

// ListCustomers handles retrieving all customers with order statistics
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)

	var customers []model.Customer
	db := database.GetDB()
	if result := db.Find(&customers); result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve customers"})
	}

	summaries := make([]customerSummary, 0, len(customers))
	for _, customer := range customers {
		var stats struct {
			TotalOrders int64
			TotalSpent  float64
		}
		db.Model(&model.Order{}).Where("customer_id = ?", customer.ID).
			Select("COUNT(*) AS total_orders, COALESCE(SUM(total_amount), 0) AS total_spent").
			Scan(&stats)
		summaries = append(summaries, customerSummary{
			Customer:    customer,
			TotalOrders: stats.TotalOrders,
			TotalSpent:  stats.TotalSpent,
		})
	}

	return c.JSON(http.StatusOK, summaries)
}

// GetCustomer handles retrieving a single customer with their orders
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var customer model.Customer
	result := database.GetDB().Preload("Orders").First(&customer, id)
	if result.Error != nil {
		log.Warn("Customer not found", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.FirstName == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and email are required"})
	}

	// Email uniqueness
	var count int64
	database.GetDB().Model(&model.Customer{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Customer with this email already exists", zap.String("email", req.Email))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Customer with this email already exists"})
	}

	customer := model.Customer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		IsActive:   req.IsActive,
	}
	if result := database.GetDB().Create(&customer); result.Error != nil {
		log.Error("Failed to create customer", zap.String("email", req.Email), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create customer"})
	}

	log.Info("Customer created", zap.Uint("customer_id", customer.ID), zap.String("email", customer.Email))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles updating an existing customer
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var customer model.Customer
	db := database.GetDB()
	if result := db.First(&customer, id); result.Error != nil {
		log.Warn("Customer not found for update", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	// Check email uniqueness when changing the address
	if req.Email != "" && req.Email != customer.Email {
		var count int64
		db.Model(&model.Customer{}).Where("email = ? AND id != ?", req.Email, id).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Customer with this email already exists"})
		}
		customer.Email = req.Email
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.City = req.City
	customer.PostalCode = req.PostalCode
	customer.IsActive = req.IsActive

	if result := db.Save(&customer); result.Error != nil {
		log.Error("Failed to update customer", zap.String("customer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update customer"})
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles soft-deleting a customer
func DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var customer model.Customer
	db := database.GetDB()
	if result := db.First(&customer, id); result.Error != nil {
		log.Warn("Customer not found for delete", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	if result := db.Delete(&customer); result.Error != nil {
		log.Error("Failed to delete customer", zap.String("customer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete customer"})
	}

	log.Info("Customer deleted", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted"})
}
