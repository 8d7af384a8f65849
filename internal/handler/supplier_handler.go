package handler

import (
	"net/http"
	"strconv"

	"shopapi/internal/model"
	"shopapi/pkg/database"
	"shopapi/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	CompanyName   string `json:"company_name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	IsActive      bool   `json:"is_active"`
}

// ListSuppliers handles retrieving all suppliers with optional active filter
func ListSuppliers(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB()
	isActive := c.QueryParam("is_active")
	if isActive != "" {
		if active, err := strconv.ParseBool(isActive); err == nil {
			query = query.Where("is_active = ?", active)
		}
	}

	var suppliers []model.Supplier
	if result := query.Find(&suppliers); result.Error != nil {
		log.Error("Failed to list suppliers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve suppliers"})
	}

	return c.JSON(http.StatusOK, suppliers)
}

// GetSupplier handles retrieving a single supplier with its products
func GetSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var supplier model.Supplier
	result := database.GetDB().Preload("Products").First(&supplier, id)
	if result.Error != nil {
		log.Warn("Supplier not found", zap.String("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// CreateSupplier handles creating a new supplier
func CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.CompanyName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}

	supplier := model.Supplier{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		IsActive:      req.IsActive,
	}
	if result := database.GetDB().Create(&supplier); result.Error != nil {
		log.Error("Failed to create supplier", zap.String("company_name", req.CompanyName), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create supplier"})
	}

	log.Info("Supplier created",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("company_name", supplier.CompanyName))
	return c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier handles updating an existing supplier
func UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var supplier model.Supplier
	db := database.GetDB()
	if result := db.First(&supplier, id); result.Error != nil {
		log.Warn("Supplier not found for update", zap.String("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	supplier.CompanyName = req.CompanyName
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.City = req.City
	supplier.IsActive = req.IsActive

	if result := db.Save(&supplier); result.Error != nil {
		log.Error("Failed to update supplier", zap.String("supplier_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update supplier"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles deleting a supplier. Deletion is restricted while
// products still reference the supplier.
func DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var supplier model.Supplier
	db := database.GetDB()
	if result := db.First(&supplier, id); result.Error != nil {
		log.Warn("Supplier not found for delete", zap.String("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	var productCount int64
	db.Model(&model.Product{}).Where("supplier_id = ?", supplier.ID).Count(&productCount)
	if productCount > 0 {
		log.Warn("Supplier still referenced by products",
			zap.Uint("supplier_id", supplier.ID),
			zap.Int64("products", productCount))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Supplier is referenced by existing products"})
	}

	if result := db.Delete(&supplier); result.Error != nil {
		log.Error("Failed to delete supplier", zap.String("supplier_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete supplier"})
	}

	log.Info("Supplier deleted", zap.Uint("supplier_id", supplier.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted"})
}
