package handler

import (
	"net/http"
	"strconv"

	"shopapi/internal/model"
	"shopapi/pkg/database"
	"shopapi/pkg/logger"
	"shopapi/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active"`
	SupplierID  uint    `json:"supplier_id"`
	CategoryIDs []uint  `json:"category_ids"`
}

// ListProducts handles retrieving all products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("list")

	db := database.GetDB()
	var products []model.Product

	// Handle query parameters for filtering
	query := db.Preload("Categories")

	// Filter by active status if specified
	isActive := c.QueryParam("is_active")
	if isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err == nil {
			query = query.Where("is_active = ?", active)
		} else {
			log.Warn("Invalid is_active parameter", zap.String("value", isActive), zap.Error(err))
		}
	}

	// Filter by category if specified
	categoryID := c.QueryParam("category_id")
	if categoryID != "" {
		query = query.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", categoryID)
	}

	// Free-text search over name and description
	search := c.QueryParam("search")
	if search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	result := query.Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID with its categories
// and approved-review statistics
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("get")
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().Preload("Categories").Preload("Supplier").First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	// Approved reviews only feed the public average and count
	var stats struct {
		AverageRating float64
		ReviewCount   int64
	}
	database.GetDB().Model(&model.Review{}).
		Where("product_id = ? AND is_approved = ?", product.ID, true).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Scan(&stats)

	return c.JSON(http.StatusOK, echo.Map{
		"product":        product,
		"average_rating": stats.AverageRating,
		"review_count":   stats.ReviewCount,
	})
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("create")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must not be negative"})
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
		SupplierID:  req.SupplierID,
	}

	db := database.GetDB()
	if result := db.Create(&product); result.Error != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	if len(req.CategoryIDs) > 0 {
		if err := replaceProductCategories(c, &product, req.CategoryIDs); err != nil {
			return err
		}
	}

	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10), product.Name, float64(product.Stock))
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("update")
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must not be negative"})
	}

	var product model.Product
	db := database.GetDB()
	if result := db.First(&product, id); result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	product.IsActive = req.IsActive
	product.SupplierID = req.SupplierID

	if result := db.Save(&product); result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	if req.CategoryIDs != nil {
		if err := replaceProductCategories(c, &product, req.CategoryIDs); err != nil {
			return err
		}
	}

	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10), product.Name, float64(product.Stock))
	log.Info("Product updated", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles soft-deleting a product
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordProductOperation("delete")
	id := c.Param("id")

	var product model.Product
	db := database.GetDB()
	if result := db.First(&product, id); result.Error != nil {
		log.Warn("Product not found for delete", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	if result := db.Delete(&product); result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	log.Info("Product deleted", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

// replaceProductCategories sets the product's category associations through
// the product_categories join table
func replaceProductCategories(c echo.Context, product *model.Product, categoryIDs []uint) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var categories []model.Category
	if err := db.Find(&categories, categoryIDs).Error; err != nil {
		log.Error("Failed to resolve categories", zap.Uints("category_ids", categoryIDs), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to resolve categories"})
	}
	if len(categories) != len(categoryIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more categories do not exist"})
	}

	if err := db.Model(product).Association("Categories").Replace(categories); err != nil {
		log.Error("Failed to assign categories", zap.Uint("product_id", product.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to assign categories"})
	}
	product.Categories = categories
	return nil
}
