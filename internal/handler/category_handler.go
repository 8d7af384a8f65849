package handler

import (
	"net/http"

	"shopapi/internal/model"
	"shopapi/pkg/database"
	"shopapi/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListCategories handles retrieving all categories
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	var categories []model.Category
	if result := database.GetDB().Find(&categories); result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles retrieving a single category with its products
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var category model.Category
	result := database.GetDB().Preload("Products").First(&category, id)
	if result.Error != nil {
		log.Warn("Category not found", zap.String("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles creating a new category
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	// Category names are unique
	var count int64
	database.GetDB().Model(&model.Category{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		log.Warn("Category with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Category with this name already exists"})
	}

	category := model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles updating an existing category
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("category_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var category model.Category
	db := database.GetDB()
	if result := db.First(&category, id); result.Error != nil {
		log.Warn("Category not found for update", zap.String("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	if req.Name != "" && req.Name != category.Name {
		var count int64
		db.Model(&model.Category{}).Where("name = ? AND id != ?", req.Name, id).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Category with this name already exists"})
		}
		category.Name = req.Name
	}
	category.Description = req.Description

	if result := db.Save(&category); result.Error != nil {
		log.Error("Failed to update category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update category"})
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var category model.Category
	db := database.GetDB()
	if result := db.First(&category, id); result.Error != nil {
		log.Warn("Category not found for delete", zap.String("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	if result := db.Delete(&category); result.Error != nil {
		log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}

	log.Info("Category deleted", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted"})
}
