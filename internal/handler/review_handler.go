package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shopapi/internal/model"
	"shopapi/pkg/database"
	"shopapi/pkg/logger"
	"shopapi/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReviewRequest defines the structure for review creation/update requests
type ReviewRequest struct {
	ProductID  uint   `json:"product_id" validate:"required"`
	CustomerID uint   `json:"customer_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}

// CreateReview handles creating a review. A customer may review a product at
// most once.
func CreateReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReviewOperation("create")

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	db := database.GetDB()

	var product model.Product
	if result := db.First(&product, req.ProductID); result.Error != nil {
		log.Warn("Product not found for review", zap.Uint("product_id", req.ProductID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	var customer model.Customer
	if result := db.First(&customer, req.CustomerID); result.Error != nil {
		log.Warn("Customer not found for review", zap.Uint("customer_id", req.CustomerID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	// One review per (product, customer) pair
	var count int64
	db.Model(&model.Review{}).
		Where("product_id = ? AND customer_id = ?", req.ProductID, req.CustomerID).
		Count(&count)
	if count > 0 {
		log.Warn("Customer already reviewed this product",
			zap.Uint("product_id", req.ProductID),
			zap.Uint("customer_id", req.CustomerID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Customer has already reviewed this product"})
	}

	review := model.Review{
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsApproved: false,
	}
	if result := db.Create(&review); result.Error != nil {
		log.Error("Failed to create review", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create review"})
	}

	log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("product_id", review.ProductID),
		zap.Uint("customer_id", review.CustomerID))
	return c.JSON(http.StatusCreated, review)
}

// ListProductReviews returns reviews for a product. Approved reviews only,
// unless include_pending is set.
func ListProductReviews(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReviewOperation("list")
	productID := c.Param("id")

	query := database.GetDB().Preload("Customer").
		Where("product_id = ?", productID).
		Order("created_at DESC")

	includePending, _ := strconv.ParseBool(c.QueryParam("include_pending"))
	if !includePending {
		query = query.Where("is_approved = ?", true)
	}

	var reviews []model.Review
	if result := query.Find(&reviews); result.Error != nil {
		log.Error("Failed to list reviews", zap.String("product_id", productID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve reviews"})
	}

	return c.JSON(http.StatusOK, reviews)
}

// ListPendingReviews returns all reviews awaiting approval
func ListPendingReviews(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReviewOperation("list_pending")

	var reviews []model.Review
	result := database.GetDB().Preload("Product").Preload("Customer").
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&reviews)
	if result.Error != nil {
		log.Error("Failed to list pending reviews", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve reviews"})
	}

	return c.JSON(http.StatusOK, reviews)
}

// ApproveReview marks a review as publicly visible
func ApproveReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReviewOperation("approve")
	id := c.Param("id")

	var review model.Review
	db := database.GetDB()
	if result := db.First(&review, id); result.Error != nil {
		log.Warn("Review not found for approval", zap.String("review_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Review not found"})
	}

	if result := db.Model(&review).Update("is_approved", true); result.Error != nil {
		log.Error("Failed to approve review", zap.String("review_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to approve review"})
	}
	review.IsApproved = true

	log.Info("Review approved", zap.Uint("review_id", review.ID))
	return c.JSON(http.StatusOK, review)
}

// UpdateReview handles updating an existing review's rating and comment
func UpdateReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReviewOperation("update")
	id := c.Param("id")

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("review_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	var review model.Review
	db := database.GetDB()
	if result := db.First(&review, id); result.Error != nil {
		log.Warn("Review not found for update", zap.String("review_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Review not found"})
	}

	review.Rating = req.Rating
	review.Comment = strings.TrimSpace(req.Comment)

	if result := db.Save(&review); result.Error != nil {
		log.Error("Failed to update review", zap.String("review_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update review"})
	}

	return c.JSON(http.StatusOK, review)
}

// DeleteReview handles deleting a review
func DeleteReview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordReviewOperation("delete")
	id := c.Param("id")

	var review model.Review
	db := database.GetDB()
	if result := db.First(&review, id); result.Error != nil {
		log.Warn("Review not found for delete", zap.String("review_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Review not found"})
	}

	if result := db.Delete(&review); result.Error != nil {
		log.Error("Failed to delete review", zap.String("review_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete review"})
	}

	log.Info("Review deleted", zap.Uint("review_id", review.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted"})
}

// ProductRating returns the average rating and count over approved reviews
func ProductRating(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("id")

	var product model.Product
	db := database.GetDB()
	if result := db.First(&product, productID); result.Error != nil {
		log.Warn("Product not found for rating", zap.String("product_id", productID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	var stats struct {
		AverageRating float64
		ReviewCount   int64
	}
	db.Model(&model.Review{}).
		Where("product_id = ? AND is_approved = ?", product.ID, true).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Scan(&stats)

	return c.JSON(http.StatusOK, echo.Map{
		"product_id":     product.ID,
		"average_rating": stats.AverageRating,
		"review_count":   stats.ReviewCount,
	})
}
