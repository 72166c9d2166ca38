package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/policy"
	"food-marketplace-api/rating"

	"github.com/gin-gonic/gin"
)

// ListReviews returns a restaurant's reviews, newest first (public)
func ListReviews(c *gin.Context) {
	restaurantID := c.Query("restaurantId")
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant ID is required"})
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

type CreateReviewRequest struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment" binding:"required,min=10"`
}

// CreateReview lets a customer review a restaurant once. The restaurant's
// aggregate rating is recomputed in the same request.
func CreateReview(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if !policy.CanCreateReview(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only customers can write reviews"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, p.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.Review
	if err := config.DB.Where("restaurant_id = ? AND user_id = ?", req.RestaurantID, p.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this restaurant"})
		return
	}

	review := models.Review{
		RestaurantID: req.RestaurantID,
		UserID:       p.ID,
		UserName:     user.Name,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		// The composite unique index catches a racing duplicate insert.
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this restaurant"})
		return
	}

	if err := rating.Recompute(config.DB, req.RestaurantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant rating"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Review created successfully", "review": review})
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

// UpdateReview edits a review (author only), then recomputes the rating
func UpdateReview(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if !policy.CanManageReview(p, &review) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own reviews"})
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		if len(*req.Comment) < 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment must be at least 10 characters"})
			return
		}
		review.Comment = *req.Comment
	}

	if err := config.DB.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	if err := rating.Recompute(config.DB, review.RestaurantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

// DeleteReview removes a review (author only), then recomputes the rating
// against the remaining set
func DeleteReview(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if !policy.CanManageReview(p, &review) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own reviews"})
		return
	}

	restaurantID := review.RestaurantID
	if err := config.DB.Delete(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	if err := rating.Recompute(config.DB, restaurantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
