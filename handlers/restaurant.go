package handlers

import (
	"net/http"
	"strconv"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/policy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ── Public catalog ──────────────────────────────────────────────────────────

// ListRestaurants returns restaurants with optional filtering and sorting
func ListRestaurants(c *gin.Context) {
	query := config.DB.Model(&models.Restaurant{})

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine = ?", cuisine)
	}
	if pr := c.Query("priceRange"); pr != "" {
		n, err := strconv.Atoi(pr)
		if err != nil || n < 1 || n > 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priceRange must be 1, 2 or 3"})
			return
		}
		query = query.Where("price_range = ?", n)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	switch c.DefaultQuery("sortBy", "rating") {
	case "name":
		query = query.Order("name asc")
	default:
		query = query.Order("rating desc")
	}

	var restaurants []models.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// GetRestaurant returns a single restaurant with its menu
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// ── Partner management ──────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required,min=3"`
	Cuisine     string `json:"cuisine" binding:"required"`
	Description string `json:"description" binding:"required,min=20"`
	Address     string `json:"address" binding:"required"`
	PriceRange  int    `json:"price_range"`
	ImageURL    string `json:"image_url"`
}

// CreateRestaurant lets a partner create a restaurant they own
func CreateRestaurant(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if !policy.CanCreateRestaurant(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only partners can create restaurants"})
		return
	}

	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PriceRange == 0 {
		req.PriceRange = 2
	}
	if req.PriceRange < 1 || req.PriceRange > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price range must be between 1 and 3"})
		return
	}

	restaurant := models.Restaurant{
		OwnerID:     p.ID,
		Name:        req.Name,
		Cuisine:     req.Cuisine,
		Description: req.Description,
		Address:     req.Address,
		PriceRange:  req.PriceRange,
		ImageURL:    req.ImageURL,
	}
	if err := config.DB.Create(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// GetMyRestaurants lists all restaurants owned by the calling partner
func GetMyRestaurants(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var restaurants []models.Restaurant
	if err := config.DB.Where("owner_id = ?", p.ID).Order("created_at desc").Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name"`
	Cuisine     *string `json:"cuisine"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	PriceRange  *int    `json:"price_range"`
	ImageURL    *string `json:"image_url"`
}

// UpdateRestaurant updates restaurant details (owner only)
func UpdateRestaurant(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !policy.CanManageRestaurant(p, &restaurant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own restaurants"})
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if len(*req.Name) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant name must be at least 3 characters"})
			return
		}
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		if len(*req.Description) < 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be at least 20 characters"})
			return
		}
		restaurant.Description = *req.Description
	}
	if req.Cuisine != nil {
		restaurant.Cuisine = *req.Cuisine
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.PriceRange != nil {
		if *req.PriceRange < 1 || *req.PriceRange > 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price range must be between 1 and 3"})
			return
		}
		restaurant.PriceRange = *req.PriceRange
	}
	if req.ImageURL != nil {
		restaurant.ImageURL = *req.ImageURL
	}

	if err := config.DB.Save(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// DeleteRestaurant removes a restaurant and its menu (owner only)
func DeleteRestaurant(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !policy.CanManageRestaurant(p, &restaurant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own restaurants"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurant).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete restaurant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}
