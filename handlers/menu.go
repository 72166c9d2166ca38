package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/policy"

	"github.com/gin-gonic/gin"
)

// ListMenuItems returns menu items with optional filtering (public)
func ListMenuItems(c *gin.Context) {
	query := config.DB.Model(&models.MenuItem{})

	if restaurantID := c.Query("restaurantId"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("availableOnly") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("category asc, name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

// GetMenuItem returns a single menu item (public)
func GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

type CreateMenuItemRequest struct {
	Name         string   `json:"name" binding:"required,min=2"`
	Description  string   `json:"description" binding:"required,min=10"`
	Price        *float64 `json:"price" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	DietaryTags  []string `json:"dietary_tags"`
	IsAvailable  *bool    `json:"is_available"`
	ImageURL     string   `json:"image_url"`
	RestaurantID uint     `json:"restaurant_id" binding:"required"`
}

// CreateMenuItem adds an item to a restaurant the caller owns
func CreateMenuItem(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if !policy.CanCreateMenuItem(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only partners can create menu items"})
		return
	}

	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a positive number"})
		return
	}
	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !policy.CanManageRestaurant(p, &restaurant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only create menu items for your own restaurants"})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	tags := req.DietaryTags
	if tags == nil {
		tags = []string{}
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		Category:     req.Category,
		DietaryTags:  tags,
		IsAvailable:  available,
		ImageURL:     req.ImageURL,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "menu_item": item})
}

type UpdateMenuItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	DietaryTags *[]string `json:"dietary_tags"`
	IsAvailable *bool     `json:"is_available"`
	ImageURL    *string   `json:"image_url"`
}

// resolveOwnedMenuItem loads a menu item and its parent restaurant, then
// authorizes through the restaurant's owner. Ownership is never read off the
// item itself.
func resolveOwnedMenuItem(c *gin.Context) (*models.MenuItem, bool) {
	p, _ := middleware.CurrentPrincipal(c)

	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return nil, false
	}
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, item.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return nil, false
	}
	if !policy.CanManageMenuItem(p, &item, &restaurant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage menu items for your own restaurants"})
		return nil, false
	}
	return &item, true
}

// UpdateMenuItem edits a menu item (owner only)
func UpdateMenuItem(c *gin.Context) {
	item, ok := resolveOwnedMenuItem(c)
	if !ok {
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if len(*req.Name) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item name must be at least 2 characters"})
			return
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		if len(*req.Description) < 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be at least 10 characters"})
			return
		}
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a positive number"})
			return
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		item.Category = *req.Category
	}
	if req.DietaryTags != nil {
		item.DietaryTags = *req.DietaryTags
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if err := config.DB.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "menu_item": item})
}

// DeleteMenuItem removes a menu item (owner only). Orders that already
// reference it keep their snapshots.
func DeleteMenuItem(c *gin.Context) {
	item, ok := resolveOwnedMenuItem(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
