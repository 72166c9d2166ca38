package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

// GetRestaurantOrders returns all orders placed against restaurants the
// calling partner owns, optionally filtered by status. The scoping happens
// here, never client-side.
func GetRestaurantOrders(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var restaurants []models.Restaurant
	if err := config.DB.Where("owner_id = ?", p.ID).Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurants"})
		return
	}
	if len(restaurants) == 0 {
		c.JSON(http.StatusOK, gin.H{"count": 0, "orders": []models.Order{}, "restaurants": restaurants})
		return
	}

	ids := make([]uint, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.ID)
	}

	query := config.DB.Preload("Items").Preload("Customer").
		Where("restaurant_id IN ?", ids)
	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	query.Order("created_at desc").Find(&orders)

	// Per-status counts for the partner dashboard
	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(orders),
		"order_summary": summary,
		"orders":        orders,
		"restaurants":   restaurants,
	})
}
