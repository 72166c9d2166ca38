package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/policy"
	"food-marketplace-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaceOrderRequest struct {
	RestaurantID        uint   `json:"restaurant_id" binding:"required"`
	DeliveryAddress     string `json:"delivery_address"`
	Phone               string `json:"phone"`
	SpecialInstructions string `json:"special_instructions"`
	// Optional client-computed total, cross-checked against the server value.
	TotalAmount *float64 `json:"total_amount"`
	Items       []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required"`
	} `json:"items"`
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// CreateOrder places a new order (customer only). The total is always
// recomputed from live menu prices; any client-supplied total only serves as
// a consistency cross-check. All-or-nothing: one bad line item rejects the
// whole order.
func CreateOrder(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if !policy.CanCreateOrder(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only customers can place orders"})
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one item"})
		return
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery address is required"})
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var orderItems []models.OrderItem
	var total float64
	for _, reqItem := range req.Items {
		if reqItem.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item quantity must be at least 1"})
			return
		}
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Menu item %d not found", reqItem.MenuItemID)})
			return
		}
		if menuItem.RestaurantID != req.RestaurantID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' does not belong to this restaurant"})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		total += menuItem.Price * float64(reqItem.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   reqItem.Quantity,
		})
	}
	total = round2(total)

	if req.TotalAmount != nil && math.Abs(*req.TotalAmount-total) > 0.01 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Total amount mismatch"})
		return
	}

	order := models.Order{
		Reference:           uuid.NewString(),
		CustomerID:          p.ID,
		RestaurantID:        restaurant.ID,
		Status:              models.StatusPending,
		TotalAmount:         total,
		DeliveryAddress:     strings.TrimSpace(req.DeliveryAddress),
		Phone:               strings.TrimSpace(req.Phone),
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		Items:               orderItems,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: p.ID,
			Note:      "Order placed by customer",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	config.DB.Preload("Items").Preload("Restaurant").First(&order, order.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

// GetMyOrders returns the calling customer's own orders, newest first
func GetMyOrders(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var orders []models.Order
	config.DB.Preload("Items").Preload("Restaurant").
		Where("customer_id = ?", p.ID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrder returns a single order. Only the order's customer and the
// restaurant's owner may see it.
func GetOrder(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var order models.Order
	if err := config.DB.Preload("Items").Preload("StatusHistory").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, order.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !policy.CanViewOrder(p, &order, &restaurant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus applies one state machine transition. The target status
// must be a known value; who may request which transition depends on whether
// the caller is the order's customer or the restaurant's owner. The write is
// guarded by the previously read status so racing transitions cannot both
// win.
func UpdateOrderStatus(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, order.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	actor, ok := policy.TransitionActor(p, &order, &restaurant)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to modify this order"})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, actor); err != nil {
		// Legal for the other actor means this caller lacks the right, not
		// that the transition itself is impossible.
		if statemachine.AllowedForAnyActor(order.Status, req.Status) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             err.Error(),
			"current_status":    order.Status,
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	var applied bool
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Optimistic guard on the status we read above.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, prevStatus).
			Updates(map[string]interface{}{"status": req.Status, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prevStatus,
			ToStatus:   req.Status,
			ChangedBy:  p.ID,
			Note:       req.Note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Order status changed concurrently, reload and retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  req.Status,
	})
}
