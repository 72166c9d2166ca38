package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID                  uint                 `json:"id" gorm:"primaryKey"`
	Reference           string               `json:"reference" gorm:"uniqueIndex;not null"` // customer-facing order number
	CustomerID          uint                 `json:"customer_id" gorm:"not null;index"`
	Customer            User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID        uint                 `json:"restaurant_id" gorm:"not null;index"`
	Restaurant          Restaurant           `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Status              OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	TotalAmount         float64              `json:"total_amount"`
	DeliveryAddress     string               `json:"delivery_address" gorm:"not null"`
	Phone               string               `json:"phone" gorm:"not null"`
	SpecialInstructions string               `json:"special_instructions"`
	Items               []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory       []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"order_id" gorm:"not null;index"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Name       string  `json:"name"`                  // snapshot name at time of order
	Price      float64 `json:"price" gorm:"not null"` // snapshot price at time of order
	Quantity   int     `json:"quantity" gorm:"not null"`
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
