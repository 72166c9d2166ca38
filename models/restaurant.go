package models

import "time"

type Restaurant struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OwnerID     uint       `json:"owner_id" gorm:"not null;index"`
	Owner       User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name        string     `json:"name" gorm:"not null"`
	Cuisine     string     `json:"cuisine" gorm:"index"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	PriceRange  int        `json:"price_range" gorm:"default:2"` // 1..3
	Rating      float64    `json:"rating" gorm:"default:0"`      // derived from reviews, see rating package
	ImageURL    string     `json:"image_url"`
	MenuItems   []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MenuCategories is the fixed set of accepted menu item categories.
var MenuCategories = []string{"Appetizer", "Main Course", "Dessert", "Beverage", "Side Dish", "Special"}

// ValidCategory reports whether s is one of MenuCategories.
func ValidCategory(s string) bool {
	for _, c := range MenuCategories {
		if s == c {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	Category     string    `json:"category" gorm:"index"`
	DietaryTags  []string  `json:"dietary_tags" gorm:"serializer:json"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
