package models

import "time"

// Review is a customer's rating of a restaurant. At most one review per
// (restaurant, user) pair, enforced by the composite unique index.
type Review struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_reviews_restaurant_user"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_restaurant_user"`
	UserName     string    `json:"user_name"` // snapshot of the author's name
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      string    `json:"comment" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
