// Package rating keeps Restaurant.Rating equal to the rounded mean of the
// restaurant's current reviews. Always a full recompute over the review set,
// never an incremental approximation that can drift.
package rating

import (
	"math"

	"food-marketplace-api/models"

	"gorm.io/gorm"
)

// Recompute recalculates and persists the mean rating for a restaurant.
// Called synchronously after every review create, update and delete.
// Zero reviews resets the rating to 0.
func Recompute(db *gorm.DB, restaurantID uint) error {
	var reviews []models.Review
	if err := db.Where("restaurant_id = ?", restaurantID).Find(&reviews).Error; err != nil {
		return err
	}

	rating := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = Round1(float64(sum) / float64(len(reviews)))
	}

	return db.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("rating", rating).Error
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
