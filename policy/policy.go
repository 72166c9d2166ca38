// Package policy holds the pure authorization decision functions. No I/O:
// callers resolve the entities first, then ask. Ownership of a menu item is
// never cached — it always flows through the parent restaurant.
package policy

import (
	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

// Principal is the authenticated identity making a request.
type Principal struct {
	ID   uint
	Role models.UserRole
}

// CanCreateRestaurant — partners only.
func CanCreateRestaurant(p Principal) bool {
	return p.Role == models.RolePartner
}

// CanManageRestaurant — only the owner may mutate a restaurant.
func CanManageRestaurant(p Principal, r *models.Restaurant) bool {
	return p.ID == r.OwnerID
}

// CanCreateMenuItem — partners only; ownership of the target restaurant is
// checked separately with CanManageRestaurant.
func CanCreateMenuItem(p Principal) bool {
	return p.Role == models.RolePartner
}

// CanManageMenuItem — menu items inherit the parent restaurant's ownership.
func CanManageMenuItem(p Principal, _ *models.MenuItem, r *models.Restaurant) bool {
	return CanManageRestaurant(p, r)
}

// CanCreateOrder — customers only.
func CanCreateOrder(p Principal) bool {
	return p.Role == models.RoleCustomer
}

// CanCreateReview — customers only.
func CanCreateReview(p Principal) bool {
	return p.Role == models.RoleCustomer
}

// CanManageReview — only the author may update or delete a review.
func CanManageReview(p Principal, rev *models.Review) bool {
	return p.ID == rev.UserID
}

// CanViewOrder — the order's customer and the restaurant's owner may see it.
func CanViewOrder(p Principal, o *models.Order, r *models.Restaurant) bool {
	return p.ID == o.CustomerID || p.ID == r.OwnerID
}

// TransitionActor resolves which state-machine actor the principal is for a
// given order, or false if they are neither the customer nor the owner.
func TransitionActor(p Principal, o *models.Order, r *models.Restaurant) (models.UserRole, bool) {
	switch p.ID {
	case r.OwnerID:
		return models.RolePartner, true
	case o.CustomerID:
		return models.RoleCustomer, true
	}
	return "", false
}

// CanTransitionOrder — combines actor resolution with the state machine.
func CanTransitionOrder(p Principal, o *models.Order, r *models.Restaurant, target models.OrderStatus) bool {
	actor, ok := TransitionActor(p, o, r)
	if !ok {
		return false
	}
	return statemachine.CanTransition(o.Status, target, actor) == nil
}
